package observable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record attaches a listener to l and returns a pointer to the collected mutations.
func record[T any](l *List[T]) *[]ListMutation[T] {
	var got []ListMutation[T]
	l.Listen(func(m ListMutation[T]) { got = append(got, m) })
	return &got
}

func diffMutations[T any](t *testing.T, want, got []ListMutation[T]) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestIndices(t *testing.T) {
	testCases := []struct {
		name  string
		slice Slice
		n     int
		want  []int
	}{
		{name: "all", slice: All(), n: 5, want: []int{0, 1, 2, 3, 4}},
		{name: "simple range", slice: Range(1, 3), n: 5, want: []int{1, 2}},
		{name: "stepped", slice: Stepped(1, 4, 2), n: 5, want: []int{1, 3}},
		{name: "every second", slice: Every(2), n: 5, want: []int{0, 2, 4}},
		{name: "reverse", slice: Every(-1), n: 4, want: []int{3, 2, 1, 0}},
		{name: "reverse every second", slice: Every(-2), n: 5, want: []int{4, 2, 0}},
		{name: "negative start", slice: Slice{Start: Bound(-2)}, n: 5, want: []int{3, 4}},
		{name: "negative stop", slice: Slice{Stop: Bound(-1)}, n: 5, want: []int{0, 1, 2, 3}},
		{name: "stop past end", slice: Range(2, 100), n: 4, want: []int{2, 3}},
		{name: "start before beginning", slice: Range(-100, 2), n: 4, want: []int{0, 1}},
		{name: "empty when start after stop", slice: Range(3, 1), n: 5, want: nil},
		{name: "negative step with bounds", slice: Stepped(4, 0, -2), n: 6, want: []int{4, 2}},
		{name: "negative step start past end", slice: Slice{Start: Bound(10), Step: Bound(-3)}, n: 5, want: []int{4, 1}},
		{name: "negative step stop before beginning", slice: Slice{Stop: Bound(-100), Step: Bound(-1)}, n: 3, want: []int{2, 1, 0}},
		{name: "empty sequence", slice: Every(-1), n: 0, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Indices(tc.slice, tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("zero step", func(t *testing.T) {
		_, err := Indices(Every(0), 3)
		assert.ErrorIs(t, err, ErrZeroStep)
	})
}

func TestSlice_String(t *testing.T) {
	assert.Equal(t, "[1:4:2]", Stepped(1, 4, 2).String())
	assert.Equal(t, "[::-1]", Every(-1).String())
	assert.Equal(t, "[:]", All().String())
}

func TestList_SetExtendedSlice(t *testing.T) {
	l := NewList(0, 1, 2, 3, 4)
	got := record(l)

	require.NoError(t, l.SetSlice(Stepped(1, 4, 2), []int{10, 20}))

	assert.Equal(t, []int{0, 10, 2, 20, 4}, l.Items())
	diffMutations(t, []ListMutation[int]{
		{Index: 1, Removed: []int{1}, Added: []int{10}},
		{Index: 3, Removed: []int{3}, Added: []int{20}},
	}, *got)
}

func TestList_SetExtendedSliceLengthMismatch(t *testing.T) {
	l := NewList(0, 1, 2, 3, 4)
	got := record(l)

	err := l.SetSlice(Every(2), []int{7, 8})
	require.ErrorIs(t, err, ErrSliceLength)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, l.Items(), "list must be untouched")
	assert.Empty(t, *got)
}

func TestList_DeleteExtendedSlice(t *testing.T) {
	t.Run("positive step deletes from the back", func(t *testing.T) {
		l := NewList(0, 1, 2, 3, 4)
		got := record(l)

		require.NoError(t, l.DeleteSlice(Every(2)))

		assert.Equal(t, []int{1, 3}, l.Items())
		diffMutations(t, []ListMutation[int]{
			{Index: 4, Removed: []int{4}},
			{Index: 2, Removed: []int{2}},
			{Index: 0, Removed: []int{0}},
		}, *got)
	})

	t.Run("negative step", func(t *testing.T) {
		l := NewList(0, 1, 2, 3, 4, 5)
		require.NoError(t, l.DeleteSlice(Every(-2)))
		assert.Equal(t, []int{0, 2, 4}, l.Items())
	})
}

func TestList_SimpleSlice(t *testing.T) {
	l := NewList("a", "b", "c", "d")
	got := record(l)

	require.NoError(t, l.SetSlice(Range(1, 3), []string{"x", "y", "z"}))
	assert.Equal(t, []string{"a", "x", "y", "z", "d"}, l.Items())

	require.NoError(t, l.DeleteSlice(Slice{Start: Bound(-2)}))
	assert.Equal(t, []string{"a", "x", "y"}, l.Items())

	diffMutations(t, []ListMutation[string]{
		{Index: 1, Removed: []string{"b", "c"}, Added: []string{"x", "y", "z"}},
		{Index: 3, Removed: []string{"z", "d"}},
	}, *got)
}

func TestList_SingleElementOperations(t *testing.T) {
	l := NewList(1, 2, 3)
	got := record(l)

	require.NoError(t, l.Set(-1, 30))
	l.Insert(0, 0)
	l.Insert(100, 99) // clamped to the end
	l.Append(7, 8)
	require.NoError(t, l.Delete(1))

	assert.Equal(t, []int{0, 2, 30, 99, 7, 8}, l.Items())
	diffMutations(t, []ListMutation[int]{
		{Index: 2, Removed: []int{3}, Added: []int{30}},
		{Index: 0, Added: []int{0}},
		{Index: 4, Added: []int{99}},
		{Index: 5, Added: []int{7, 8}},
		{Index: 1, Removed: []int{1}},
	}, *got)

	v, err := l.At(-1)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	assert.ErrorIs(t, l.Set(10, 1), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Delete(-10), ErrIndexOutOfRange)
	_, err = l.At(6)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestList_ReplaceReportsRemovalsFirst(t *testing.T) {
	l := NewList(1, 2)
	got := record(l)

	l.Replace(3)
	diffMutations(t, []ListMutation[int]{
		{Index: 0, Removed: []int{1, 2}},
		{Index: 0, Added: []int{3}},
	}, *got)

	// Clearing an empty list reports nothing.
	empty := NewList[int]()
	emptyGot := record(empty)
	empty.Clear()
	assert.Empty(t, *emptyGot)
}

func TestList_ListenCancel(t *testing.T) {
	l := NewList[int]()
	count := 0
	cancel := l.Listen(func(ListMutation[int]) { count++ })

	l.Append(1)
	cancel()
	l.Append(2)
	assert.Equal(t, 1, count)
}
