package tracefeed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/recalcgo/internal/ctxlog"
	"github.com/vk/recalcgo/internal/engine"
	"github.com/vk/recalcgo/internal/nodes"
	"github.com/zclconf/go-cty/cty"
)

type emitted struct {
	event   string
	payload map[string]any
}

func recordingFeed(only ...engine.EventType) (*Feed, *[]emitted) {
	var got []emitted
	f := NewFeed(func(event string, payload any) {
		got = append(got, emitted{event: event, payload: payload.(map[string]any)})
	}, only...)
	return f, &got
}

func TestFeed_ForwardsEvents(t *testing.T) {
	// --- Arrange ---
	e := engine.New()
	feed, got := recordingFeed()
	e.Subscribe(feed.Handle)

	// --- Act ---
	x, err := nodes.NamedVar(e, "x", 4)
	require.NoError(t, err)

	// --- Assert ---
	require.Len(t, *got, 3)
	for _, m := range *got {
		assert.Equal(t, EventName, m.event)
		assert.Equal(t, "Var", m.payload["kind"])
		assert.Equal(t, x.Key().String(), m.payload["key"])
	}
	assert.Equal(t, "created", (*got)[0].payload["type"])
	assert.Equal(t, map[string]any{
		"type": "state_changed",
		"node": "x",
		"key":  x.Key().String(),
		"kind": "Var",
		"from": "invalid",
		"to":   "valid",
	}, (*got)[1].payload)
	assert.Nil(t, (*got)[2].payload["old"])
	assert.Equal(t, 4.0, (*got)[2].payload["new"])
}

func TestFeed_Filter(t *testing.T) {
	e := engine.New()
	feed, got := recordingFeed(engine.StackPushed, engine.StackPopped)
	e.Subscribe(feed.Handle)

	x, err := nodes.Var(e, 2)
	require.NoError(t, err)
	sq, err := nodes.Mul(e, x, x)
	require.NoError(t, err)
	_, err = sq.Value()
	require.NoError(t, err)

	require.Len(t, *got, 2)
	assert.Equal(t, "stack_pushed", (*got)[0].payload["type"])
	assert.Equal(t, 1, (*got)[0].payload["depth"])
	assert.Equal(t, "stack_popped", (*got)[1].payload["type"])
	assert.NotContains(t, (*got)[1].payload, "error")
}

func TestEncode_ArgumentsAndErrors(t *testing.T) {
	e := engine.New()
	x, err := nodes.NamedVar(e, "x", 1)
	require.NoError(t, err)
	n, err := nodes.Add(e, x)
	require.NoError(t, err)

	added := Encode(engine.Event{Type: engine.ArgAdded, Node: n, Index: -1, Name: "rhs", Parent: x})
	assert.Equal(t, "rhs", added["slot"])
	assert.Equal(t, "x", added["parent"])

	popped := Encode(engine.Event{Type: engine.StackPopped, Node: n, Depth: 3, Err: errors.New("bad")})
	assert.Equal(t, "bad", popped["error"])
	assert.Equal(t, 3, popped["depth"])
}

func TestValueOrText(t *testing.T) {
	testCases := []struct {
		name  string
		value cty.Value
		want  any
	}{
		{name: "nil", value: cty.NilVal, want: nil},
		{name: "string", value: cty.StringVal("a"), want: "a"},
		{name: "bool", value: cty.False, want: false},
		{name: "null", value: cty.NullVal(cty.Number), want: nil},
		{
			name:  "object",
			value: cty.ObjectVal(map[string]cty.Value{"n": cty.NumberIntVal(2), "l": cty.TupleVal([]cty.Value{cty.True})}),
			want:  map[string]any{"n": 2.0, "l": []any{true}},
		},
		{name: "capsule falls back to text", value: cty.CapsuleVal(cty.Capsule("thing", nil), new(int)), want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := valueOrText(tc.value)
			if tc.name == "capsule falls back to text" {
				assert.IsType(t, "", got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDial_InvalidURL(t *testing.T) {
	testCases := []string{"not a url", "://missing-scheme", "http://"}
	for _, url := range testCases {
		t.Run(url, func(t *testing.T) {
			_, err := Dial(testContext(), Config{URL: url})
			assert.Error(t, err)
		})
	}
}

func TestDial_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	cancel()

	_, err := Dial(ctx, Config{URL: "http://127.0.0.1:1", Timeout: time.Second})
	assert.Error(t, err)
}
