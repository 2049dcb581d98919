package observable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrZeroStep is returned for a slice whose step is zero.
	ErrZeroStep = errors.New("slice step cannot be zero")
	// ErrSliceLength is returned when an extended slice assignment does not
	// provide exactly one element per index.
	ErrSliceLength = errors.New("extended slice assignment length mismatch")
	// ErrIndexOutOfRange is returned for a single index outside the container.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Slice describes a Python-style slice. A nil bound is open-ended, a negative
// bound counts from the end, and a nil step means 1.
type Slice struct {
	Start *int
	Stop  *int
	Step  *int
}

// Bound returns a pointer to v, for building slices inline.
func Bound(v int) *int {
	return &v
}

// Range returns the slice [start:stop].
func Range(start, stop int) Slice {
	return Slice{Start: Bound(start), Stop: Bound(stop)}
}

// Stepped returns the slice [start:stop:step].
func Stepped(start, stop, step int) Slice {
	return Slice{Start: Bound(start), Stop: Bound(stop), Step: Bound(step)}
}

// Every returns the slice [::step].
func Every(step int) Slice {
	return Slice{Step: Bound(step)}
}

// All returns the slice [:].
func All() Slice {
	return Slice{}
}

// step returns the effective step, validating that it is non-zero.
func (s Slice) step() (int, error) {
	if s.Step == nil {
		return 1, nil
	}
	if *s.Step == 0 {
		return 0, ErrZeroStep
	}
	return *s.Step, nil
}

// extended reports whether the slice has a step other than 1.
func (s Slice) extended() bool {
	return s.Step != nil && *s.Step != 1
}

// String renders the slice in Python notation, e.g. "[1:4:2]" or "[::-1]".
func (s Slice) String() string {
	part := func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	}
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(part(s.Start))
	sb.WriteString(":")
	sb.WriteString(part(s.Stop))
	if s.Step != nil {
		sb.WriteString(":")
		sb.WriteString(part(s.Step))
	}
	sb.WriteString("]")
	return sb.String()
}

// bounds normalizes the slice against a sequence of length n, returning the
// clamped start and stop and the step.
func (s Slice) bounds(n int) (start, stop, step int, err error) {
	step, err = s.step()
	if err != nil {
		return 0, 0, 0, err
	}

	// For a negative step the valid range is [-1, n-1] instead of [0, n].
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}

	clamp := func(p *int, def int) int {
		if p == nil {
			return def
		}
		v := *p
		if v < 0 {
			v += n
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}

	if step > 0 {
		return clamp(s.Start, lower), clamp(s.Stop, upper), step, nil
	}
	return clamp(s.Start, upper), clamp(s.Stop, lower), step, nil
}

// Indices returns the indices a slice touches in a sequence of length n, in
// the order Python would visit them: ascending for a positive step,
// descending for a negative one.
func Indices(s Slice, n int) ([]int, error) {
	start, stop, step, err := s.bounds(n)
	if err != nil {
		return nil, err
	}

	var indices []int
	if step > 0 {
		for i := start; i < stop; i += step {
			indices = append(indices, i)
		}
	} else {
		for i := start; i > stop; i += step {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

// normalizeIndex resolves a possibly negative index against length n.
func normalizeIndex(i, n int) (int, error) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, i, n)
	}
	return i, nil
}
