package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/recalcgo/internal/nodekey"
)

var (
	// ErrDependencyCycle is matched by every *CycleError.
	ErrDependencyCycle = errors.New("dependency cycle")
	// ErrDuplicateKey is matched by every *DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrIllegalMutation is matched by every *MutationError.
	ErrIllegalMutation = errors.New("illegal mutation")
	// ErrNoValue is returned when reading an independent node that was never
	// assigned.
	ErrNoValue = errors.New("node has no value")
)

// CycleError reports a node whose value was requested while it was already
// being recomputed.
type CycleError struct {
	// Cycle lists the nodes from the re-entered node to the innermost frame.
	// A node reading itself gives [A]; A reading B reading A gives [A, B].
	Cycle []*Node
}

// Trace returns the cycle closed on its first node, e.g. [A, B, A].
func (e *CycleError) Trace() []*Node {
	if len(e.Cycle) == 0 {
		return nil
	}
	trace := append([]*Node(nil), e.Cycle...)
	return append(trace, e.Cycle[0])
}

func (e *CycleError) Error() string {
	names := make([]string, 0, len(e.Cycle)+1)
	for _, n := range e.Trace() {
		names = append(names, n.Label())
	}
	return fmt.Sprintf("%s: %s", ErrDependencyCycle, strings.Join(names, " -> "))
}

// Is makes errors.Is(err, ErrDependencyCycle) hold.
func (e *CycleError) Is(target error) bool {
	return target == ErrDependencyCycle
}

// DuplicateKeyError is returned by Construct when a key is already taken and
// the existing node does not allow reuse.
type DuplicateKeyError struct {
	Key       nodekey.Key
	Existing  *Kind
	Requested *Kind
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s with key data %q already exists in key space %q; cannot create %s with the same key",
		ErrDuplicateKey, e.Existing, e.Key.Data, e.Key.Space, e.Requested)
}

// Is makes errors.Is(err, ErrDuplicateKey) hold.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// MutationError is returned for a write the node's kind does not allow.
type MutationError struct {
	Node   *Node
	Op     string
	Reason string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s of %s: %s: %s", ErrIllegalMutation, e.Node.Label(), e.Op, e.Reason)
}

// Is makes errors.Is(err, ErrIllegalMutation) hold.
func (e *MutationError) Is(target error) bool {
	return target == ErrIllegalMutation
}
