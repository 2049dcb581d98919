package engine

// State is the lifecycle state of a node.
type State int

const (
	// Invalid means the cached value, if any, must not be used.
	Invalid State = iota
	// Pending means the value is being recomputed.
	Pending
	// Valid means the cached value is current.
	Valid
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Invalid:
		return "invalid"
	case Pending:
		return "pending"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}
