package nodekey

// Key is the structural identity of a node.
type Key struct {
	// Space separates unrelated kinds whose parameters encode identically.
	Space string
	// Data is the canonical encoding of the constructor parameters.
	Data string
}

// New returns the key for the given space and data.
func New(space, data string) Key {
	return Key{Space: space, Data: data}
}

// String renders the key as Space(Data).
func (k Key) String() string {
	return k.Space + "(" + k.Data + ")"
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Keyer is implemented by values that have a key of their own, such as
// nodes passed as parameters to other nodes.
type Keyer interface {
	Key() Key
}
