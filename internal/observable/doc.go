// Package observable provides a list and a mapping container that report
// every structural mutation to registered listeners.
//
// Each mutating call builds one mutation record per touched position (or key)
// and delivers it synchronously, in registration order, before returning.
// The engine uses these containers as the backing store for a node's
// positional and keyword arguments, so that dependency edges are maintained
// from the mutation stream rather than from ad-hoc bookkeeping.
//
// Slices follow Python semantics: bounds may be open or negative and the step
// may be negative. See Indices for the exact index sequence a slice touches.
package observable
