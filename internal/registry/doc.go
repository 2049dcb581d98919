// Package registry provides an insertion-ordered map that never evicts.
//
// The engine stores every node it constructs in a Registry keyed by the
// node's structural key, which is what makes construction memoizing: a
// second construction with an equal key finds the first instance here.
// Entries live for the lifetime of the registry. The one exception is
// Forget, which exists so that a registration whose initialization failed
// can be rolled back before anything else observes it.
package registry
