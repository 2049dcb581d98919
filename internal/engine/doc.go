/*
Package engine implements an incremental computation graph.

A graph is made of memoized, lazily evaluated nodes. Each node has a kind,
a structural key derived from the kind and its constructor parameters, an
argument list of parent nodes, and a cached value. A node's value is a pure
function of its parents' values: reading it recomputes the value only when
it is not Valid, and changing any input invalidates every transitive
dependent synchronously.

# Lifecycle

Nodes are created through Engine.Construct, which looks the key up in the
engine's registry first. A kind with the Reuse policy returns the existing
node without running its initialization again; a kind with the Exclusive
policy fails with a DuplicateKeyError instead.

A node moves between three states:

	Invalid --Value()--> Pending --compute ok--> Valid
	   ^                    |                      |
	   +---compute failed---+                      |
	   +-----------------invalidation--------------+

While a node is Pending it sits on the engine's evaluation stack. Reading a
node that is already on the stack is a dependency cycle and fails with a
CycleError listing the nodes involved.

# Dependencies

Positional and keyword arguments live in observable containers. Every
mutation of those containers updates a reference count per distinct parent;
the node is registered as a dependent of a parent while that count is above
zero, so a parent used twice has a single dependent edge.

# Concurrency

An Engine and its nodes are not safe for concurrent use. Evaluation is plain
recursion on the caller's goroutine.
*/
package engine
