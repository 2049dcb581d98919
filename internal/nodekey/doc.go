/*
Package nodekey defines the structural identity of a node.

A Key pairs a key space (normally the name of the node's kind) with a
canonical encoding of the node's constructor parameters. Two constructions
that produce equal keys denote the same node. Keys are comparable and are
used directly as map keys by the engine's registry.

Parameters are encoded as follows:

  - a value implementing Keyer encodes as "@" followed by its key;
  - a cty.Value encodes as cty JSON together with its type;
  - Go strings, booleans and numbers are converted to cty first, so that
    1, 1.0 and cty.NumberIntVal(1) share an encoding.

Positional parameters come first, in order, followed by keyword parameters
sorted by name.
*/
package nodekey
