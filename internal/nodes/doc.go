// Package nodes provides ready-made node kinds on top of the engine:
// constants, variables, bound functions and arithmetic.
//
// Const nodes are memoized by value and can never change. Var nodes are
// never memoized; every call creates a fresh variable that can be
// reassigned. Func nodes apply a named cty function to the values of their
// arguments, and the arithmetic kinds (Add, Sub, Mul, Div, Pow) are
// shorthands for the common operators.
package nodes
