// Package sheet binds a workbook model to engine nodes.
//
// Variables become Var nodes, constants become Const nodes and every cell
// becomes a node of the sheet's Cell kind whose keyword arguments are the
// entries its expression references, keyed by reference (var.a, cell.b).
// Reading a cell evaluates its expression against the values of those
// arguments, so changing a variable or redefining a formula invalidates
// exactly the cells that depend on it.
package sheet
