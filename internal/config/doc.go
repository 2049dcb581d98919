// Package config defines the format-agnostic workbook model and the Loader
// interface that produces it.
//
// A workbook declares three kinds of entries: variables, which can be
// reassigned after loading; constants, which never change; and cells, whose
// value is an expression over other entries. The sheet package binds a
// Model to engine nodes. Concrete loaders, such as the HCL one, live in
// separate packages.
package config
