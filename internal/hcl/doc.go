// Package hcl loads workbooks written in HCL into the format-agnostic
// config.Model.
//
// A workbook is one or more .hcl files holding variable, constant and cell
// blocks:
//
//	variable "a" {
//	  type  = number
//	  value = 1
//	}
//
//	constant "two" {
//	  value = 2
//	}
//
//	cell "double_a" {
//	  expr = const.two * var.a
//	}
//
// Variable and constant values are evaluated when the file is loaded and may
// call functions but not reference other entries. Cell expressions are kept
// unevaluated.
package hcl
