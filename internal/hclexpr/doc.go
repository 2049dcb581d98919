// Package hclexpr parses workbook formulas and analyzes which entries and
// functions they use.
package hclexpr
