package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes every top-level block of a workbook file.
type fileRoot struct {
	Variables []*variableBlock `hcl:"variable,block"`
	Constants []*constantBlock `hcl:"constant,block"`
	Cells     []*cellBlock     `hcl:"cell,block"`
}

type variableBlock struct {
	Name  string         `hcl:"name,label"`
	Type  hcl.Expression `hcl:"type,optional"`
	Value hcl.Expression `hcl:"value,optional"`
}

type constantBlock struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
}

type cellBlock struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type,optional"`
	Expr hcl.Expression `hcl:"expr"`
}
