package hcl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/recalcgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// writeWorkbook writes files into a temporary directory and returns it.
func writeWorkbook(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestLoader_Load(t *testing.T) {
	// --- Arrange ---
	dir := writeWorkbook(t, map[string]string{
		"main.hcl": `
variable "a" {
  type  = number
  value = "1"
}

variable "unset" {}

constant "two" {
  value = max(1, 2)
}

cell "double_a" {
  type = number
  expr = const.two * var.a
}

cell "label" {
  expr = "a is ${var.a}"
}
`,
	})

	// --- Act ---
	model, err := NewLoader().Load(testContext(), dir)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, model.Variables, 2)
	a := model.Variables[0]
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, cty.Number, a.Type)
	assert.True(t, a.Value.RawEquals(cty.NumberIntVal(1)), "string value converted to the declared type")

	unset := model.Variables[1]
	assert.Equal(t, cty.DynamicPseudoType, unset.Type)
	assert.Equal(t, cty.NilType, unset.Value.Type())

	require.Len(t, model.Constants, 1)
	assert.True(t, model.Constants[0].Value.RawEquals(cty.NumberIntVal(2)))

	require.Len(t, model.Cells, 2)
	assert.Equal(t, "const.two * var.a", model.Cells[0].Source)
	assert.Equal(t, cty.Number, model.Cells[0].Type)
	assert.Equal(t, `"a is ${var.a}"`, model.Cells[1].Source)
	assert.Equal(t, cty.DynamicPseudoType, model.Cells[1].Type)

	assert.Equal(t, []string{"var.a", "var.unset", "const.two", "cell.double_a", "cell.label"}, model.Refs())
}

func TestLoader_MergesFiles(t *testing.T) {
	dir := writeWorkbook(t, map[string]string{
		"a.hcl":        `variable "x" { value = 1 }`,
		"nested/b.hcl": `cell "y" { expr = var.x + 1 }`,
		"ignored.txt":  `not hcl`,
	})

	model, err := NewLoader().Load(testContext(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"var.x", "cell.y"}, model.Refs())
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "syntax error",
			files:   map[string]string{"main.hcl": `cell "a" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown block",
			files:   map[string]string{"main.hcl": `step "a" {}`},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "missing cell expression",
			files:   map[string]string{"main.hcl": `cell "a" {}`},
			wantErr: "failed to decode HCL file",
		},
		{
			name: "duplicate across files",
			files: map[string]string{
				"a.hcl": `cell "total" { expr = 1 }`,
				"b.hcl": `cell "total" { expr = 2 }`,
			},
			wantErr: "cell.total was already declared",
		},
		{
			name:    "value does not fit the type",
			files:   map[string]string{"main.hcl": "variable \"n\" {\n  type  = number\n  value = \"many\"\n}\n"},
			wantErr: "Invalid value for variable",
		},
		{
			name:    "bad type expression",
			files:   map[string]string{"main.hcl": `variable "n" { type = numbr }`},
			wantErr: "invalid workbook file",
		},
		{
			name:    "reference in a constant",
			files:   map[string]string{"main.hcl": `constant "c" { value = var.a }`},
			wantErr: "Reference not allowed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeWorkbook(t, tc.files)
			_, err := NewLoader().Load(testContext(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoader_NoFiles(t *testing.T) {
	_, err := NewLoader().Load(testContext(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl files found")
}
