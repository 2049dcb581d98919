package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/recalcgo/internal/app"
	"github.com/vk/recalcgo/internal/testutil"
)

var workbook = map[string]string{
	"main.hcl": `
variable "a" {
  type  = number
  value = 1
}

constant "two" {
  value = 2
}

cell "double_a" {
  expr = const.two * var.a
}

cell "label" {
  expr = "a is ${var.a}"
}
`,
}

func TestRun_PrintsEveryEntry(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunApp(t, workbook, app.Config{})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, "var.a = 1\n"+
		"const.two = 2\n"+
		"cell.double_a = 2\n"+
		"cell.label = \"a is 1\"\n", result.Output)
	assert.Contains(t, result.LogOutput, "Sheet built.")
}

func TestRun_Overrides(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(t, workbook, app.Config{
		Overrides: []string{"a=max(5, 20)"},
		Evaluate:  []string{"cell.double_a"},
	})

	require.NoError(t, result.Err)
	assert.Equal(t, "cell.double_a = 40\n", result.Output)
	assert.Contains(t, result.LogOutput, "Override applied.")
}

func TestRun_OverrideErrors(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"not a variable": "const.two=3",
		"wrong type":     `a="many"`,
		"unknown":        "missing=1",
	}
	for name, override := range testCases {
		t.Run(name, func(t *testing.T) {
			result := testutil.RunApp(t, workbook, app.Config{Overrides: []string{override}})
			require.Error(t, result.Err)
			assert.Contains(t, result.Err.Error(), "failed to apply override")
			assert.Empty(t, result.Output)
		})
	}
}

func TestRun_EvaluationErrors(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(t, map[string]string{
		"main.hcl": `
variable "x" {}

cell "a" {
  expr = cell.a + 1
}

cell "y" {
  expr = var.x * 2
}

cell "ok" {
  expr = "fine"
}
`,
	}, app.Config{Evaluate: []string{"cell.a", "cell.y", "cell.ok"}})

	require.ErrorIs(t, result.Err, app.ErrEvaluation)
	assert.Contains(t, result.Err.Error(), "2 of 3 entries")
	assert.Contains(t, result.Output, "cell.a = <error: dependency cycle: cell.a -> cell.a>\n")
	assert.Contains(t, result.Output, "cell.y = <error: node has no value: var.x>\n")
	assert.Contains(t, result.Output, "cell.ok = \"fine\"\n")
	assert.Contains(t, result.LogOutput, "Evaluation failed.")
}

func TestRun_WritesDot(t *testing.T) {
	t.Parallel()

	dotPath := filepath.Join(t.TempDir(), "graph.dot")
	result := testutil.RunApp(t, workbook, app.Config{DotPath: dotPath})
	require.NoError(t, result.Err)

	data, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph G {")
	assert.Contains(t, string(data), "cell.double_a")
	assert.Contains(t, string(data), "#ddffdd")
	assert.Contains(t, result.LogOutput, "Graph written.")
}

func TestRun_TraceEvents(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(t, workbook, app.Config{TraceEvents: true})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "Node event.")
	assert.Contains(t, result.LogOutput, "event=stack_pushed")

	quiet := testutil.RunApp(t, workbook, app.Config{})
	assert.NotContains(t, quiet.LogOutput, "Node event.")
}

func TestRun_LoadErrors(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(t, map[string]string{"main.hcl": `cell "a" {`}, app.Config{})
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to load workbook")

	result = testutil.RunApp(t, map[string]string{"main.hcl": `cell "a" { expr = var.nope }`}, app.Config{})
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to build sheet")
}

func TestRun_FeedConnectionError(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(t, workbook, app.Config{FeedURL: "no-scheme"})
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to connect event feed")
}
