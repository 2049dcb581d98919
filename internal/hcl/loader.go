package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/recalcgo/internal/config"
	"github.com/vk/recalcgo/internal/ctxlog"
	"github.com/vk/recalcgo/internal/fsutil"
	"github.com/vk/recalcgo/internal/nodes"
	"github.com/zclconf/go-cty/cty/function"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	functions map[string]function.Function
}

var _ config.Loader = (*Loader)(nil)

// NewLoader returns a loader whose value expressions can call the standard
// workbook functions.
func NewLoader() *Loader {
	return &Loader{functions: nodes.Functions()}
}

// Load parses every .hcl file under paths and merges their blocks into one
// model. Names must be unique per block type across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	names := newNameSet()
	parser := hclparse.NewParser()

	for _, path := range files {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}

		if diags := l.translate(ctx, file, &root, model, names); diags.HasErrors() {
			return nil, fmt.Errorf("invalid workbook file %s: %w", path, diags)
		}
	}

	logger.Debug("HCL loading complete.",
		"variables", len(model.Variables),
		"constants", len(model.Constants),
		"cells", len(model.Cells),
	)
	return model, nil
}

// nameSet remembers where each entry was first declared.
type nameSet map[string]hcl.Range

func newNameSet() nameSet {
	return make(nameSet)
}

// claim records ref, reporting a diagnostic when it is already taken.
func (s nameSet) claim(ref string, rng hcl.Range) hcl.Diagnostics {
	if first, ok := s[ref]; ok {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Duplicate declaration",
			Detail:   fmt.Sprintf("%s was already declared at %s.", ref, first),
			Subject:  rng.Ptr(),
		}}
	}
	s[ref] = rng
	return nil
}
