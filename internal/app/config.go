package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SheetPath string // hcl file or directory
	// Overrides are NAME=EXPR assignments applied to variables before
	// evaluation. NAME may omit the "var." prefix.
	Overrides []string
	// Evaluate lists the references to print; empty means every entry.
	Evaluate []string
	DotPath  string

	LogFormat   string
	LogLevel    string
	TraceEvents bool

	FeedURL       string
	FeedNamespace string
	OTLPEndpoint  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SheetPath == "" {
		return nil, errors.New("SheetPath is a required configuration field and cannot be empty")
	}
	for _, o := range cfg.Overrides {
		if _, _, err := splitOverride(o); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// splitOverride parses NAME=EXPR into a variable reference and the
// expression source.
func splitOverride(o string) (ref, src string, err error) {
	name, src, ok := strings.Cut(o, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(src) == "" {
		return "", "", fmt.Errorf("invalid override %q: want NAME=EXPR", o)
	}
	if !strings.Contains(name, ".") {
		name = "var." + name
	}
	return name, src, nil
}
