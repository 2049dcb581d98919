package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/recalcgo/internal/app"
)

func TestParse(t *testing.T) {
	// --- Arrange ---
	args := []string{
		"-set", "a=1", "-set", "b=max(2, 3)",
		"-eval", "cell.total",
		"-dot", "graph.dot",
		"-log-format", "JSON",
		"-log-level", "debug",
		"-trace-events",
		"-feed-url", "http://localhost:3000",
		"-otlp-endpoint", "localhost:4317",
		"book.hcl",
	}

	// --- Act ---
	cfg, shouldExit, err := Parse(args, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, &app.Config{
		SheetPath:     "book.hcl",
		Overrides:     []string{"a=1", "b=max(2, 3)"},
		Evaluate:      []string{"cell.total"},
		DotPath:       "graph.dot",
		LogFormat:     "json",
		LogLevel:      "debug",
		TraceEvents:   true,
		FeedURL:       "http://localhost:3000",
		FeedNamespace: "/",
		OTLPEndpoint:  "localhost:4317",
	}, cfg)
}

func TestParse_SheetFlagPrecedence(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "long flag wins", args: []string{"-sheet", "a.hcl", "-s", "b.hcl", "c.hcl"}, want: "a.hcl"},
		{name: "shorthand", args: []string{"-s", "b.hcl", "c.hcl"}, want: "b.hcl"},
		{name: "positional", args: []string{"c.hcl"}, want: "c.hcl"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, _, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.SheetPath)
			assert.Equal(t, "text", cfg.LogFormat)
			assert.Equal(t, "info", cfg.LogLevel)
		})
	}
}

func TestParse_ShouldExit(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {}} {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse(args, out)
		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"-nope"}, wantMsg: "flag provided but not defined: -nope"},
		{name: "log format", args: []string{"-log-format", "xml", "a.hcl"}, wantMsg: "invalid log-format"},
		{name: "log level", args: []string{"-log-level", "loud", "a.hcl"}, wantMsg: "invalid log-level"},
		{name: "override", args: []string{"-set", "novalue", "a.hcl"}, wantMsg: `invalid override "novalue"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
