package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/recalcgo/internal/app"
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ", ")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Parse processes command-line arguments. It returns the application
// configuration, whether the program should exit cleanly without running,
// or an *ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("recalc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
recalc - Evaluates a workbook of variables, constants and formula cells.

Usage:
  recalc [options] [SHEET_PATH]

Arguments:
  SHEET_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var overrides, evaluate stringList
	sheetFlag := flagSet.String("sheet", "", "Path to the workbook file or directory.")
	sFlag := flagSet.String("s", "", "Path to the workbook file or directory (shorthand).")
	flagSet.Var(&overrides, "set", "Assign a variable before evaluation, as NAME=EXPR. Repeatable.")
	flagSet.Var(&evaluate, "eval", "Reference to print, e.g. cell.total. Repeatable; default is every entry.")
	dotFlag := flagSet.String("dot", "", "Write the dependency graph in Graphviz DOT format to this file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	traceEventsFlag := flagSet.Bool("trace-events", false, "Log every node event at debug level.")
	feedURLFlag := flagSet.String("feed-url", "", "socket.io server to forward node events to.")
	feedNamespaceFlag := flagSet.String("feed-namespace", "/", "socket.io namespace for the event feed.")
	otlpFlag := flagSet.String("otlp-endpoint", "", "OTLP gRPC collector address for recompute spans, e.g. localhost:4317.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	switch {
	case *sheetFlag != "":
		path = *sheetFlag
	case *sFlag != "":
		path = *sFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}
	slog.Debug("Sheet path determined.", "path", path)

	if path == "" {
		slog.Debug("No sheet path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		SheetPath:     path,
		Overrides:     overrides,
		Evaluate:      evaluate,
		DotPath:       *dotFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		TraceEvents:   *traceEventsFlag,
		FeedURL:       *feedURLFlag,
		FeedNamespace: *feedNamespaceFlag,
		OTLPEndpoint:  *otlpFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
