package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/recalcgo/internal/ctxlog"
	"github.com/vk/recalcgo/internal/dot"
	"github.com/vk/recalcgo/internal/engine"
	"github.com/vk/recalcgo/internal/sheet"
	"github.com/vk/recalcgo/internal/tracefeed"
	"github.com/vk/recalcgo/internal/tracing"
)

// ErrEvaluation is returned by Run when at least one entry failed to
// evaluate. Every result is still printed.
var ErrEvaluation = errors.New("evaluation failed")

// Run loads the workbook, applies the overrides, prints every requested
// entry as "ref = value" and writes the DOT export if configured.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	stop, err := a.attachListeners(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stop(ctx); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	model, err := a.loader.Load(ctx, a.config.SheetPath)
	if err != nil {
		return fmt.Errorf("failed to load workbook: %w", err)
	}
	s, err := sheet.Build(ctx, a.engine, model)
	if err != nil {
		return fmt.Errorf("failed to build sheet: %w", err)
	}

	for _, o := range a.config.Overrides {
		ref, src, err := splitOverride(o)
		if err != nil {
			return err
		}
		if err := s.Assign(ref, src); err != nil {
			return fmt.Errorf("failed to apply override: %w", err)
		}
		a.logger.Debug("Override applied.", "ref", ref, "expr", src)
	}

	evalErr := a.evaluate(s)

	if a.config.DotPath != "" {
		if err := a.writeDot(a.config.DotPath); err != nil {
			return err
		}
		a.logger.Info("Graph written.", "path", a.config.DotPath, "nodes", len(a.engine.Nodes()))
	}

	a.logger.Debug("App.Run method finished.")
	return evalErr
}

// evaluate prints the requested entries in order.
func (a *App) evaluate(s *sheet.Sheet) error {
	refs := a.config.Evaluate
	if len(refs) == 0 {
		refs = s.Refs()
	}

	failed := 0
	for _, ref := range refs {
		v, err := s.Value(ref)
		if err != nil {
			failed++
			a.logger.Warn("Evaluation failed.", "ref", ref, "error", err)
			fmt.Fprintf(a.outW, "%s = <error: %v>\n", ref, err)
			continue
		}
		fmt.Fprintf(a.outW, "%s = %s\n", ref, engine.FormatValue(v))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d entries", ErrEvaluation, failed, len(refs))
	}
	return nil
}

func (a *App) writeDot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create DOT file: %w", err)
	}
	if err := dot.Render(f, a.engine, dot.Options{Label: a.config.SheetPath}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write DOT file: %w", err)
	}
	return f.Close()
}

// attachListeners subscribes the configured event listeners to the engine.
// The returned function detaches them and flushes their exporters. On error
// everything attached so far is detached again.
func (a *App) attachListeners(ctx context.Context) (func(context.Context) error, error) {
	var (
		cancels  []func()
		client   *tracefeed.Client
		provider *tracing.Provider
	)
	stop := func(ctx context.Context) error {
		for _, cancel := range cancels {
			cancel()
		}
		if client != nil {
			client.Close()
		}
		if provider != nil {
			return provider.Shutdown(ctx)
		}
		return nil
	}

	if a.config.TraceEvents {
		cancels = append(cancels, a.engine.Subscribe(engine.LogListener(a.logger)))
	}

	if a.config.FeedURL != "" {
		var err error
		client, err = tracefeed.Dial(ctx, tracefeed.Config{
			URL:       a.config.FeedURL,
			Namespace: a.config.FeedNamespace,
		})
		if err != nil {
			_ = stop(ctx)
			return nil, fmt.Errorf("failed to connect event feed: %w", err)
		}
		cancels = append(cancels, a.engine.Subscribe(client.Feed().Handle))
		a.logger.Info("Forwarding events.", "url", a.config.FeedURL)
	}

	if a.config.OTLPEndpoint != "" {
		cfg := tracing.DefaultConfig()
		cfg.OTLPEndpoint = a.config.OTLPEndpoint
		var err error
		provider, err = tracing.Init(ctx, cfg)
		if err != nil {
			_ = stop(ctx)
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		listener := tracing.NewListener(ctx, provider.Tracer())
		cancels = append(cancels, a.engine.Subscribe(listener.Handle))
	}

	return stop, nil
}
