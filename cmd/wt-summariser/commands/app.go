package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"wt-summariser/internal/cache"
	"wt-summariser/internal/components/chrono"
	"wt-summariser/internal/components/telemetry"
	"wt-summariser/internal/config"
	"wt-summariser/internal/generation"
	"wt-summariser/internal/pipeline"
	"wt-summariser/internal/scrapers/wol"
)

const serviceName = "wt-summariser"

// app holds everything a command needs, close releases it.
type app struct {
	cfg       config.Config
	clock     chrono.StandardImpl
	tel       telemetry.API
	otel      telemetry.Telemetry
	source    *wol.Client
	store     cache.Store
	generator generation.Generator
}

type appOptions struct {
	// withGenerator is false for commands that never call the model, the
	// api key is then not required.
	withGenerator bool
	withStore     bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if opts.withGenerator {
		err = cfg.Validate()
		if err != nil {
			return nil, err
		}
	}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	otel, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	a := &app{
		cfg:   cfg,
		clock: clock,
		tel:   telemetry.SlogAPI{},
		otel:  otel,
	}

	a.source, err = wol.NewClient(cfg.Wol.Options(), a.tel)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("create wol client: %w", err)
	}

	if opts.withStore {
		a.store, err = cache.Open(ctx, cfg.Cache)
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}
	if opts.withGenerator {
		a.generator = generation.NewAnthropic(cfg.Generation.Options(), a.tel)
	}
	return a, nil
}

func (a *app) pipeline() pipeline.Pipeline {
	return pipeline.New(
		a.source,
		a.generator,
		a.store,
		a.clock,
		pipeline.Options{
			SiteRoot:    a.cfg.Wol.BaseURL,
			Concurrency: a.cfg.Generation.Concurrency,
		},
		a.tel,
	)
}

func (a *app) close(ctx context.Context) {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, a.otel.Shutdown(ctx))
	if err := errors.Join(errs...); err != nil {
		slog.Warn("failed to release resources", "err", err)
	}
}

// runOnce processes the current week and logs the outcome.
func (a *app) runOnce(ctx context.Context) error {
	week := chrono.CurrentWeek(a.clock)
	slog.Info("processing study article", "week", week.String())

	record, err := a.pipeline().RunWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("process week %s: %w", week, err)
	}

	answered := 0
	for _, q := range record.Data.Answers {
		if q.Answer != nil {
			answered++
		}
	}
	slog.Info(
		"processed study article",
		"week", week.String(),
		"title", record.Title,
		"questions", len(record.Data.Answers),
		"answered", answered,
		"summary", record.Data.Summary != nil,
	)
	return nil
}
