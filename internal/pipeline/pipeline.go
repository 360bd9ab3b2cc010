// Package pipeline runs one week end to end: locate the article, correlate
// it, generate answers and a summary, then store the record.
package pipeline

import (
	"context"
	"fmt"
	"wt-summariser/internal/cache"
	"wt-summariser/internal/components/assert"
	"wt-summariser/internal/components/chrono"
	"wt-summariser/internal/components/telemetry"
	"wt-summariser/internal/document"
	"wt-summariser/internal/generation"
	"wt-summariser/internal/study"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const (
	report_pipeline_answer    = "pipeline.answer"
	report_pipeline_summary   = "pipeline.summary"
	report_pipeline_cache_set = "pipeline.cache-set"
)

var tracer = otel.Tracer("wt-summariser/internal/pipeline")

// Source is the site the article and everything it links to is read from.
type Source interface {
	study.PageFetcher
	LocateArticle(ctx context.Context, week chrono.Week) (string, error)
	LoadDocument(ctx context.Context, url string) (*document.Document, error)
	FetchImage(ctx context.Context, url string) ([]byte, string, error)
}

type Options struct {
	// SiteRoot is what image sources are resolved against.
	SiteRoot string
	// Concurrency bounds the answer requests in flight, 0 means no bound.
	Concurrency int
}

type Pipeline struct {
	source    Source
	generator generation.Generator
	store     cache.Store
	clock     chrono.API
	opts      Options
	tel       telemetry.API
}

func New(
	source Source,
	generator generation.Generator,
	store cache.Store,
	clock chrono.API,
	opts Options,
	tel telemetry.API,
) Pipeline {
	assert.NotNil(source)
	assert.NotNil(generator)
	assert.NotNil(store)
	assert.NotNil(clock)
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.SiteRoot)
	if opts.Concurrency != 0 {
		assert.Positive("concurrency", opts.Concurrency)
	}

	return Pipeline{
		source:    source,
		generator: generator,
		store:     store,
		clock:     clock,
		opts:      opts,
		tel:       telemetry.NewScopedAPI("pipeline", tel),
	}
}

// Run processes the current week.
func (p Pipeline) Run(ctx context.Context) error {
	_, err := p.RunWeek(ctx, chrono.CurrentWeek(p.clock))
	return err
}

// Correlate loads the study article of week from source and returns its
// questions without generating anything.
func Correlate(
	ctx context.Context,
	source Source,
	siteRoot string,
	week chrono.Week,
	tel telemetry.API,
) (study.Article, []study.Question, error) {
	articleURL, err := source.LocateArticle(ctx, week)
	if err != nil {
		return study.Article{}, nil, fmt.Errorf("locate article for %s: %w", week, err)
	}
	doc, err := source.LoadDocument(ctx, articleURL)
	if err != nil {
		return study.Article{}, nil, fmt.Errorf("load article %s: %w", articleURL, err)
	}
	root := doc.Root()
	article := study.ExtractArticle(articleURL, root)

	correlator := study.NewCorrelator(study.NewResolver(source, tel), siteRoot, tel)
	questions, err := correlator.Correlate(ctx, root)
	if err != nil {
		return study.Article{}, nil, err
	}
	return article, questions, nil
}

// RunWeek processes week and returns the record it stored. Only failures to
// obtain the article are returned, generation and cache failures are
// reported and leave their field empty.
func (p Pipeline) RunWeek(ctx context.Context, week chrono.Week) (study.Record, error) {
	ctx, span := tracer.Start(ctx, "RunWeek")
	defer span.End()
	span.SetAttributes(attribute.String("week", week.String()))

	article, questions, err := Correlate(ctx, p.source, p.opts.SiteRoot, week, p.tel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "article failed")
		return study.Record{}, err
	}
	p.tel.ReportDebug("correlated article", article.URL, len(questions))

	header := study.Header(article)
	p.answerAll(ctx, header, questions)

	record := study.Record{
		Article: article,
		Data: study.RecordData{
			Summary: p.summarize(ctx, header, questions),
			Answers: questions,
		},
	}

	err = cache.Save(ctx, p.store, week, record)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_cache_set, err, cache.Key(week))
	} else {
		p.tel.ReportDebug("stored record", cache.Key(week))
	}
	return record, nil
}

// answerAll fills in every question's answer concurrently. Each goroutine
// writes only its own element and never returns an error, so one failure
// cannot cancel the others.
func (p Pipeline) answerAll(ctx context.Context, header string, questions []study.Question) {
	group, groupCtx := errgroup.WithContext(ctx)
	if p.opts.Concurrency > 0 {
		group.SetLimit(p.opts.Concurrency)
	}
	for i := range questions {
		q := &questions[i]
		group.Go(func() error {
			answer, err := p.answer(groupCtx, header, *q)
			if err != nil {
				p.tel.ReportBroken(report_pipeline_answer, err, q.QuestionID)
				return nil
			}
			q.Answer = &answer
			return nil
		})
	}
	group.Wait()
}

func (p Pipeline) answer(ctx context.Context, header string, q study.Question) (string, error) {
	input := fmt.Sprintf("%s\n\n%s", header, study.Render(q, study.ModeFull))

	var image []byte
	var mediaType string
	if q.Image != "" && q.ImageCaption != "" {
		var err error
		image, mediaType, err = p.source.FetchImage(ctx, q.Image)
		if err != nil {
			return "", fmt.Errorf("fetch image %s: %w", q.Image, err)
		}
	}

	blocks := generation.AnswerRequest(input, image, mediaType, q.ImageCaption)
	return p.generator.Generate(ctx, blocks, generation.ModeAnswer)
}

func (p Pipeline) summarize(ctx context.Context, header string, questions []study.Question) *string {
	input := fmt.Sprintf("%s\n\n%s", header, study.RenderAll(questions, study.ModeSummary))
	summary, err := p.generator.Generate(ctx, generation.SummaryRequest(input), generation.ModeSummary)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_summary, err)
		return nil
	}
	return &summary
}
