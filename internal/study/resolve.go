package study

import (
	"context"
	"fmt"
	"strings"
	"wt-summariser/internal/components/assert"
	"wt-summariser/internal/components/telemetry"
	"wt-summariser/internal/document"
)

const (
	report_resolver_scripture     = "resolver.scripture"
	report_resolver_footnote      = "resolver.footnote"
	report_resolver_supplementary = "resolver.supplementary"
)

var (
	// highlight regions of a supplementary page
	highlightQuery = document.ByClass("jwac-textHighlight", "p", "span", "div")
	// highlight regions of a scripture page, verses never use div
	verseQuery = document.ByClass("jwac-textHighlight", "p", "span")
	// in-page verse and chapter links inside a highlighted verse
	verseNavQueries = []document.Query{
		document.ByClass("vl", "a"),
		document.ByClass("cl", "a"),
	}
	footnoteSymbolQuery = document.ByClass("fn-symbol", "a")
)

// PageFetcher loads a linked page, href may be relative to the site root.
type PageFetcher interface {
	FetchPage(ctx context.Context, href string) (document.Element, error)
}

// Resolver turns citation, footnote and supplementary anchors into text.
// Every failure is reported and results in the entry being omitted.
type Resolver struct {
	pages PageFetcher
	tel   telemetry.API
}

func NewResolver(pages PageFetcher, tel telemetry.API) Resolver {
	assert.NotNil(pages)
	assert.NotNil(tel)
	return Resolver{pages: pages, tel: tel}
}

func (r Resolver) fetch(ctx context.Context, reportId string, anchor document.Element) (document.Element, bool) {
	href, ok := anchor.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		r.tel.ReportDebug(fmt.Sprintf("%s: anchor without href", reportId))
		return nil, false
	}
	page, err := r.pages.FetchPage(ctx, href)
	if err != nil {
		r.tel.ReportBroken(reportId, fmt.Errorf("fetch %s: %w", href, err))
		return nil, false
	}
	return page, true
}

// Scripture follows a scripture anchor and returns the highlighted verse text
// labelled with the anchor's own text.
func (r Resolver) Scripture(ctx context.Context, anchor document.Element) (Reference, bool) {
	page, ok := r.fetch(ctx, report_resolver_scripture, anchor)
	if !ok {
		return Reference{}, false
	}

	verses := page.Find(verseQuery)
	if len(verses) == 0 {
		href, _ := anchor.Attr("href")
		r.tel.ReportWarning(report_resolver_scripture, fmt.Errorf("no highlighted verse on %s", href))
		return Reference{}, false
	}
	var text strings.Builder
	for _, verse := range verses {
		text.WriteString(verse.Without(verseNavQueries...).Text())
	}

	return Reference{
		Label: strings.TrimSpace(anchor.Text()),
		Text:  strings.TrimSpace(text.String()),
	}, true
}

// Footnote looks up the footnote definition in the same document as the
// anchor, no request is made.
func (r Resolver) Footnote(anchor document.Element, root document.Element) (Reference, bool) {
	id, ok := anchor.Attr("data-fnid")
	if !ok || id == "" {
		return Reference{}, false
	}
	definition, ok := root.First(document.Query{
		Tags:  []string{"div"},
		Class: "fn-ref",
		Attr:  "data-fnid",
		Value: id,
	})
	if !ok {
		r.tel.ReportWarning(report_resolver_footnote, fmt.Errorf("footnote %q has no definition", id))
		return Reference{}, false
	}
	return Reference{
		Label: id,
		Text:  strings.TrimSpace(definition.Without(footnoteSymbolQuery).Text()),
	}, true
}

// Supplementary follows a supplementary reading anchor and returns every
// highlighted region of the linked page, each trimmed and newline terminated.
// A page without highlights resolves to an empty string.
func (r Resolver) Supplementary(ctx context.Context, anchor document.Element) (string, bool) {
	page, ok := r.fetch(ctx, report_resolver_supplementary, anchor)
	if !ok {
		return "", false
	}
	var text strings.Builder
	for _, region := range page.Find(highlightQuery) {
		text.WriteString(strings.TrimSpace(region.Text()))
		text.WriteString("\n")
	}
	return text.String(), true
}
