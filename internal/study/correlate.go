package study

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"wt-summariser/internal/components/assert"
	"wt-summariser/internal/components/telemetry"
	"wt-summariser/internal/document"
	"wt-summariser/pkg/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const report_correlator_image = "correlator.image"

var tracer = otel.Tracer("wt-summariser/internal/study")

var (
	markerQuery        = document.Query{Tags: []string{"p"}, Class: "qu", Attr: "data-pid"}
	emphasisQuery      = document.Query{Tags: []string{"strong"}}
	supplementaryQuery = document.ByClass("it", "a")
	scriptureQuery     = document.ByAttr("data-bid", "").Tag("a")
	footnoteQuery      = document.ByAttr("data-fnid", "").Tag("a")
	imageQuery         = document.ByAttr("src", "").Tag("img")
	captionQuery       = document.Query{Tags: []string{"figcaption"}}
)

var seeAlsoPicture = regexp.MustCompile(`\(See also picture\.?\)|\(See also pictures\.?\)`)

// relatedQuery matches the paragraphs owned by the question with the given
// pid, the relation attribute holds a one element list like "[12]".
func relatedQuery(pid string) document.Query {
	return document.ByAttr("data-rel-pid", fmt.Sprintf("[%s]", pid)).Tag("p")
}

// scan is the state carried from one question to the next.
type scan struct {
	// next paragraph number to assign, starts at 1
	paragraphNumber int
	// next figure container to read, starts at 1
	imageIndex int
	// the last heading seen, it applies to every question until replaced
	subheading string
}

// Correlator walks a study article and groups its paragraphs, references and
// pictures under the questions they belong to.
type Correlator struct {
	resolver Resolver
	// site root that image sources are resolved against
	siteRoot string
	tel      telemetry.API
}

func NewCorrelator(resolver Resolver, siteRoot string, tel telemetry.API) Correlator {
	assert.NotEmptyStr(siteRoot)
	assert.NotNil(tel)
	return Correlator{resolver: resolver, siteRoot: siteRoot, tel: tel}
}

// Correlate returns one Question per question marker in document order.
// Linked pages are fetched one at a time. The only error returned is the
// context's, reference failures are reported and skipped.
func (c Correlator) Correlate(ctx context.Context, root document.Element) ([]Question, error) {
	ctx, span := tracer.Start(ctx, "Correlate")
	defer span.End()

	state := &scan{paragraphNumber: 1, imageIndex: 1}
	var questions []Question
	for _, marker := range root.Find(markerQuery) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		questions = append(questions, c.question(ctx, root, marker, state))
	}

	span.SetAttributes(
		attribute.Int("questions", len(questions)),
		attribute.Int("paragraphs", state.paragraphNumber-1),
	)
	c.tel.ReportCount("correlator.paragraphs", int64(state.paragraphNumber-1))
	return questions, nil
}

func (c Correlator) question(ctx context.Context, root, marker document.Element, state *scan) Question {
	if prev, ok := marker.Prev(); ok && prev.Is("h2") {
		state.subheading = strings.TrimSpace(prev.Text())
	}

	pid, _ := marker.Attr("data-pid")
	stripped := marker.Without(emphasisQuery)
	text := strings.TrimSpace(stripped.Text())

	q := Question{
		QuestionID: pid,
		Subheading: state.subheading,
	}

	if seeAlsoPicture.MatchString(text) {
		q.Image, q.ImageCaption = c.picture(root, state.imageIndex)
		state.imageIndex++
	}

	// supplementary text is tagged with the counter before this question's
	// paragraphs are numbered
	for _, anchor := range stripped.Find(supplementaryQuery) {
		content, ok := c.resolver.Supplementary(ctx, anchor)
		if !ok {
			continue
		}
		q.AdditionalInfo = append(q.AdditionalInfo, Paragraph{
			Number:  state.paragraphNumber,
			Content: content,
		})
	}

	related := root.Find(relatedQuery(pid))
	for _, paragraph := range related {
		number := state.paragraphNumber
		state.paragraphNumber++

		q.ParagraphNumbers = append(q.ParagraphNumbers, number)
		q.Paragraphs = append(q.Paragraphs, Paragraph{
			Number:  number,
			Content: strings.TrimSpace(paragraph.Text()),
		})

		var scriptures []Reference
		for _, anchor := range paragraph.Find(scriptureQuery) {
			if ref, ok := c.resolver.Scripture(ctx, anchor); ok {
				scriptures = append(scriptures, ref)
			}
		}
		if len(scriptures) > 0 {
			q.ScriptureRefs = append(q.ScriptureRefs, ScriptureGroup{
				ParagraphNumber: number,
				Entries:         scriptures,
			})
		}

		var footnotes []Reference
		for _, anchor := range paragraph.Find(footnoteQuery) {
			if ref, ok := c.resolver.Footnote(anchor, root); ok {
				footnotes = append(footnotes, ref)
			}
		}
		if len(footnotes) > 0 {
			q.FootnoteRefs = append(q.FootnoteRefs, FootnoteGroup{
				ParagraphNumber: number,
				Entries:         footnotes,
			})
		}
	}

	if len(related) > 0 {
		q.QuestionText = text
	}
	return q
}

// picture reads figure container f<index>. Both values are empty unless the
// container has an image with a source.
func (c Correlator) picture(root document.Element, index int) (string, string) {
	container, ok := root.First(document.ByID("f" + strconv.Itoa(index)))
	if !ok {
		c.tel.ReportWarning(report_correlator_image, fmt.Errorf("figure f%d not found", index))
		return "", ""
	}
	img, ok := container.First(imageQuery)
	if !ok {
		c.tel.ReportWarning(report_correlator_image, fmt.Errorf("figure f%d has no image", index))
		return "", ""
	}
	src, _ := img.Attr("src")
	if strings.TrimSpace(src) == "" {
		c.tel.ReportWarning(report_correlator_image, fmt.Errorf("figure f%d has an empty source", index))
		return "", ""
	}
	image, err := htmlutil.ResolveURL(c.siteRoot, src)
	if err != nil {
		c.tel.ReportWarning(report_correlator_image, fmt.Errorf("figure f%d: %w", index, err))
		return "", ""
	}

	caption := ""
	if figcaption, ok := container.First(captionQuery); ok {
		caption = strings.TrimSpace(figcaption.Text())
	}
	return image, caption
}
