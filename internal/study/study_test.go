package study

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"wt-summariser/internal/components/telemetry"
	"wt-summariser/internal/document"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const siteRoot = "https://wol.jw.org"

type fakePages struct {
	pages map[string]string
	calls []string
}

func (f *fakePages) FetchPage(ctx context.Context, href string) (document.Element, error) {
	f.calls = append(f.calls, href)
	body, ok := f.pages[href]
	if !ok {
		return nil, fmt.Errorf("fetch %s: 404 Not Found", href)
	}
	doc, err := document.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

func linkedPages() *fakePages {
	return &fakePages{pages: map[string]string{
		"/b/1":    `<p class="jwac-textHighlight"><a class="vl">11</a> These things I have spoken.</p>`,
		"/b/2":    `<span class="jwac-textHighlight"><a class="cl">22</a>The fruit of the spirit is love, joy.</span>`,
		"/b/4":    `<div><p class="jwac-textHighlight">Always rejoice.</p><p>not highlighted</p></div>`,
		"/supp/1": `<p class="jwac-textHighlight"> Line one </p><p>skip</p><div class="jwac-textHighlight">Line two</div>`,
	}}
}

func loadFixture(t *testing.T, name string) document.Element {
	t.Helper()
	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	doc, err := document.Parse(f)
	require.NoError(t, err)
	return doc.Root()
}

func correlateFixture(t *testing.T) ([]Question, *fakePages, *telemetry.Recorder) {
	t.Helper()
	rec := &telemetry.Recorder{}
	pages := linkedPages()
	correlator := NewCorrelator(NewResolver(pages, rec), siteRoot, rec)
	questions, err := correlator.Correlate(context.Background(), loadFixture(t, "testdata/article.html"))
	require.NoError(t, err)
	return questions, pages, rec
}

func TestCorrelate(t *testing.T) {
	questions, pages, rec := correlateFixture(t)

	expected := []Question{
		{
			QuestionID:       "2",
			ParagraphNumbers: []int{1, 2},
			Paragraphs: []Paragraph{
				{Number: 1, Content: "Joy is a quality. John 15:11 and Gal. 5:22"},
				{Number: 2, Content: "It grows.*"},
			},
			ScriptureRefs: []ScriptureGroup{{
				ParagraphNumber: 1,
				Entries: []Reference{
					{Label: "John 15:11", Text: "These things I have spoken."},
					{Label: "Gal. 5:22", Text: "The fruit of the spirit is love, joy."},
				},
			}},
			FootnoteRefs: []FootnoteGroup{{
				ParagraphNumber: 2,
				Entries:         []Reference{{Label: "7", Text: "A footnote."}},
			}},
			Image:        "https://wol.jw.org/a.jpg",
			ImageCaption: "Caption text",
			QuestionText: "What can we learn? (See also picture.)",
		},
		{
			QuestionID:       "5",
			Subheading:       "Why Joy Matters",
			ParagraphNumbers: []int{3},
			Paragraphs:       []Paragraph{{Number: 3, Content: "Because Neh. 8:10 Phil. 4:4"}},
			ScriptureRefs: []ScriptureGroup{{
				ParagraphNumber: 3,
				Entries:         []Reference{{Label: "Phil. 4:4", Text: "Always rejoice."}},
			}},
			AdditionalInfo: []Paragraph{{Number: 3, Content: "Line one\nLine two\n"}},
			QuestionText:   "Why is joy important? Read",
		},
		{
			QuestionID: "7",
			Subheading: "Why Joy Matters",
		},
		{
			QuestionID: "8",
			Subheading: "Why Joy Matters",
		},
		{
			QuestionID:       "9",
			Subheading:       "Why Joy Matters",
			ParagraphNumbers: []int{4},
			Paragraphs:       []Paragraph{{Number: 4, Content: "End."}},
			Image:            "https://wol.jw.org/c.jpg",
			QuestionText:     "Final? (See also picture.)",
		},
	}
	require.Empty(t, cmp.Diff(expected, questions))

	require.Equal(t, []string{"/b/1", "/b/2", "/supp/1", "/b/missing", "/b/4"}, pages.calls)
	require.Len(t, rec.Broken("resolver.scripture"), 1)
}

func TestParagraphNumbersAreContiguous(t *testing.T) {
	questions, _, _ := correlateFixture(t)

	var all []int
	for _, q := range questions {
		all = append(all, q.ParagraphNumbers...)
		for i, p := range q.Paragraphs {
			require.Equal(t, q.ParagraphNumbers[i], p.Number)
		}
	}
	require.Equal(t, []int{1, 2, 3, 4}, all)
}

func TestPNumbers(t *testing.T) {
	questions, _, _ := correlateFixture(t)
	require.Equal(t, "1, 2", questions[0].PNumbers())
	require.Equal(t, "3", questions[1].PNumbers())
	require.Equal(t, "", questions[2].PNumbers())
	require.Equal(t, "4", questions[4].PNumbers())
}

func TestImageRequiresPatternAndSource(t *testing.T) {
	cases := []struct {
		name    string
		html    string
		image   string
		caption string
	}{
		{
			name:    "picture",
			html:    `<p class="qu" data-pid="1">What can we learn? (See also picture.)</p><div id="f1"><img src="/a.jpg"><figcaption>Caption text</figcaption></div>`,
			image:   "https://wol.jw.org/a.jpg",
			caption: "Caption text",
		},
		{
			name:  "pictures without period",
			html:  `<p class="qu" data-pid="1">Look (See also pictures)</p><div id="f1"><img src="/b.jpg"></div>`,
			image: "https://wol.jw.org/b.jpg",
		},
		{
			name: "no pattern",
			html: `<p class="qu" data-pid="1">What can we learn?</p><div id="f1"><img src="/a.jpg"><figcaption>Caption</figcaption></div>`,
		},
		{
			name: "empty source",
			html: `<p class="qu" data-pid="1">Look (See also picture.)</p><div id="f1"><img src=""><figcaption>Caption</figcaption></div>`,
		},
		{
			name: "missing container",
			html: `<p class="qu" data-pid="1">Look (See also picture.)</p>`,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			doc, err := document.Parse(strings.NewReader(test.html))
			require.NoError(t, err)
			rec := &telemetry.Recorder{}
			correlator := NewCorrelator(NewResolver(&fakePages{}, rec), siteRoot, rec)

			questions, err := correlator.Correlate(context.Background(), doc.Root())
			require.NoError(t, err)
			require.Len(t, questions, 1)
			require.Equal(t, test.image, questions[0].Image)
			require.Equal(t, test.caption, questions[0].ImageCaption)
		})
	}
}

func TestImageIndexAdvancesOnMissingContainer(t *testing.T) {
	doc, err := document.Parse(strings.NewReader(`
		<p class="qu" data-pid="1">One (See also picture.)</p>
		<p class="qu" data-pid="2">Two (See also picture.)</p>
		<div id="f1"></div>
		<div id="f2"><img src="/two.jpg"><figcaption>Two</figcaption></div>`))
	require.NoError(t, err)
	rec := &telemetry.Recorder{}
	correlator := NewCorrelator(NewResolver(&fakePages{}, rec), siteRoot, rec)

	questions, err := correlator.Correlate(context.Background(), doc.Root())
	require.NoError(t, err)
	require.Equal(t, "", questions[0].Image)
	require.Equal(t, "https://wol.jw.org/two.jpg", questions[1].Image)
	require.Equal(t, "Two", questions[1].ImageCaption)
}

func TestConsecutiveScriptureGroups(t *testing.T) {
	doc, err := document.Parse(strings.NewReader(`
		<p class="qu" data-pid="1">Question?</p>
		<p data-rel-pid="[1]">A <a data-bid="1" href="/b/1">John 15:11</a></p>
		<p data-rel-pid="[1]">B <a data-bid="4" href="/b/4">Phil. 4:4</a></p>`))
	require.NoError(t, err)
	rec := &telemetry.Recorder{}
	correlator := NewCorrelator(NewResolver(linkedPages(), rec), siteRoot, rec)

	questions, err := correlator.Correlate(context.Background(), doc.Root())
	require.NoError(t, err)
	require.Len(t, questions, 1)
	q := questions[0]
	require.Equal(t, []int{1, 2}, q.ParagraphNumbers)
	require.Len(t, q.ScriptureRefs, 2)
	require.Equal(t, 1, q.ScriptureRefs[0].ParagraphNumber)
	require.Equal(t, "John 15:11", q.ScriptureRefs[0].Entries[0].Label)
	require.Equal(t, 2, q.ScriptureRefs[1].ParagraphNumber)
	require.Equal(t, "Phil. 4:4", q.ScriptureRefs[1].Entries[0].Label)
	require.Equal(t, "Question?", q.QuestionText)
}

func TestCorrelateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &telemetry.Recorder{}
	correlator := NewCorrelator(NewResolver(linkedPages(), rec), siteRoot, rec)

	_, err := correlator.Correlate(ctx, loadFixture(t, "testdata/article.html"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtractArticle(t *testing.T) {
	article := ExtractArticle("https://wol.jw.org/en/wol/d/r1/lp-e/2024", loadFixture(t, "testdata/article.html"))
	require.Equal(t, Article{
		URL:   "https://wol.jw.org/en/wol/d/r1/lp-e/2024",
		Title: "Keep Your Joy",
		Theme: `"Always rejoice." 1 Thess. 5:16`,
		Focus: "How to stay joyful.",
	}, article)
}
