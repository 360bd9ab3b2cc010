package study

import (
	"strconv"
	"strings"
)

// Article identifies the study article a run was built from.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Theme string `json:"theme"`
	Focus string `json:"focus"`
}

// Paragraph is a numbered block of article text. Numbers are unique across
// the whole article, not per question.
type Paragraph struct {
	Number  int
	Content string
}

// Reference is a resolved citation, Label is what the reader sees in the
// paragraph (scripture citation or footnote id).
type Reference struct {
	Label string
	Text  string
}

// ScriptureGroup holds the scripture references found in one paragraph in
// the order their anchors appeared.
type ScriptureGroup struct {
	ParagraphNumber int
	Entries         []Reference
}

// FootnoteGroup holds the footnotes referenced by one paragraph.
type FootnoteGroup struct {
	ParagraphNumber int
	Entries         []Reference
}

// Question is one answerable unit of the article with everything needed to
// answer it.
type Question struct {
	QuestionID       string
	Subheading       string
	ParagraphNumbers []int
	Paragraphs       []Paragraph
	ScriptureRefs    []ScriptureGroup
	FootnoteRefs     []FootnoteGroup
	// AdditionalInfo entries carry the newline terminated highlight text of
	// a supplementary page.
	AdditionalInfo []Paragraph
	// Image and ImageCaption are either both set or both empty.
	Image        string
	ImageCaption string
	QuestionText string
	// Answer is nil until generation succeeds. A fallback answer produced by
	// the generator is a non-nil value.
	Answer *string
}

// PNumbers returns the paragraph numbers joined the way they are labelled in
// renders, "4, 5".
func (q Question) PNumbers() string {
	parts := make([]string, len(q.ParagraphNumbers))
	for i, n := range q.ParagraphNumbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// Record is the composite stored for one week.
type Record struct {
	Article
	Data RecordData `json:"data"`
}

type RecordData struct {
	Summary *string    `json:"summary,omitempty"`
	Answers []Question `json:"answers"`
}
