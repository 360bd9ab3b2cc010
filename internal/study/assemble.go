package study

import (
	"fmt"
	"strings"
)

// Mode selects which blocks a render contains.
type Mode int

const (
	// ModeFull is the render sent with a single question to be answered.
	ModeFull Mode = iota
	// ModeSummary leaves out footnotes and the question line, it is used
	// for the roll-up over every question.
	ModeSummary
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeSummary:
		return "summary"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func joinReferences(entries []Reference) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s - %s", e.Label, e.Text)
	}
	return strings.Join(parts, ", ")
}

// Render produces the text block for one question. Blocks whose source is
// empty are left out entirely and the rest are separated by a blank line.
func Render(q Question, mode Mode) string {
	var blocks []string
	block := func(lines []string) {
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}

	var lines []string
	for _, p := range q.Paragraphs {
		lines = append(lines, fmt.Sprintf("Paragraph [%d] Content: %s", p.Number, p.Content))
	}
	block(lines)

	lines = nil
	for _, group := range q.ScriptureRefs {
		lines = append(lines, fmt.Sprintf(
			"Paragraph [%d] Scripture References: %s",
			group.ParagraphNumber,
			joinReferences(group.Entries),
		))
	}
	block(lines)

	lines = nil
	for _, info := range q.AdditionalInfo {
		lines = append(lines, fmt.Sprintf("Paragraph [%d] Additional Information: %s", info.Number, info.Content))
	}
	block(lines)

	if q.Image != "" {
		block([]string{fmt.Sprintf("Paragraph [%s] Image Caption: %s", q.PNumbers(), q.ImageCaption)})
	}

	if mode == ModeFull {
		lines = nil
		for _, group := range q.FootnoteRefs {
			lines = append(lines, fmt.Sprintf(
				"Paragraph [%d] Footnote References: %s",
				group.ParagraphNumber,
				joinReferences(group.Entries),
			))
		}
		block(lines)

		if q.QuestionText != "" {
			block([]string{fmt.Sprintf("Paragraph [%s] Question: %s", q.PNumbers(), q.QuestionText)})
		}
	}

	return strings.Join(blocks, "\n\n")
}

// RenderAll renders every question and separates them with a blank line.
func RenderAll(questions []Question, mode Mode) string {
	renders := make([]string, 0, len(questions))
	for _, q := range questions {
		if r := Render(q, mode); r != "" {
			renders = append(renders, r)
		}
	}
	return strings.Join(renders, "\n\n")
}

// Header is the article preamble placed before every render sent for generation.
func Header(article Article) string {
	return fmt.Sprintf("Title: %s\nTheme: %s\nFocus: %s", article.Title, article.Theme, article.Focus)
}
