package study

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The stored payload keeps the field names downstream readers already use.

type paragraphJSON struct {
	PNumber int    `json:"pnumber"`
	Content string `json:"content"`
}

type scriptureEntryJSON struct {
	Scripture string `json:"scripture"`
	Content   string `json:"content"`
}

type scriptureGroupJSON struct {
	PNumber int                  `json:"pnumber"`
	Content []scriptureEntryJSON `json:"content"`
}

type footnoteEntryJSON struct {
	Footnote string `json:"footnote"`
	Content  string `json:"content"`
}

type footnoteGroupJSON struct {
	PNumber int                 `json:"pnumber"`
	Content []footnoteEntryJSON `json:"content"`
}

type questionJSON struct {
	QuestionID     string               `json:"questionId,omitempty"`
	PNumbers       string               `json:"pnumbers"`
	Question       string               `json:"question"`
	Paragraph      []paragraphJSON      `json:"paragraph"`
	Scripture      []scriptureGroupJSON `json:"scripture"`
	Footnote       []footnoteGroupJSON  `json:"footnote"`
	AdditionalInfo []paragraphJSON      `json:"additionalInfo"`
	Image          string               `json:"image"`
	ImageCaption   string               `json:"imageCaption"`
	Subheading     string               `json:"subheading"`
	Answer         *string              `json:"answer,omitempty"`
}

func paragraphsToJSON(paragraphs []Paragraph) []paragraphJSON {
	out := make([]paragraphJSON, len(paragraphs))
	for i, p := range paragraphs {
		out[i] = paragraphJSON{PNumber: p.Number, Content: p.Content}
	}
	return out
}

func paragraphsFromJSON(paragraphs []paragraphJSON) []Paragraph {
	if len(paragraphs) == 0 {
		return nil
	}
	out := make([]Paragraph, len(paragraphs))
	for i, p := range paragraphs {
		out[i] = Paragraph{Number: p.PNumber, Content: p.Content}
	}
	return out
}

func (q Question) MarshalJSON() ([]byte, error) {
	out := questionJSON{
		QuestionID:     q.QuestionID,
		PNumbers:       q.PNumbers(),
		Question:       q.QuestionText,
		Paragraph:      paragraphsToJSON(q.Paragraphs),
		Scripture:      make([]scriptureGroupJSON, len(q.ScriptureRefs)),
		Footnote:       make([]footnoteGroupJSON, len(q.FootnoteRefs)),
		AdditionalInfo: paragraphsToJSON(q.AdditionalInfo),
		Image:          q.Image,
		ImageCaption:   q.ImageCaption,
		Subheading:     q.Subheading,
		Answer:         q.Answer,
	}
	for i, group := range q.ScriptureRefs {
		entries := make([]scriptureEntryJSON, len(group.Entries))
		for j, e := range group.Entries {
			entries[j] = scriptureEntryJSON{Scripture: e.Label, Content: e.Text}
		}
		out.Scripture[i] = scriptureGroupJSON{PNumber: group.ParagraphNumber, Content: entries}
	}
	for i, group := range q.FootnoteRefs {
		entries := make([]footnoteEntryJSON, len(group.Entries))
		for j, e := range group.Entries {
			entries[j] = footnoteEntryJSON{Footnote: e.Label, Content: e.Text}
		}
		out.Footnote[i] = footnoteGroupJSON{PNumber: group.ParagraphNumber, Content: entries}
	}
	return json.Marshal(out)
}

func parsePNumbers(pnumbers string) ([]int, error) {
	if strings.TrimSpace(pnumbers) == "" {
		return nil, nil
	}
	parts := strings.Split(pnumbers, ",")
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid pnumbers %q: %w", pnumbers, err)
		}
		out[i] = n
	}
	return out, nil
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var in questionJSON
	err := json.Unmarshal(data, &in)
	if err != nil {
		return err
	}
	numbers, err := parsePNumbers(in.PNumbers)
	if err != nil {
		return err
	}

	*q = Question{
		QuestionID:       in.QuestionID,
		Subheading:       in.Subheading,
		ParagraphNumbers: numbers,
		Paragraphs:       paragraphsFromJSON(in.Paragraph),
		AdditionalInfo:   paragraphsFromJSON(in.AdditionalInfo),
		Image:            in.Image,
		ImageCaption:     in.ImageCaption,
		QuestionText:     in.Question,
		Answer:           in.Answer,
	}
	for _, group := range in.Scripture {
		entries := make([]Reference, len(group.Content))
		for i, e := range group.Content {
			entries[i] = Reference{Label: e.Scripture, Text: e.Content}
		}
		q.ScriptureRefs = append(q.ScriptureRefs, ScriptureGroup{ParagraphNumber: group.PNumber, Entries: entries})
	}
	for _, group := range in.Footnote {
		entries := make([]Reference, len(group.Content))
		for i, e := range group.Content {
			entries[i] = Reference{Label: e.Footnote, Text: e.Content}
		}
		q.FootnoteRefs = append(q.FootnoteRefs, FootnoteGroup{ParagraphNumber: group.PNumber, Entries: entries})
	}
	return nil
}
