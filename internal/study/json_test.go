package study

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestQuestionJSONShape(t *testing.T) {
	answer := "Because."
	q := Question{
		QuestionID:       "5",
		Subheading:       "Why Joy Matters",
		ParagraphNumbers: []int{3, 4},
		Paragraphs:       []Paragraph{{Number: 3, Content: "A"}, {Number: 4, Content: "B"}},
		ScriptureRefs:    []ScriptureGroup{{ParagraphNumber: 3, Entries: []Reference{{Label: "Phil. 4:4", Text: "Always rejoice."}}}},
		FootnoteRefs:     []FootnoteGroup{{ParagraphNumber: 4, Entries: []Reference{{Label: "7", Text: "Note."}}}},
		AdditionalInfo:   []Paragraph{{Number: 3, Content: "Extra\n"}},
		QuestionText:     "Why?",
		Answer:           &answer,
	}

	out, err := json.Marshal(q)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"questionId": "5",
		"pnumbers": "3, 4",
		"question": "Why?",
		"paragraph": [{"pnumber": 3, "content": "A"}, {"pnumber": 4, "content": "B"}],
		"scripture": [{"pnumber": 3, "content": [{"scripture": "Phil. 4:4", "content": "Always rejoice."}]}],
		"footnote": [{"pnumber": 4, "content": [{"footnote": "7", "content": "Note."}]}],
		"additionalInfo": [{"pnumber": 3, "content": "Extra\n"}],
		"image": "",
		"imageCaption": "",
		"subheading": "Why Joy Matters",
		"answer": "Because."
	}`, string(out))

	var decoded Question
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Empty(t, cmp.Diff(q, decoded))
}

func TestQuestionJSONWithoutAnswer(t *testing.T) {
	out, err := json.Marshal(Question{QuestionID: "8"})
	require.NoError(t, err)
	require.NotContains(t, string(out), `"answer"`)
	require.Contains(t, string(out), `"paragraph":[]`)

	var decoded Question
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Empty(t, cmp.Diff(Question{QuestionID: "8"}, decoded))
}

func TestQuestionJSONInvalidPNumbers(t *testing.T) {
	var q Question
	require.Error(t, json.Unmarshal([]byte(`{"pnumbers": "1, x"}`), &q))
}
