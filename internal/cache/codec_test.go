package cache

import (
	"testing"
	"wt-summariser/internal/study"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string {
	return &s
}

func sampleRecord() study.Record {
	return study.Record{
		Article: study.Article{
			URL:   "https://wol.jw.org/en/wol/d/r1/lp-e/2024483",
			Title: "Keep Your Joy",
			Theme: "“Always rejoice.” 1 Thess. 5:16",
			Focus: "How to stay joyful & <calm>.",
		},
		Data: study.RecordData{
			Summary: strptr("A summary with 100% certainty, über."),
			Answers: []study.Question{
				{
					QuestionID:       "2",
					ParagraphNumbers: []int{1, 2},
					Paragraphs:       []study.Paragraph{{Number: 1, Content: "A"}, {Number: 2, Content: "B"}},
					ScriptureRefs: []study.ScriptureGroup{{
						ParagraphNumber: 1,
						Entries:         []study.Reference{{Label: "John 15:11", Text: "These things I have spoken."}},
					}},
					FootnoteRefs: []study.FootnoteGroup{{
						ParagraphNumber: 2,
						Entries:         []study.Reference{{Label: "7", Text: "Note."}},
					}},
					AdditionalInfo: []study.Paragraph{{Number: 1, Content: "Line one\nLine two\n"}},
					Image:          "https://wol.jw.org/a.jpg",
					ImageCaption:   "Caption",
					QuestionText:   "What can we learn? (See also picture.)",
					Answer:         strptr("No answer."),
				},
				{QuestionID: "8", Subheading: "Heading"},
			},
		},
	}
}

func TestEscapeMatchesURIComponent(t *testing.T) {
	cases := []struct {
		in     string
		expect string
	}{
		{in: `{"a":"b c"}`, expect: "%7B%22a%22%3A%22b%20c%22%7D"},
		{in: "-_.!~*'()", expect: "-_.!~*'()"},
		{in: "a+b/c?d=e&f#g", expect: "a%2Bb%2Fc%3Fd%3De%26f%23g"},
		{in: "ü“", expect: "%C3%BC%E2%80%9C"},
		{in: "line\nbreak%", expect: "line%0Abreak%25"},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, escape(test.in))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	records := []study.Record{
		sampleRecord(),
		{},
		{Article: study.Article{Title: "No summary"}, Data: study.RecordData{Answers: []study.Question{{QuestionID: "1"}}}},
	}
	for _, record := range records {
		encoded, err := Encode(record)
		require.NoError(t, err)
		require.NotContains(t, encoded, " ")
		require.NotContains(t, encoded, "+")

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(record, decoded))
	}
}

func TestEncodeOmitsAbsentSummary(t *testing.T) {
	encoded, err := Encode(study.Record{})
	require.NoError(t, err)
	require.NotContains(t, encoded, "summary")
	require.Contains(t, encoded, "%22data%22%3A%7B%22answers%22%3Anull%7D")
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode("%ZZ")
	require.Error(t, err)
	_, err = Decode("not%20json")
	require.Error(t, err)
}
