// Package generation asks a text generation model for answers and summaries.
package generation

import (
	"context"
	"fmt"
)

// Mode selects the system instruction and fallback of a generation call.
type Mode int

const (
	ModeAnswer Mode = iota
	ModeSummary
)

func (m Mode) String() string {
	switch m {
	case ModeAnswer:
		return "answer"
	case ModeSummary:
		return "summary"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) system() string {
	if m == ModeSummary {
		return systemSummary
	}
	return systemAnswer
}

// Fallback is returned in place of an answer when the model produced no text.
func (m Mode) Fallback() string {
	if m == ModeSummary {
		return fallbackSummary
	}
	return fallbackAnswer
}

// Block is one part of the user message, either text or an image.
type Block struct {
	Text      string
	Image     []byte
	MediaType string
}

func TextBlock(text string) Block {
	return Block{Text: text}
}

func ImageBlock(data []byte, mediaType string) Block {
	return Block{Image: data, MediaType: mediaType}
}

func (b Block) IsImage() bool {
	return len(b.Image) > 0
}

// Generator produces text for a user message. An error means the call
// failed, a model that returns nothing yields mode.Fallback().
//
// note: fault injection point
type Generator interface {
	Generate(ctx context.Context, blocks []Block, mode Mode) (string, error)
}

// AnswerRequest builds the message for answering one question. The picture
// and its caption lead the message when both are present.
func AnswerRequest(input string, image []byte, mediaType, caption string) []Block {
	text := TextBlock(fmt.Sprintf("%s\n\n%s", input, answerPrompt))
	if len(image) == 0 || caption == "" {
		return []Block{text}
	}
	return []Block{
		ImageBlock(image, mediaType),
		TextBlock(fmt.Sprintf("Image Caption: %s", caption)),
		text,
	}
}

// SummaryRequest builds the message for the article summary.
func SummaryRequest(input string) []Block {
	return []Block{TextBlock(fmt.Sprintf("%s\n\n%s", input, summaryPrompt))}
}
