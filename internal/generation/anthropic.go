package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
	"wt-summariser/internal/components/assert"
	"wt-summariser/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-20240620"
	DefaultMaxTokens = 4096

	anthropicVersion = "2023-06-01"

	report_anthropic_generate = "anthropic.generate"
)

var tracer = otel.Tracer("wt-summariser/internal/generation")

type AnthropicOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	MaxRetries int
	// RetryWait is the initial wait between retries, it doubles up to RetryMaxWait.
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	Timeout      time.Duration
}

// Anthropic implements Generator with the Anthropic messages API.
type Anthropic struct {
	http      *resty.Client
	model     string
	maxTokens int
	tel       telemetry.API
}

func NewAnthropic(opts AnthropicOptions, tel telemetry.API) *Anthropic {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.APIKey)

	tel = telemetry.NewScopedAPI("generation", tel)

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}
	if opts.RetryMaxWait <= 0 {
		opts.RetryMaxWait = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/"))
	client.SetHeader("x-api-key", opts.APIKey)
	client.SetHeader("anthropic-version", anthropicVersion)
	client.SetHeader("content-type", "application/json")
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(max(0, opts.MaxRetries))
	client.SetRetryWaitTime(opts.RetryWait)
	client.SetRetryMaxWaitTime(opts.RetryMaxWait)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() == http.StatusTooManyRequests ||
			res.StatusCode() >= http.StatusInternalServerError
	})

	telemetry.InstrumentResty(client, tel)

	return &Anthropic{
		http:      client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		tel:       tel,
	}
}

type messageRequest struct {
	Model     string    `json:"model"`
	System    string    `json:"system"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
	Usage   struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func toContent(blocks []Block) []contentBlock {
	content := make([]contentBlock, len(blocks))
	for i, b := range blocks {
		if b.IsImage() {
			mediaType := b.MediaType
			if mediaType == "" {
				mediaType = "image/jpeg"
			}
			content[i] = contentBlock{
				Type: "image",
				Source: &imageSource{
					Type:      "base64",
					MediaType: mediaType,
					Data:      base64.StdEncoding.EncodeToString(b.Image),
				},
			}
			continue
		}
		content[i] = contentBlock{Type: "text", Text: b.Text}
	}
	return content
}

func (a *Anthropic) Generate(ctx context.Context, blocks []Block, mode Mode) (string, error) {
	ctx, span := tracer.Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("mode", mode.String()),
		attribute.String("model", a.model),
		attribute.Int("blocks", len(blocks)),
	)

	var out messageResponse
	var failure apiError
	res, err := a.http.R().
		SetContext(ctx).
		SetBody(messageRequest{
			Model:     a.model,
			System:    mode.system(),
			MaxTokens: a.maxTokens,
			Messages: []message{
				{Role: "user", Content: toContent(blocks)},
			},
		}).
		SetResult(&out).
		SetError(&failure).
		Post("/v1/messages")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("anthropic %s: %w", mode, err)
	}
	if res.IsError() {
		err := fmt.Errorf("anthropic %s: %s: %s", mode, res.Status(), failure.Error.Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, "api error")
		return "", err
	}

	a.tel.ReportCount(report_anthropic_generate+".input_tokens", out.Usage.InputTokens)
	a.tel.ReportCount(report_anthropic_generate+".output_tokens", out.Usage.OutputTokens)

	if len(out.Content) == 0 || out.Content[0].Text == "" {
		a.tel.ReportWarning(report_anthropic_generate, fmt.Errorf("%s: model returned no text", mode))
		return mode.Fallback(), nil
	}
	return out.Content[0].Text, nil
}
