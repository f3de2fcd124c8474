// Package openai suggests generation parameters for a prompt by asking an OpenAI chat
// model for a JSON answer.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/observability"
)

const temperature = 0.7

// Suggester implements domain.ParameterSuggester using OpenAI chat completions.
type Suggester struct {
	client openai.Client
	model  string
}

// NewSuggester creates a new OpenAI parameter suggester.
func NewSuggester(config Config) (*Suggester, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	if config.Model == "" {
		config.Model = string(openai.ChatModelGPT4oMini)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return &Suggester{
		client: openai.NewClient(opts...),
		model:  config.Model,
	}, nil
}

// suggestion is the JSON shape the model is asked to produce.
type suggestion struct {
	Understanding string            `json:"understanding"`
	Parameters    domain.Parameters `json:"parameters"`
	Reasoning     map[string]string `json:"reasoning"`
}

// Suggest asks the model for parameters suited to prompt. Values outside the
// catalog are dropped.
func (s *Suggester) Suggest(ctx context.Context, prompt string) (*domain.Suggestion, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New("prompt cannot be empty")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("requesting parameter suggestion", observability.String("model", s.model))

	//nolint:exhaustruct // OpenAI SDK struct has many optional fields
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt()),
			openai.UserMessage(userPrompt(prompt)),
		},
		Temperature: openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no suggestion returned")
	}

	var out suggestion
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion: %w", err)
	}

	params := out.Parameters.Sanitize()
	logger.Debug("parameter suggestion received", observability.Int("parameters", params.Count()))

	return &domain.Suggestion{
		Parameters: params,
		Reasoning:  formatReasoning(out.Understanding, out.Reasoning),
	}, nil
}

func systemPrompt() string {
	options := domain.ParameterOptions()
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString("You are a professional photographer and art director choosing camera and ")
	b.WriteString("lighting parameters for an image generator. Only use these values:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", name, strings.Join(options[name], ", "))
	}
	return b.String()
}

func userPrompt(prompt string) string {
	return `Analyze this creative request and suggest optimal parameters.

Request: ` + prompt + `

Respond with JSON in this format:
{
    "understanding": "your interpretation of what the user wants",
    "parameters": {
        "camera_angle": "selected value",
        "fov": "selected value",
        "lighting": "selected value",
        "color_palette": "selected value",
        "composition": "selected value",
        "style": "selected value"
    },
    "reasoning": {
        "camera_angle": "why this angle",
        "lighting": "why this lighting"
    }
}`
}

// formatReasoning flattens the per-parameter reasons in name order.
func formatReasoning(understanding string, reasons map[string]string) string {
	names := make([]string, 0, len(reasons))
	for name := range reasons {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names)+1)
	if understanding != "" {
		parts = append(parts, understanding)
	}
	for _, name := range names {
		if reasons[name] != "" {
			parts = append(parts, name+": "+reasons[name])
		}
	}
	return strings.Join(parts, "; ")
}
