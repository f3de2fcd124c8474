package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minPromptLength = 3
	maxPromptLength = 2000
	maxRetriesLimit = 5
)

// Validate checks req and returns a normalized copy with defaults applied. The
// original request is left untouched.
func Validate(req *GenerationRequest) (*GenerationRequest, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	out := *req
	out.Prompt = strings.TrimSpace(req.Prompt)

	length := utf8.RuneCountInString(out.Prompt)
	if length < minPromptLength || length > maxPromptLength {
		return nil, &ValidationError{
			Field:  "prompt",
			Reason: fmt.Sprintf("length must be between %d and %d characters, got %d", minPromptLength, maxPromptLength, length),
		}
	}

	out.Mode = Mode(strings.ToLower(strings.TrimSpace(string(req.Mode))))
	if out.Mode == "" {
		out.Mode = ModeAI
	}
	if out.Mode != ModeAI && out.Mode != ModeManual {
		return nil, &ValidationError{Field: "mode", Reason: `must be "ai" or "manual"`}
	}

	out.Parameters = req.Parameters.normalize()
	if err := out.Parameters.validate(); err != nil {
		return nil, err
	}

	if out.UserID == 0 {
		out.UserID = DefaultUserID
	}

	retries := req.RetryBudget()
	if retries < 0 || retries > maxRetriesLimit {
		return nil, &ValidationError{
			Field:  "max_retries",
			Reason: fmt.Sprintf("must be between 0 and %d, got %d", maxRetriesLimit, retries),
		}
	}
	out.MaxRetries = &retries

	useCache := req.CacheEnabled()
	out.UseCache = &useCache

	return &out, nil
}

// ValidateBatchSize rejects batches outside [1, maxSize].
func ValidateBatchSize(size, maxSize int) error {
	if size < 1 || size > maxSize {
		return &ValidationError{
			Field:  "requests",
			Reason: fmt.Sprintf("batch size must be between 1 and %d, got %d", maxSize, size),
		}
	}
	return nil
}
