package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/davidbz/atelier/internal/observability"
)

const (
	maxRefinementLength = 500

	refineFallbackReasoning = "Reusing previous parameters (AI unavailable)"
)

// RefineRequest asks for a new version of a completed generation.
type RefineRequest struct {
	GenerationID     string `json:"-"`
	RefinementPrompt string `json:"refinement_prompt"`
}

// Refine generates a new image from a completed generation adjusted by a refinement
// instruction. The result is recorded as a new generation in AI mode. It always calls the
// provider.
func (s *GenerationService) Refine(ctx context.Context, req *RefineRequest) (*GenerationResult, error) {
	if req == nil {
		return nil, errors.New("refine request cannot be nil")
	}
	if req.GenerationID == "" {
		return nil, &ValidationError{Field: "id", Reason: "cannot be empty"}
	}

	instruction := strings.TrimSpace(req.RefinementPrompt)
	if instruction == "" || utf8.RuneCountInString(instruction) > maxRefinementLength {
		return nil, &ValidationError{
			Field:  "refinement_prompt",
			Reason: fmt.Sprintf("length must be between 1 and %d characters", maxRefinementLength),
		}
	}

	if s.history == nil {
		return nil, fmt.Errorf("generation %s: %w", req.GenerationID, ErrNotFound)
	}
	source, err := s.history.Get(ctx, req.GenerationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load generation %s: %w", req.GenerationID, err)
	}
	if source.OutputRef == "" {
		return nil, &ValidationError{Field: "id", Reason: "generation has no image to refine"}
	}

	off := false
	norm, err := Validate(&GenerationRequest{
		Prompt:     fmt.Sprintf("%s (refined: %s)", source.Prompt, instruction),
		Mode:       ModeAI,
		Parameters: source.Parameters,
		UserID:     source.UserID,
		ProjectID:  source.ProjectID,
		UseCache:   &off,
	})
	if err != nil {
		return nil, err
	}

	fp := NewFingerprint(norm)
	ctx = observability.WithFingerprint(ctx, fp.Short())
	ctx = observability.WithUserID(ctx, norm.UserID)
	observability.FromContext(ctx).Info("refining generation",
		observability.String("source_id", source.ID))

	return s.run(ctx, norm, fp, s.refineResolver(instruction))
}

// refineResolver lets the suggester's proposals override the source parameters; the
// source fills whatever the suggester leaves unset.
func (s *GenerationService) refineResolver(instruction string) parameterResolver {
	return func(ctx context.Context, req *GenerationRequest) (Parameters, string) {
		if s.suggester == nil {
			return req.Parameters, refineFallbackReasoning
		}

		suggestion, err := s.suggester.Suggest(ctx, req.Prompt)
		if err != nil || suggestion == nil {
			observability.FromContext(ctx).Warn("refinement suggestion failed, reusing parameters",
				observability.String("instruction", instruction),
				observability.Error(err))
			return req.Parameters, refineFallbackReasoning
		}

		return suggestion.Parameters.Sanitize().Merge(req.Parameters), suggestion.Reasoning
	}
}
