// Package extract runs one extraction job: retailer detection, prompt
// construction, the upstream call, and validation of its reply.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dshills/routeguard/internal/llm"
	"github.com/dshills/routeguard/internal/retailer"
	"github.com/dshills/routeguard/internal/schema"
	"github.com/dshills/routeguard/internal/schema/validate"
)

// Options tune job preparation and the upstream call.
type Options struct {
	// Retailer forces a profile by name; empty means detect from the text.
	Retailer string
	// DetectText is searched for retailer keywords instead of the prompt
	// text when set. It is never sent upstream.
	DetectText       string
	MaxDocumentChars int
	Temperature      float64
	MaxTokens        int
}

// Job is a prepared extraction request.
type Job struct {
	Profile *retailer.Profile
	Request *llm.Request
}

// Prepare selects the retailer profile and builds the upstream request.
// It performs no I/O.
func Prepare(text string, opts Options) (*Job, error) {
	var prof *retailer.Profile
	if opts.Retailer != "" {
		p, err := retailer.Get(opts.Retailer)
		if err != nil {
			return nil, err
		}
		prof = p
	} else if opts.DetectText != "" {
		prof = retailer.Detect(opts.DetectText)
	} else {
		prof = retailer.Detect(text)
	}

	return &Job{
		Profile: prof,
		Request: &llm.Request{
			SystemPrompt: llm.BuildSystemPrompt(),
			UserPrompt:   llm.BuildPrompt(prof, text, opts.MaxDocumentChars),
			Temperature:  opts.Temperature,
			MaxTokens:    opts.MaxTokens,
		},
	}, nil
}

// Run sends job to provider and validates the reply. A reply that fails to
// parse or validate is retried once with a sanitized description of the
// failure; service failures are returned immediately.
func Run(ctx context.Context, provider llm.Provider, job *Job, logger *slog.Logger) (*schema.ExtractionResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("retailer", job.Profile.Name)

	resp, err := provider.Complete(ctx, job.Request)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	attempts := 1
	reqs, parseErr := validate.Parse(resp.Content)
	if parseErr != nil {
		if !schema.IsRetryable(parseErr) {
			return nil, parseErr
		}
		log.Warn("extract.validation_failed", "attempt", attempts, "error", parseErr)

		// Append a sanitized error description (not the raw LLM output) to avoid
		// prompt injection from the model's previous response.
		repairReq := *job.Request
		repairReq.UserPrompt = job.Request.UserPrompt + fmt.Sprintf(
			"\n\nYour previous response failed validation (error category: %q). Return only valid JSON matching the structure above.",
			SanitizeError(parseErr),
		)

		attempts++
		resp, err = provider.Complete(ctx, &repairReq)
		if err != nil {
			return nil, fmt.Errorf("extraction retry failed: %w", err)
		}
		reqs, parseErr = validate.Parse(resp.Content)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid model output after retry: %w", parseErr)
		}
	}

	log.Info("extract.completed", "requirements", len(reqs), "attempts", attempts, "model", resp.Model)

	return &schema.ExtractionResult{
		BatchID:      uuid.NewString(),
		Retailer:     job.Profile.Name,
		Requirements: reqs,
		Meta: schema.ExtractionMeta{
			Model:       resp.Model,
			Temperature: job.Request.Temperature,
			Attempts:    attempts,
		},
	}, nil
}

// SanitizeError classifies a validation error into a fixed category string
// without echoing any model-generated content.
func SanitizeError(err error) string {
	var (
		fe *schema.UpstreamFormatError
		se *schema.SchemaError
		re *schema.InvalidRequirementError
	)
	switch {
	case errors.As(err, &fe):
		return "JSON syntax error"
	case errors.As(err, &se):
		return `missing top-level "requirements" array`
	case errors.As(err, &re):
		if re.Field == "" {
			return fmt.Sprintf("requirement %d is not an object", re.Index)
		}
		return fmt.Sprintf("requirement %d missing required field %s", re.Index, re.Field)
	default:
		return "validation error"
	}
}
