package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/issuepilot/internal/logging"
	"github.com/issuepilot/internal/retry"
)

// ErrEmptyCompletion is returned when the backend produced no usable text
// after diagnostic banners are stripped.
var ErrEmptyCompletion = errors.New("generation service returned empty completion")

// Generator is the single-shot prompt-completion contract consumed by the
// pipeline stages.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ResilientGenerator wraps a Generator with bounded retry, a per-call
// timeout, and diagnostic-banner stripping. Exhausted retries surface as a
// terminal error; the pipeline never loops indefinitely here.
type ResilientGenerator struct {
	client      Generator
	retryConfig retry.Config
	timeout     time.Duration
	logger      *logging.SessionLogger
}

// NewResilientGenerator creates a resilient wrapper around client.
func NewResilientGenerator(client Generator, config retry.Config, timeout time.Duration) *ResilientGenerator {
	return &ResilientGenerator{
		client:      client,
		retryConfig: config,
		timeout:     timeout,
		logger:      logging.GetCurrentLogger(),
	}
}

// NewResilientGeneratorWithDefaults uses the generation-tuned retry settings.
func NewResilientGeneratorWithDefaults(client Generator, timeout time.Duration) *ResilientGenerator {
	return NewResilientGenerator(client, retry.GenerationConfig(), timeout)
}

// Generate runs one completion with retries. The returned text has any
// leading diagnostic banner removed; an empty remainder is an error.
func (g *ResilientGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var completion string

	result := retry.DoWithReason(ctx, g.retryConfig, func() (error, string) {
		raw, err := g.client.Generate(ctx, prompt)
		if err != nil {
			reason := "transient: " + err.Error()
			if !retry.IsRetryable(err) {
				reason = "non_retryable: " + err.Error()
			}
			return err, reason
		}

		cleaned := StripDiagnosticBanner(raw)
		if strings.TrimSpace(cleaned) == "" {
			return ErrEmptyCompletion, "empty_completion"
		}

		completion = cleaned
		return nil, ""
	}, g.logger)

	if !result.Success {
		g.logger.LogError("generation failed after %d attempts: %v", result.Attempts, result.LastError)
		return "", fmt.Errorf("generation failed after %d attempts: %w", result.Attempts, result.LastError)
	}

	g.logger.Log("generation succeeded in %v (%d attempts, %d bytes)",
		result.TotalDuration, result.Attempts, len(completion))
	return completion, nil
}
