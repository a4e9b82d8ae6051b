package retry

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/issuepilot/internal/logging"
)

// Config controls exponential-backoff retry behavior.
type Config struct {
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // upper bound on any single delay
	Multiplier float64       // backoff growth factor
	Jitter     bool          // add up to 10% random jitter
	LogRetries bool
}

// Result describes how a retried operation concluded.
type Result struct {
	Attempts      int
	TotalDuration time.Duration
	LastError     error
	Success       bool
	Reasons       []string // one reason per failed attempt
}

// DefaultConfig returns retry settings suitable for tracker API calls.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
		Jitter:     true,
		LogRetries: true,
	}
}

// GenerationConfig returns retry settings tuned for text-generation calls,
// which are slower and rate-limited more aggressively.
func GenerationConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   60 * time.Second,
		Multiplier: 2.5,
		Jitter:     true,
		LogRetries: true,
	}
}

// Do executes operation with backoff until it succeeds, retries are
// exhausted, or ctx is cancelled.
func Do(ctx context.Context, config Config, operation func() error, logger *logging.SessionLogger) Result {
	return DoWithReason(ctx, config, func() (error, string) {
		err := operation()
		if err != nil {
			return err, err.Error()
		}
		return nil, ""
	}, logger)
}

// DoWithReason is Do with per-attempt failure reasons for diagnostics.
func DoWithReason(ctx context.Context, config Config, operation func() (error, string), logger *logging.SessionLogger) Result {
	startTime := time.Now()
	result := Result{Reasons: make([]string, 0)}

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result.Attempts = attempt + 1

		if config.LogRetries && attempt > 0 {
			logger.Log("retrying operation (attempt %d/%d)", attempt+1, config.MaxRetries+1)
		}

		err, reason := operation()
		if err == nil {
			result.Success = true
			result.TotalDuration = time.Since(startTime)
			if config.LogRetries && attempt > 0 {
				logger.Log("operation succeeded after %d retries in %v", attempt, result.TotalDuration)
			}
			return result
		}

		result.LastError = err
		result.Reasons = append(result.Reasons, reason)

		if attempt >= config.MaxRetries {
			result.TotalDuration = time.Since(startTime)
			if config.LogRetries {
				logger.Log("operation failed after %d attempts in %v: %v",
					result.Attempts, result.TotalDuration, err)
			}
			return result
		}

		if ctx.Err() != nil {
			result.LastError = ctx.Err()
			result.TotalDuration = time.Since(startTime)
			return result
		}

		delay := backoffDelay(config, attempt)
		if config.LogRetries {
			logger.Log("operation failed (attempt %d/%d): %v; waiting %v",
				attempt+1, config.MaxRetries+1, err, delay)
		}

		select {
		case <-ctx.Done():
			result.LastError = ctx.Err()
			result.TotalDuration = time.Since(startTime)
			return result
		case <-time.After(delay):
		}
	}

	result.TotalDuration = time.Since(startTime)
	return result
}

func backoffDelay(config Config, attempt int) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	if config.Jitter {
		jitterRange := delay * 0.1
		delay += (rand.Float64() - 0.5) * 2 * jitterRange
		if delay < 0 {
			delay = float64(config.BaseDelay)
		}
	}

	return time.Duration(delay)
}

// IsRetryable reports whether err looks like a transient transport or
// rate-limit failure worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryable := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"service unavailable",
		"too many requests",
		"rate limit",
		"429",
		"502",
		"503",
		"504",
		"no such host",
		"network unreachable",
		"broken pipe",
		"context deadline exceeded",
	}

	for _, marker := range retryable {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}
