package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/issuepilot/internal/logging"
	"github.com/issuepilot/pkg/models"
)

// LoopConfig parameterizes one content-generation loop invocation. The
// loop is operation-agnostic: adapters supply the prompt, the renderer,
// an optional validator, and the executor.
type LoopConfig struct {
	BasePrompt string
	Generate   func(ctx context.Context, prompt string) (string, error)
	Render     func(content string)
	// Validate, when set, runs before each draft is offered. An invalid
	// draft blocks accept; only regenerate and quit remain available.
	Validate func(content string) error
	Execute  func(ctx context.Context, content string) (models.OperationResult, error)
	Prompter Prompter
	Out      io.Writer
}

// GenerationAttempt records one draft within a loop invocation. The
// feedback history grows monotonically and is never cleared mid-loop.
type GenerationAttempt struct {
	Prompt    string
	RawOutput string
	Feedback  []string
	Attempt   int
}

// RunLoop drives the accept/regenerate/quit cycle until the user accepts a
// valid draft, quits, or generation fails terminally.
//
// Execute is invoked zero or one times total, regardless of how many
// regeneration cycles occur.
func RunLoop(ctx context.Context, cfg LoopConfig) (models.OperationResult, error) {
	logger := logging.GetCurrentLogger()

	attempt := GenerationAttempt{Prompt: cfg.BasePrompt}

	for {
		attempt.Attempt++

		output, err := cfg.Generate(ctx, attempt.Prompt)
		if err != nil {
			// Terminal for this loop invocation; any bounded retry already
			// happened inside Generate.
			return models.OperationResult{}, &GenerationError{Stage: "content loop", Err: err}
		}
		attempt.RawOutput = output

		var invalid error
		if cfg.Validate != nil {
			invalid = cfg.Validate(output)
		}

		cfg.Render(output)

		if invalid != nil {
			fmt.Fprintf(cfg.Out, "\nThis draft failed validation and cannot be accepted: %v\n", invalid)
		}

		choice, err := readChoice(cfg.Prompter, cfg.Out, invalid == nil)
		if err != nil {
			return models.OperationResult{}, err
		}

		switch choice {
		case choiceAccept:
			logger.Log("draft accepted on attempt %d", attempt.Attempt)
			result, err := cfg.Execute(ctx, output)
			if err != nil {
				return result, err
			}
			return result, nil

		case choiceRegenerate:
			feedback, err := cfg.Prompter.ReadLine("Feedback for the next attempt (optional): ")
			if err != nil {
				return models.OperationResult{}, fmt.Errorf("reading feedback: %w", err)
			}
			attempt.Feedback = append(attempt.Feedback, feedback)
			attempt.Prompt = rebuildPrompt(cfg.BasePrompt, attempt.Feedback, attempt.RawOutput)
			logger.Log("regenerating (attempt %d, %d feedback items)", attempt.Attempt, len(attempt.Feedback))

		case choiceQuit:
			logger.Log("content loop cancelled after %d attempts", attempt.Attempt)
			return models.OperationResult{}, ErrUserCancelled
		}
	}
}

type loopChoice int

const (
	choiceAccept loopChoice = iota
	choiceRegenerate
	choiceQuit
)

func readChoice(p Prompter, out io.Writer, acceptAllowed bool) (loopChoice, error) {
	options := "[a]ccept, [r]egenerate, [q]uit"
	if !acceptAllowed {
		options = "[r]egenerate, [q]uit"
	}

	for {
		answer, err := p.ReadLine(fmt.Sprintf("Choose %s: ", options))
		if err != nil {
			return choiceQuit, fmt.Errorf("reading choice: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "a", "accept":
			if acceptAllowed {
				return choiceAccept, nil
			}
			fmt.Fprintf(out, "The current draft is invalid; regenerate or quit.\n")
		case "r", "regenerate":
			return choiceRegenerate, nil
		case "q", "quit":
			return choiceQuit, nil
		default:
			fmt.Fprintf(out, "Unrecognized choice %q.\n", answer)
		}
	}
}

// rebuildPrompt folds the whole accumulated feedback history plus the
// previous draft into the next prompt, so later generations correct for
// all prior feedback at once, not just the most recent item.
func rebuildPrompt(base string, feedback []string, previous string) string {
	var b strings.Builder
	b.WriteString(base)

	b.WriteString("\n\nThe user asked for these revisions, in order:\n")
	for i, f := range feedback {
		if strings.TrimSpace(f) == "" {
			f = "(no specific feedback, try a different take)"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}

	b.WriteString("\nPrevious draft:\n")
	b.WriteString(previous)
	b.WriteString("\n\nProduce a revised draft that addresses every revision above.")

	return b.String()
}
