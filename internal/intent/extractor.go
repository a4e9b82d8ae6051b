package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/issuepilot/internal/logging"
	"github.com/issuepilot/pkg/models"
)

const extractPromptHeader = `You convert a tracker command into structured fields. Respond with exactly these lines and nothing else. Use NONE for any field the command does not specify.

OPERATION: one of create, edit, comment, view, close, reopen
TARGET: issue number, or NONE
CONTENT: the subject matter of the request
CONFIDENCE: high, medium, or low - your certainty in this parse
LABELS: comma-separated labels, or NONE
ASSIGNEES: comma-separated usernames, or NONE
MILESTONE: milestone name, or NONE
PRIORITY: urgent, high, normal, or low, or NONE
TONE: formal, casual, or technical, or NONE
INSTRUCTIONS: any special instructions from the user, or NONE`

// Extract parses a canonical directive into an Intent with one generation
// call. repoContext, when non-empty, is included verbatim as extra prompt
// context (callers cap its size).
//
// A service failure or empty output is not a pipeline error: it yields a
// degraded low-confidence Intent carrying the original input, which the
// confirmation gate will flag.
func Extract(ctx context.Context, generate GenerateFunc, canonical, repoContext string) models.Intent {
	logger := logging.GetCurrentLogger()

	prompt := buildExtractionPrompt(canonical, repoContext)
	out, err := generate(ctx, prompt)
	if err != nil || strings.TrimSpace(out) == "" {
		logger.Log("intent extraction degraded to unknown/low: %v", err)
		return models.Intent{
			Operation:  models.OpUnknown,
			Content:    canonical,
			Confidence: models.ConfidenceLow,
		}
	}

	in := ParseIntent(out)
	logger.Log("extracted intent: operation=%s target=%d confidence=%s",
		in.Operation, in.TargetID, in.Confidence)
	return in
}

func buildExtractionPrompt(canonical, repoContext string) string {
	var b strings.Builder
	b.WriteString(extractPromptHeader)

	if repoContext != "" {
		b.WriteString("\n\nProject context:\n")
		b.WriteString(repoContext)
	}

	fmt.Fprintf(&b, "\n\nCommand: %s\n", canonical)
	return b.String()
}
