package intent

import (
	"context"
	"strings"

	"github.com/issuepilot/internal/logging"
)

// GenerateFunc is the single-shot completion contract the intent stages
// consume. It matches llm.Generator's method without importing it.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

const normalizePromptTemplate = `You rewrite conversational requests into direct imperative commands for an issue tracker. If the input is already a direct command, return it unchanged. Reply with the rewritten command only, on a single line.

Examples:
Input: can you please add a comment to issue 8 about the login fix
Output: add comment to issue 8 about login fix

Input: would you mind closing issue 42, it's done
Output: close issue 42 because it is done

Input: create issue about dark mode
Output: create issue about dark mode

Input: %s
Output:`

// Normalize rewrites conversational phrasing ("can you", "please", "would
// you mind") into a canonical directive via one generation call. This stage
// never aborts the pipeline: any failure or empty result falls back to the
// raw input unchanged. Exactly one external call, no retry at this layer.
func Normalize(ctx context.Context, generate GenerateFunc, raw string) string {
	logger := logging.GetCurrentLogger()

	prompt := strings.Replace(normalizePromptTemplate, "%s", raw, 1)
	out, err := generate(ctx, prompt)
	if err != nil {
		logger.Log("normalization failed, passing raw request through: %v", err)
		return raw
	}

	canonical := firstNonEmptyLine(out)
	if canonical == "" {
		logger.Log("normalization returned empty output, passing raw request through")
		return raw
	}

	if canonical != raw {
		logger.Log("normalized %q -> %q", raw, canonical)
	}
	return canonical
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
