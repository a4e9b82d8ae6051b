package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/issuepilot/internal/intent"
	"github.com/issuepilot/internal/logging"
	"github.com/issuepilot/internal/tracker"
	"github.com/issuepilot/pkg/models"
)

// Gate is the validation-and-approval checkpoint between a parsed Intent
// and any mutating call. State flow is Parsed -> Validated -> Approved;
// a failed field check or a declined approval is terminal, and a new
// Intent must be produced to re-enter.
type Gate struct {
	Tracker  tracker.Tracker
	Prompter Prompter
	Out      io.Writer
}

// ValidateIntent enforces per-operation required-field rules. It is a pure
// function of the Intent: the same Intent always yields the same decision.
func ValidateIntent(in models.Intent) error {
	if in.Operation.RequiresTarget() && !in.HasTarget() {
		return &MissingTargetError{Operation: in.Operation}
	}
	return nil
}

// VerifyTarget checks that a target-requiring intent references an issue
// that actually exists on the tracker. No mutation has happened when this
// fails.
func (g *Gate) VerifyTarget(ctx context.Context, in models.Intent) (*models.IssueDetails, error) {
	if !in.Operation.RequiresTarget() {
		return nil, nil
	}

	details, err := g.Tracker.View(ctx, in.TargetID)
	if err != nil {
		return nil, &MissingTargetError{
			Operation: in.Operation,
			Detail:    fmt.Sprintf("issue #%d could not be found: %v", in.TargetID, err),
		}
	}
	return details, nil
}

// Approve renders the intent and solicits explicit approval. Low
// confidence produces a visible warning but still permits approval; the
// human is the final authority. Any non-affirmative answer is a rejection.
func (g *Gate) Approve(in models.Intent) error {
	logger := logging.GetCurrentLogger()

	fmt.Fprintln(g.Out, "\nParsed request:")
	fmt.Fprint(g.Out, indent(intent.SerializeIntent(in)))

	if in.Confidence == models.ConfidenceLow {
		fmt.Fprintln(g.Out, "\nWARNING: low confidence in this parse. Review the fields above carefully.")
	}

	approved, err := g.Prompter.Confirm("Proceed with this action?")
	if err != nil {
		return fmt.Errorf("reading approval: %w", err)
	}
	if !approved {
		logger.Log("user declined the parsed intent")
		return ErrUserCancelled
	}

	logger.Log("intent approved: operation=%s target=%d", in.Operation, in.TargetID)
	return nil
}

func indent(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
