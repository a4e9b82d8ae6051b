package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/issuepilot/internal/intent"
	"github.com/issuepilot/internal/logging"
	"github.com/issuepilot/internal/tracker"
	"github.com/issuepilot/pkg/models"
)

// Runner executes one natural-language request end to end. Execution is
// strictly sequential: one request finishes before the next is accepted,
// so the only mutable state (the loop's feedback history) has a single
// owner and needs no locking.
type Runner struct {
	Generate    func(ctx context.Context, prompt string) (string, error)
	Tracker     tracker.Tracker
	Prompter    Prompter
	Out         io.Writer
	RepoContext string
	DryRun      bool
}

// Run processes raw through the full pipeline: normalize, extract,
// validate, approve, generate content, dispatch. The returned error is
// one of the pipeline taxonomy types, or ErrUserCancelled.
func (r *Runner) Run(ctx context.Context, raw string) (models.OperationResult, error) {
	logger := logging.GetCurrentLogger()
	logger.Log("processing request: %q", raw)

	canonical := intent.Normalize(ctx, r.Generate, raw)
	in := intent.Extract(ctx, r.Generate, canonical, r.RepoContext)

	if err := ValidateIntent(in); err != nil {
		return models.OperationResult{}, err
	}

	gate := &Gate{Tracker: r.Tracker, Prompter: r.Prompter, Out: r.Out}

	target, err := gate.VerifyTarget(ctx, in)
	if err != nil {
		return models.OperationResult{}, err
	}

	if err := gate.Approve(in); err != nil {
		return models.OperationResult{}, err
	}

	dispatcher := &Dispatcher{Tracker: r.Tracker, DryRun: r.DryRun}

	// Reads and out-of-enum operations skip the content loop entirely.
	if !in.Operation.Mutating() {
		return dispatcher.Dispatch(ctx, models.ConfirmedAction{Intent: in})
	}

	if in.Operation == models.OpCreate {
		dispatcher.TrackerCtx = tracker.LoadContext(ctx, r.Tracker)
	}

	cfg := LoopConfig{
		BasePrompt: basePromptFor(in, r.RepoContext, target),
		Generate:   r.Generate,
		Render: func(content string) {
			fmt.Fprintf(r.Out, "\n--- Draft ---\n%s\n--- End draft ---\n", content)
			preview := BuildCommandPreview(models.ConfirmedAction{Intent: in, Content: content})
			fmt.Fprintf(r.Out, "Equivalent command: %s\n", preview)
		},
		Validate: func(content string) error {
			preview := BuildCommandPreview(models.ConfirmedAction{Intent: in, Content: content})
			return CheckQuoteBalance(preview)
		},
		Execute: func(ctx context.Context, content string) (models.OperationResult, error) {
			return dispatcher.Dispatch(ctx, models.ConfirmedAction{Intent: in, Content: content})
		},
		Prompter: r.Prompter,
		Out:      r.Out,
	}

	return RunLoop(ctx, cfg)
}
