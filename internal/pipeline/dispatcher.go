package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/issuepilot/internal/logging"
	"github.com/issuepilot/internal/tracker"
	"github.com/issuepilot/pkg/models"
)

// Dispatcher routes a ConfirmedAction to exactly one typed tracker call.
type Dispatcher struct {
	Tracker    tracker.Tracker
	TrackerCtx models.TrackerContext
	DryRun     bool
}

// Dispatch performs the action's operation. An operation outside the fixed
// enum is rejected with no partial effects. With DryRun set, the mutation
// is skipped and a synthetic result returned.
func (d *Dispatcher) Dispatch(ctx context.Context, action models.ConfirmedAction) (models.OperationResult, error) {
	in := action.Intent

	if !in.Operation.Known() || in.Operation == models.OpUnknown {
		return models.OperationResult{}, &UnsupportedOperationError{Operation: in.Operation}
	}

	if d.DryRun && in.Operation.Mutating() {
		logging.GetCurrentLogger().Log("dry-run: skipping %s dispatch", in.Operation)
		return models.OperationResult{
			Success: true,
			Message: fmt.Sprintf("dry-run: %s skipped", in.Operation),
		}, nil
	}

	var result models.OperationResult
	var err error

	switch in.Operation {
	case models.OpCreate:
		result, err = d.create(ctx, action)
	case models.OpEdit:
		result, err = d.Tracker.Edit(ctx, in.TargetID, ParseFieldChanges(action.Content))
	case models.OpComment:
		result, err = d.Tracker.Comment(ctx, in.TargetID, action.Content)
	case models.OpClose:
		result, err = d.Tracker.Close(ctx, in.TargetID, action.Content)
	case models.OpReopen:
		result, err = d.Tracker.Reopen(ctx, in.TargetID, action.Content)
	case models.OpView:
		return d.view(ctx, in.TargetID)
	}

	if err != nil {
		return result, &ExternalOperationError{Operation: in.Operation, Err: err}
	}
	return result, nil
}

func (d *Dispatcher) create(ctx context.Context, action models.ConfirmedAction) (models.OperationResult, error) {
	in := action.Intent
	title, body := SplitTitleBody(action.Content)

	labels := FilterAllowed(in.Labels, d.TrackerCtx.Labels)
	assignees := FilterAllowed(in.Assignees, d.TrackerCtx.Collaborators)

	milestone := ""
	if in.Milestone != "" {
		if match, ok := ClosestMatch(in.Milestone, d.TrackerCtx.Milestones); ok {
			milestone = match
		}
	}

	return d.Tracker.Create(ctx, title, body, labels, assignees, milestone)
}

func (d *Dispatcher) view(ctx context.Context, number int) (models.OperationResult, error) {
	details, err := d.Tracker.View(ctx, number)
	if err != nil {
		return models.OperationResult{}, &ExternalOperationError{Operation: models.OpView, Err: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s [%s]\n", details.Number, details.Title, details.State)
	if details.Author != "" {
		fmt.Fprintf(&b, "opened by %s on %s\n", details.Author, details.CreatedAt)
	}
	if len(details.Labels) > 0 {
		fmt.Fprintf(&b, "labels: %s\n", strings.Join(details.Labels, ", "))
	}
	if len(details.Assignees) > 0 {
		fmt.Fprintf(&b, "assignees: %s\n", strings.Join(details.Assignees, ", "))
	}
	if details.Milestone != "" {
		fmt.Fprintf(&b, "milestone: %s\n", details.Milestone)
	}
	if details.Body != "" {
		fmt.Fprintf(&b, "\n%s\n", details.Body)
	}

	return models.OperationResult{
		Success:    true,
		Message:    b.String(),
		ExternalID: fmt.Sprintf("%d", details.Number),
	}, nil
}

// FilterAllowed keeps only values present in the allow-list, remapping each
// to its closest valid option. Values with no plausible match are dropped,
// never fabricated.
func FilterAllowed(values, allowed []string) []string {
	var kept []string
	for _, v := range values {
		if match, ok := ClosestMatch(v, allowed); ok {
			kept = append(kept, match)
		}
	}
	return kept
}

// ClosestMatch finds the allow-listed option closest to value: exact
// case-insensitive match first, then a one-sided substring match. The
// returned string is always the allow-list's spelling.
func ClosestMatch(value string, allowed []string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return "", false
	}

	for _, a := range allowed {
		if strings.ToLower(a) == lower {
			return a, true
		}
	}

	for _, a := range allowed {
		al := strings.ToLower(a)
		if strings.Contains(al, lower) || strings.Contains(lower, al) {
			return a, true
		}
	}

	return "", false
}
