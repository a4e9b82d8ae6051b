package tracker

import (
	"context"

	"github.com/issuepilot/pkg/models"
)

// Tracker is the external issue-tracking service. Every call is synchronous
// and returns a typed result; transport errors never leak past this
// boundary unwrapped.
type Tracker interface {
	// Reads
	View(ctx context.Context, number int) (*models.IssueDetails, error)
	ListLabels(ctx context.Context) ([]string, error)
	ListMilestones(ctx context.Context) ([]string, error)
	ListCollaborators(ctx context.Context) ([]string, error)

	// Writes
	Create(ctx context.Context, title, body string, labels, assignees []string, milestone string) (models.OperationResult, error)
	Edit(ctx context.Context, number int, fields models.IssueFields) (models.OperationResult, error)
	Comment(ctx context.Context, number int, body string) (models.OperationResult, error)
	Close(ctx context.Context, number int, reason string) (models.OperationResult, error)
	Reopen(ctx context.Context, number int, reason string) (models.OperationResult, error)
}
