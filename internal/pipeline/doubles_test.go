package pipeline

import (
	"context"
	"fmt"

	"github.com/issuepilot/pkg/models"
)

// scriptedPrompter answers prompts from pre-loaded queues.
type scriptedPrompter struct {
	confirms []bool
	lines    []string
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	if len(p.confirms) == 0 {
		return false, nil
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func (p *scriptedPrompter) ReadLine(prompt string) (string, error) {
	if len(p.lines) == 0 {
		return "", nil
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

// fakeTracker is an in-memory tracker that records every mutation.
type fakeTracker struct {
	issues map[int]*models.IssueDetails

	labels        []string
	milestones    []string
	collaborators []string

	createCalls  int
	commentCalls int
	editCalls    int
	closeCalls   int
	reopenCalls  int

	lastCreateTitle     string
	lastCreateBody      string
	lastCreateLabels    []string
	lastCreateAssignees []string
	lastCreateMilestone string
	lastCommentNumber   int
	lastCommentBody     string
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{issues: map[int]*models.IssueDetails{}}
}

func (f *fakeTracker) View(ctx context.Context, number int) (*models.IssueDetails, error) {
	issue, ok := f.issues[number]
	if !ok {
		return nil, fmt.Errorf("GitHub GET issue failed: 404 Not Found")
	}
	return issue, nil
}

func (f *fakeTracker) ListLabels(ctx context.Context) ([]string, error) {
	return f.labels, nil
}

func (f *fakeTracker) ListMilestones(ctx context.Context) ([]string, error) {
	return f.milestones, nil
}

func (f *fakeTracker) ListCollaborators(ctx context.Context) ([]string, error) {
	return f.collaborators, nil
}

func (f *fakeTracker) Create(ctx context.Context, title, body string, labels, assignees []string, milestone string) (models.OperationResult, error) {
	f.createCalls++
	f.lastCreateTitle = title
	f.lastCreateBody = body
	f.lastCreateLabels = labels
	f.lastCreateAssignees = assignees
	f.lastCreateMilestone = milestone
	return models.OperationResult{Success: true, Message: "created issue #100", ExternalID: "100"}, nil
}

func (f *fakeTracker) Edit(ctx context.Context, number int, fields models.IssueFields) (models.OperationResult, error) {
	f.editCalls++
	return models.OperationResult{Success: true, ExternalID: fmt.Sprintf("%d", number)}, nil
}

func (f *fakeTracker) Comment(ctx context.Context, number int, body string) (models.OperationResult, error) {
	f.commentCalls++
	f.lastCommentNumber = number
	f.lastCommentBody = body
	return models.OperationResult{Success: true, ExternalID: "9001"}, nil
}

func (f *fakeTracker) Close(ctx context.Context, number int, reason string) (models.OperationResult, error) {
	f.closeCalls++
	return models.OperationResult{Success: true, ExternalID: fmt.Sprintf("%d", number)}, nil
}

func (f *fakeTracker) Reopen(ctx context.Context, number int, reason string) (models.OperationResult, error) {
	f.reopenCalls++
	return models.OperationResult{Success: true, ExternalID: fmt.Sprintf("%d", number)}, nil
}
