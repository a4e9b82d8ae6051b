package models

// Operation identifies a tracker action the user asked for.
//
// The intent extractor is permissive and may carry an out-of-enum value
// verbatim; only the dispatcher rejects those.
type Operation string

const (
	OpCreate  Operation = "create"
	OpEdit    Operation = "edit"
	OpComment Operation = "comment"
	OpView    Operation = "view"
	OpClose   Operation = "close"
	OpReopen  Operation = "reopen"
	OpUnknown Operation = "unknown"
)

// Known reports whether op is a member of the fixed operation enum.
func (op Operation) Known() bool {
	switch op {
	case OpCreate, OpEdit, OpComment, OpView, OpClose, OpReopen, OpUnknown:
		return true
	}
	return false
}

// RequiresTarget reports whether the operation needs an existing issue number.
func (op Operation) RequiresTarget() bool {
	switch op {
	case OpEdit, OpComment, OpView, OpClose, OpReopen:
		return true
	}
	return false
}

// Mutating reports whether the operation writes to the tracker.
func (op Operation) Mutating() bool {
	return op.Known() && op != OpView && op != OpUnknown
}

// Confidence is the extractor's self-reported certainty in its own parse.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Intent is the structured form of a parsed natural-language request.
// Immutable once constructed; a regeneration produces a new Intent.
type Intent struct {
	Operation    Operation
	TargetID     int // 0 means absent; valid targets are positive
	Content      string
	Confidence   Confidence
	Labels       []string
	Assignees    []string
	Milestone    string
	Priority     string
	Tone         string
	Instructions string
}

// HasTarget reports whether the intent carries a usable issue number.
func (i Intent) HasTarget() bool {
	return i.TargetID > 0
}

// ConfirmedAction pairs an Intent with user-approved content. It is created
// only after explicit approval and dispatched at most once.
type ConfirmedAction struct {
	Intent  Intent
	Content string
}

// OperationResult is the outcome of one dispatched tracker operation.
type OperationResult struct {
	Success    bool
	Message    string
	ExternalID string
}

// IssueFields holds field-level changes for an edit operation.
// Empty values mean "leave unchanged".
type IssueFields struct {
	Title string
	Body  string
}

// IssueDetails is the tracker's view of a single issue.
type IssueDetails struct {
	Number    int
	Title     string
	Body      string
	State     string
	Author    string
	Labels    []string
	Assignees []string
	Milestone string
	URL       string
	CreatedAt string
}

// TrackerContext carries the tracker's allow-lists used to filter
// generated metadata. Values absent from these lists are remapped to the
// closest valid option or dropped, never fabricated.
type TrackerContext struct {
	Labels        []string
	Milestones    []string
	Collaborators []string
}
