package intent

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/issuepilot/pkg/models"
)

func TestParseIntent_AllFields(t *testing.T) {
	output := `OPERATION: comment
TARGET: 8
CONTENT: login fix
CONFIDENCE: high
LABELS: bug, auth
ASSIGNEES: octocat
MILESTONE: v1.2
PRIORITY: high
TONE: technical
INSTRUCTIONS: keep it short`

	in := ParseIntent(output)

	if in.Operation != models.OpComment {
		t.Errorf("expected comment, got %s", in.Operation)
	}
	if in.TargetID != 8 {
		t.Errorf("expected target 8, got %d", in.TargetID)
	}
	if in.Content != "login fix" {
		t.Errorf("unexpected content %q", in.Content)
	}
	if in.Confidence != models.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", in.Confidence)
	}
	if !reflect.DeepEqual(in.Labels, []string{"bug", "auth"}) {
		t.Errorf("unexpected labels %v", in.Labels)
	}
	if !reflect.DeepEqual(in.Assignees, []string{"octocat"}) {
		t.Errorf("unexpected assignees %v", in.Assignees)
	}
	if in.Milestone != "v1.2" || in.Priority != "high" || in.Tone != "technical" {
		t.Errorf("unexpected metadata: %q %q %q", in.Milestone, in.Priority, in.Tone)
	}
	if in.Instructions != "keep it short" {
		t.Errorf("unexpected instructions %q", in.Instructions)
	}
}

func TestParseIntent_NoneSentinel(t *testing.T) {
	output := `OPERATION: create
TARGET: NONE
CONTENT: dark mode
CONFIDENCE: medium
LABELS: NONE
MILESTONE: NONE`

	in := ParseIntent(output)

	if in.TargetID != 0 {
		t.Errorf("NONE target should be absent, got %d", in.TargetID)
	}
	if in.Labels != nil {
		t.Errorf("NONE labels should be absent, got %v", in.Labels)
	}
	if in.Milestone != "" {
		t.Errorf("NONE milestone should be absent, got %q", in.Milestone)
	}
	if in.Content != "dark mode" {
		t.Errorf("unexpected content %q", in.Content)
	}
}

func TestParseIntent_FirstMatchingLineWins(t *testing.T) {
	output := `OPERATION: view
OPERATION: close
TARGET: 3
TARGET: 99`

	in := ParseIntent(output)
	if in.Operation != models.OpView {
		t.Errorf("expected first operation line to win, got %s", in.Operation)
	}
	if in.TargetID != 3 {
		t.Errorf("expected first target line to win, got %d", in.TargetID)
	}
}

func TestParseIntent_PermissiveOperation(t *testing.T) {
	// Out-of-enum values pass through; only the dispatcher rejects them.
	in := ParseIntent("OPERATION: merge\nTARGET: 1")
	if in.Operation != models.Operation("merge") {
		t.Errorf("expected verbatim out-of-enum operation, got %s", in.Operation)
	}
	if in.Operation.Known() {
		t.Error("merge must not be a known operation")
	}
}

func TestParseIntent_TargetEdgeCases(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"TARGET: 8", 8},
		{"TARGET: #13", 13},
		{"TARGET: 0", 0},
		{"TARGET: -4", 0},
		{"TARGET: soon", 0},
	}
	for _, tc := range cases {
		in := ParseIntent("OPERATION: view\n" + tc.raw)
		if in.TargetID != tc.want {
			t.Errorf("%q: expected %d, got %d", tc.raw, tc.want, in.TargetID)
		}
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	original := models.Intent{
		Operation:    models.OpCreate,
		TargetID:     0,
		Content:      "dark mode support",
		Confidence:   models.ConfidenceHigh,
		Labels:       []string{"enhancement", "ui"},
		Assignees:    nil,
		Milestone:    "v2.0",
		Priority:     "normal",
		Tone:         "",
		Instructions: "",
	}

	reparsed := ParseIntent(SerializeIntent(original))

	if !reflect.DeepEqual(original, reparsed) {
		t.Errorf("round-trip mismatch:\noriginal: %+v\nreparsed: %+v", original, reparsed)
	}
}

func TestExtract_DegradedOnFailure(t *testing.T) {
	generate := func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("service down")
	}

	in := Extract(context.Background(), generate, "edit issue 13", "")

	if in.Operation != models.OpUnknown {
		t.Errorf("expected unknown operation, got %s", in.Operation)
	}
	if in.Confidence != models.ConfidenceLow {
		t.Errorf("expected low confidence, got %s", in.Confidence)
	}
	if in.Content != "edit issue 13" {
		t.Errorf("degraded intent must carry original input, got %q", in.Content)
	}
}

func TestExtract_IncludesRepoContext(t *testing.T) {
	var seenPrompt string
	generate := func(ctx context.Context, prompt string) (string, error) {
		seenPrompt = prompt
		return "OPERATION: create\nCONTENT: dark mode\nCONFIDENCE: high", nil
	}

	Extract(context.Background(), generate, "create issue about dark mode", "A CLI for managing widgets.")

	if want := "A CLI for managing widgets."; !contains(seenPrompt, want) {
		t.Errorf("prompt missing repo context %q", want)
	}
	if !contains(seenPrompt, "create issue about dark mode") {
		t.Error("prompt missing canonical command")
	}
}

func TestNormalize_PassthroughOnFailure(t *testing.T) {
	generate := func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("service down")
	}

	got := Normalize(context.Background(), generate, "please close issue 4")
	if got != "please close issue 4" {
		t.Errorf("expected raw passthrough, got %q", got)
	}
}

func TestNormalize_RewritesConversationalInput(t *testing.T) {
	calls := 0
	generate := func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "close issue 4\n", nil
	}

	got := Normalize(context.Background(), generate, "can you please close issue 4")
	if got != "close issue 4" {
		t.Errorf("unexpected canonical command %q", got)
	}
	if calls != 1 {
		t.Errorf("normalizer must make exactly one call, made %d", calls)
	}
}

func TestNormalize_EmptyOutputFallsBack(t *testing.T) {
	generate := func(ctx context.Context, prompt string) (string, error) {
		return "\n\n  \n", nil
	}

	got := Normalize(context.Background(), generate, "view issue 2")
	if got != "view issue 2" {
		t.Errorf("expected fallback to raw, got %q", got)
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
