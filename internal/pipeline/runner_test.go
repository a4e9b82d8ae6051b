package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/issuepilot/pkg/models"
)

// scenarioGenerator answers the normalizer and extractor with canned
// output and serves content drafts from a queue, recording every prompt.
type scenarioGenerator struct {
	canonical string
	extracted string
	drafts    []string
	draftErr  error

	prompts []string
	calls   int
}

func (g *scenarioGenerator) generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)

	switch {
	case strings.Contains(prompt, "rewrite conversational requests"):
		return g.canonical, nil
	case strings.Contains(prompt, "convert a tracker command"):
		return g.extracted, nil
	default:
		if g.draftErr != nil {
			return "", g.draftErr
		}
		if len(g.drafts) == 0 {
			return "default draft", nil
		}
		draft := g.drafts[0]
		if len(g.drafts) > 1 {
			g.drafts = g.drafts[1:]
		}
		return draft, nil
	}
}

func TestScenarioA_CommentOnIssue8(t *testing.T) {
	gen := &scenarioGenerator{
		canonical: "add comment to issue 8 about login fix",
		extracted: "OPERATION: comment\nTARGET: 8\nCONTENT: login fix\nCONFIDENCE: high",
		drafts:    []string{"The login fix is deployed and verified."},
	}
	tr := newFakeTracker()
	tr.issues[8] = &models.IssueDetails{Number: 8, Title: "Login broken", State: "open"}

	runner := &Runner{
		Generate: gen.generate,
		Tracker:  tr,
		Prompter: &scriptedPrompter{confirms: []bool{true}, lines: []string{"a"}},
		Out:      &bytes.Buffer{},
	}

	result, err := runner.Run(context.Background(), "add comment to issue 8 about login fix")

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, tr.commentCalls)
	assert.Equal(t, 8, tr.lastCommentNumber)
}

func TestScenarioB_CreateWithRegeneration(t *testing.T) {
	gen := &scenarioGenerator{
		canonical: "create issue about dark mode",
		extracted: "OPERATION: create\nTARGET: NONE\nCONTENT: dark mode\nCONFIDENCE: high",
		drafts:    []string{"Dark mode\n\nA long first draft.", "Dark mode\n\nShorter."},
	}
	tr := newFakeTracker()

	runner := &Runner{
		Generate: gen.generate,
		Tracker:  tr,
		Prompter: &scriptedPrompter{
			confirms: []bool{true},
			lines:    []string{"r", "make it shorter", "a"},
		},
		Out: &bytes.Buffer{},
	}

	result, err := runner.Run(context.Background(), "create issue about dark mode")

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, tr.createCalls)

	// The regeneration prompt must include both the prior draft and the
	// new feedback line.
	last := gen.prompts[len(gen.prompts)-1]
	assert.Contains(t, last, "make it shorter")
	assert.Contains(t, last, "A long first draft.")
}

func TestScenarioC_LowConfidenceWarnsButAllowsDecision(t *testing.T) {
	gen := &scenarioGenerator{
		canonical: "edit issue 13",
		extracted: "OPERATION: edit\nTARGET: 13\nCONTENT: NONE\nCONFIDENCE: low",
	}
	tr := newFakeTracker()
	tr.issues[13] = &models.IssueDetails{Number: 13, Title: "Vague", State: "open"}
	out := &bytes.Buffer{}

	runner := &Runner{
		Generate: gen.generate,
		Tracker:  tr,
		Prompter: &scriptedPrompter{confirms: []bool{false}},
		Out:      out,
	}

	_, err := runner.Run(context.Background(), "edit issue 13")

	assert.ErrorIs(t, err, ErrUserCancelled)
	assert.Contains(t, out.String(), "WARNING: low confidence")
	assert.Equal(t, 0, tr.editCalls)
}

func TestScenarioD_GenerationFailureOffersNoSilentCommit(t *testing.T) {
	gen := &scenarioGenerator{
		canonical: "add comment to issue 8 about login fix",
		extracted: "OPERATION: comment\nTARGET: 8\nCONTENT: login fix\nCONFIDENCE: high",
		draftErr:  errors.New("generation service returned empty completion"),
	}
	tr := newFakeTracker()
	tr.issues[8] = &models.IssueDetails{Number: 8, State: "open"}

	runner := &Runner{
		Generate: gen.generate,
		Tracker:  tr,
		Prompter: &scriptedPrompter{confirms: []bool{true}},
		Out:      &bytes.Buffer{},
	}

	_, err := runner.Run(context.Background(), "add comment to issue 8 about login fix")

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Equal(t, 0, tr.commentCalls, "no silent empty commit")
}

func TestRunner_MissingTargetHaltsBeforeAnyCall(t *testing.T) {
	gen := &scenarioGenerator{
		canonical: "comment on the login issue",
		extracted: "OPERATION: comment\nTARGET: NONE\nCONTENT: login\nCONFIDENCE: medium",
	}
	tr := newFakeTracker()

	runner := &Runner{
		Generate: gen.generate,
		Tracker:  tr,
		Prompter: &scriptedPrompter{},
		Out:      &bytes.Buffer{},
	}

	_, err := runner.Run(context.Background(), "comment on the login issue")

	var missing *MissingTargetError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, 0, tr.commentCalls)
	// Only the normalizer and extractor calls happened.
	assert.Equal(t, 2, gen.calls)
}

func TestRunner_ViewBypassesContentLoop(t *testing.T) {
	gen := &scenarioGenerator{
		canonical: "view issue 3",
		extracted: "OPERATION: view\nTARGET: 3\nCONTENT: NONE\nCONFIDENCE: high",
	}
	tr := newFakeTracker()
	tr.issues[3] = &models.IssueDetails{Number: 3, Title: "Flaky test", State: "open"}

	runner := &Runner{
		Generate: gen.generate,
		Tracker:  tr,
		Prompter: &scriptedPrompter{confirms: []bool{true}},
		Out:      &bytes.Buffer{},
	}

	result, err := runner.Run(context.Background(), "view issue 3")

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Flaky test")
	// Normalize + extract only; the loop never ran.
	assert.Equal(t, 2, gen.calls)
}

func TestRunner_DegradedIntentRejectedAtDispatch(t *testing.T) {
	gen := &scenarioGenerator{
		canonical: "do something clever",
		extracted: "", // extraction failure path
	}
	tr := newFakeTracker()
	out := &bytes.Buffer{}

	runner := &Runner{
		Generate: gen.generate,
		Tracker:  tr,
		Prompter: &scriptedPrompter{confirms: []bool{true}},
		Out:      out,
	}

	_, err := runner.Run(context.Background(), "do something clever")

	var unsupported *UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
	assert.Contains(t, out.String(), "WARNING: low confidence")
}
