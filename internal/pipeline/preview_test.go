package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/issuepilot/pkg/models"
)

func TestBuildCommandPreview_Comment(t *testing.T) {
	preview := BuildCommandPreview(models.ConfirmedAction{
		Intent:  models.Intent{Operation: models.OpComment, TargetID: 8},
		Content: "login fix verified",
	})
	assert.Equal(t, `gh issue comment 8 --body "login fix verified"`, preview)
}

func TestBuildCommandPreview_CreateWithMetadata(t *testing.T) {
	preview := BuildCommandPreview(models.ConfirmedAction{
		Intent: models.Intent{
			Operation: models.OpCreate,
			Labels:    []string{"bug"},
			Milestone: "v1.2",
		},
		Content: "Dark mode\n\nAdd a dark theme.",
	})

	assert.Contains(t, preview, `--title "Dark mode"`)
	assert.Contains(t, preview, `--label "bug"`)
	assert.Contains(t, preview, `--milestone "v1.2"`)
}

func TestSplitTitleBody(t *testing.T) {
	title, body := SplitTitleBody("# Dark mode\n\nAdd a dark theme.")
	assert.Equal(t, "Dark mode", title)
	assert.Equal(t, "Add a dark theme.", body)

	title, body = SplitTitleBody("single line only")
	assert.Equal(t, "single line only", title)
	assert.Equal(t, "", body)
}

func TestParseFieldChanges(t *testing.T) {
	fields := ParseFieldChanges("TITLE: New title\nBODY:\nFirst line.\nSecond line.")
	assert.Equal(t, "New title", fields.Title)
	assert.Equal(t, "First line.\nSecond line.", fields.Body)

	// Drafts without explicit field markers replace the body.
	fields = ParseFieldChanges("just a plain rewrite")
	assert.Equal(t, "", fields.Title)
	assert.Equal(t, "just a plain rewrite", fields.Body)

	// Title-only change leaves the body untouched.
	fields = ParseFieldChanges("TITLE: Only the title")
	assert.Equal(t, "Only the title", fields.Title)
	assert.Equal(t, "", fields.Body)
}
