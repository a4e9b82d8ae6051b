package pipeline

import (
	"fmt"
	"strings"

	"github.com/issuepilot/pkg/models"
)

// Base prompt templates for the content-generation loop, one per mutating
// operation. Tone, priority, and special instructions from the Intent are
// appended when present.

func basePromptFor(in models.Intent, repoContext string, target *models.IssueDetails) string {
	var b strings.Builder

	switch in.Operation {
	case models.OpCreate:
		b.WriteString("Write a GitHub issue about the following topic. ")
		b.WriteString("Put the title on the first line, then a blank line, then a clear markdown body ")
		b.WriteString("with a problem statement and acceptance criteria.\n\nTopic: ")
		b.WriteString(in.Content)
	case models.OpEdit:
		fmt.Fprintf(&b, "Rewrite the fields of GitHub issue #%d. ", in.TargetID)
		b.WriteString("Respond with a TITLE: line and/or a BODY: section holding the new values. ")
		b.WriteString("Only include fields that should change.\n\nRequested change: ")
		b.WriteString(in.Content)
	case models.OpComment:
		fmt.Fprintf(&b, "Write a concise GitHub comment for issue #%d. ", in.TargetID)
		b.WriteString("Plain markdown, no heading.\n\nSubject: ")
		b.WriteString(in.Content)
	case models.OpClose:
		fmt.Fprintf(&b, "Write a short closing note for GitHub issue #%d explaining why it is being closed.\n\nReason: ", in.TargetID)
		b.WriteString(in.Content)
	case models.OpReopen:
		fmt.Fprintf(&b, "Write a short note for reopening GitHub issue #%d explaining why it needs more work.\n\nReason: ", in.TargetID)
		b.WriteString(in.Content)
	}

	if target != nil {
		fmt.Fprintf(&b, "\n\nThe issue currently reads:\nTitle: %s\n%s", target.Title, truncate(target.Body, 1500))
	}

	if repoContext != "" {
		fmt.Fprintf(&b, "\n\nProject context:\n%s", repoContext)
	}

	if in.Tone != "" {
		fmt.Fprintf(&b, "\n\nUse a %s tone.", in.Tone)
	}
	if in.Priority != "" {
		fmt.Fprintf(&b, "\nThe user considers this %s priority.", in.Priority)
	}
	if in.Instructions != "" {
		fmt.Fprintf(&b, "\nSpecial instructions: %s", in.Instructions)
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
