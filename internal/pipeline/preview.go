package pipeline

import (
	"fmt"
	"strings"

	"github.com/issuepilot/pkg/models"
)

// BuildCommandPreview renders the gh-style command line equivalent to a
// confirmed action. The preview is for display and the quote-balance check
// only; it is never handed to a shell.
func BuildCommandPreview(action models.ConfirmedAction) string {
	in := action.Intent

	switch in.Operation {
	case models.OpCreate:
		title, body := SplitTitleBody(action.Content)
		parts := []string{fmt.Sprintf("gh issue create --title %q --body %q", title, body)}
		if len(in.Labels) > 0 {
			parts = append(parts, fmt.Sprintf("--label %q", strings.Join(in.Labels, ",")))
		}
		if len(in.Assignees) > 0 {
			parts = append(parts, fmt.Sprintf("--assignee %q", strings.Join(in.Assignees, ",")))
		}
		if in.Milestone != "" {
			parts = append(parts, fmt.Sprintf("--milestone %q", in.Milestone))
		}
		return strings.Join(parts, " ")
	case models.OpEdit:
		fields := ParseFieldChanges(action.Content)
		parts := []string{fmt.Sprintf("gh issue edit %d", in.TargetID)}
		if fields.Title != "" {
			parts = append(parts, fmt.Sprintf("--title %q", fields.Title))
		}
		if fields.Body != "" {
			parts = append(parts, fmt.Sprintf("--body %q", fields.Body))
		}
		return strings.Join(parts, " ")
	case models.OpComment:
		return fmt.Sprintf("gh issue comment %d --body %q", in.TargetID, action.Content)
	case models.OpClose:
		if action.Content != "" {
			return fmt.Sprintf("gh issue close %d --comment %q", in.TargetID, action.Content)
		}
		return fmt.Sprintf("gh issue close %d", in.TargetID)
	case models.OpReopen:
		if action.Content != "" {
			return fmt.Sprintf("gh issue reopen %d --comment %q", in.TargetID, action.Content)
		}
		return fmt.Sprintf("gh issue reopen %d", in.TargetID)
	case models.OpView:
		return fmt.Sprintf("gh issue view %d", in.TargetID)
	}
	return ""
}

// SplitTitleBody splits generated create content into a title line and a
// body. A single-line draft becomes title-only.
func SplitTitleBody(content string) (string, string) {
	content = strings.TrimSpace(content)
	title, body, found := strings.Cut(content, "\n")
	title = strings.TrimSpace(strings.TrimPrefix(title, "# "))
	if !found {
		return title, ""
	}
	return title, strings.TrimSpace(body)
}

// ParseFieldChanges reads edit content. Drafts may carry explicit TITLE:
// and BODY: lines; anything else is treated as a body replacement.
func ParseFieldChanges(content string) models.IssueFields {
	fields := models.IssueFields{}

	lines := strings.Split(content, "\n")
	var bodyLines []string
	inBody := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)
		switch {
		case strings.HasPrefix(upper, "TITLE:"):
			fields.Title = strings.TrimSpace(trimmed[len("TITLE:"):])
			inBody = false
		case strings.HasPrefix(upper, "BODY:"):
			first := strings.TrimSpace(trimmed[len("BODY:"):])
			if first != "" {
				bodyLines = append(bodyLines, first)
			}
			inBody = true
		case inBody:
			bodyLines = append(bodyLines, line)
		}
	}

	if len(bodyLines) > 0 {
		fields.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	}

	if fields.Title == "" && fields.Body == "" {
		fields.Body = strings.TrimSpace(content)
	}
	return fields
}
