package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/issuepilot/pkg/models"
)

// GitHubTracker talks to the GitHub REST v3 issues API for a single
// owner/repo pair. Calls are rate-limited so interactive regeneration
// bursts cannot trip GitHub's secondary limits.
type GitHubTracker struct {
	Token   string
	Owner   string
	Repo    string
	BaseURL string // overridable for tests

	client  *http.Client
	limiter *rate.Limiter
}

// GitHubConfig holds the settings needed to reach one repository.
type GitHubConfig struct {
	Token string
	Owner string
	Repo  string
}

// NewGitHubTracker creates a tracker client for the configured repository.
func NewGitHubTracker(cfg GitHubConfig) (*GitHubTracker, error) {
	if cfg.Token == "" || cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github tracker requires token, owner, and repo")
	}
	return &GitHubTracker{
		Token:   cfg.Token,
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		BaseURL: "https://api.github.com",
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(rate.Limit(2), 5),
	}, nil
}

func (g *GitHubTracker) do(ctx context.Context, method, path string, payload, out interface{}) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request payload: %w", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	url := g.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+g.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", method).Str("path", path).Msg("GitHub API call")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GitHub %s %s failed: %s", method, path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding GitHub response: %w", err)
		}
	}
	return nil
}

func (g *GitHubTracker) issuePath(suffix string) string {
	return fmt.Sprintf("/repos/%s/%s%s", g.Owner, g.Repo, suffix)
}

type ghIssue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
	Milestone *struct {
		Title string `json:"title"`
	} `json:"milestone"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
}

func (i ghIssue) toDetails() *models.IssueDetails {
	details := &models.IssueDetails{
		Number:    i.Number,
		Title:     i.Title,
		Body:      i.Body,
		State:     i.State,
		Author:    i.User.Login,
		URL:       i.HTMLURL,
		CreatedAt: i.CreatedAt,
	}
	for _, l := range i.Labels {
		details.Labels = append(details.Labels, l.Name)
	}
	for _, a := range i.Assignees {
		details.Assignees = append(details.Assignees, a.Login)
	}
	if i.Milestone != nil {
		details.Milestone = i.Milestone.Title
	}
	return details
}

// View fetches a single issue by number.
func (g *GitHubTracker) View(ctx context.Context, number int) (*models.IssueDetails, error) {
	var issue ghIssue
	err := g.do(ctx, "GET", g.issuePath(fmt.Sprintf("/issues/%d", number)), nil, &issue)
	if err != nil {
		return nil, err
	}
	return issue.toDetails(), nil
}

// ListLabels returns the names of all labels defined on the repository.
func (g *GitHubTracker) ListLabels(ctx context.Context) ([]string, error) {
	var raw []struct {
		Name string `json:"name"`
	}
	if err := g.do(ctx, "GET", g.issuePath("/labels?per_page=100"), nil, &raw); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw))
	for _, l := range raw {
		names = append(names, l.Name)
	}
	return names, nil
}

// ListMilestones returns the titles of open milestones.
func (g *GitHubTracker) ListMilestones(ctx context.Context) ([]string, error) {
	raw, err := g.listMilestones(ctx)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(raw))
	for _, m := range raw {
		titles = append(titles, m.Title)
	}
	return titles, nil
}

type ghMilestone struct {
	Title  string `json:"title"`
	Number int    `json:"number"`
}

func (g *GitHubTracker) listMilestones(ctx context.Context) ([]ghMilestone, error) {
	var raw []ghMilestone
	if err := g.do(ctx, "GET", g.issuePath("/milestones?state=open&per_page=100"), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListCollaborators returns the logins of repository collaborators.
func (g *GitHubTracker) ListCollaborators(ctx context.Context) ([]string, error) {
	var raw []struct {
		Login string `json:"login"`
	}
	if err := g.do(ctx, "GET", g.issuePath("/collaborators?per_page=100"), nil, &raw); err != nil {
		return nil, err
	}
	logins := make([]string, 0, len(raw))
	for _, c := range raw {
		logins = append(logins, c.Login)
	}
	return logins, nil
}

// Create opens a new issue. The milestone is given by title and resolved to
// GitHub's numeric milestone id; an unresolvable title is dropped rather
// than failing the whole create.
func (g *GitHubTracker) Create(ctx context.Context, title, body string, labels, assignees []string, milestone string) (models.OperationResult, error) {
	payload := map[string]interface{}{
		"title": title,
		"body":  body,
	}
	if len(labels) > 0 {
		payload["labels"] = labels
	}
	if len(assignees) > 0 {
		payload["assignees"] = assignees
	}
	if milestone != "" {
		if number, ok := g.resolveMilestone(ctx, milestone); ok {
			payload["milestone"] = number
		} else {
			log.Debug().Str("milestone", milestone).Msg("Milestone not found, omitting")
		}
	}

	var issue ghIssue
	if err := g.do(ctx, "POST", g.issuePath("/issues"), payload, &issue); err != nil {
		return models.OperationResult{}, err
	}

	return models.OperationResult{
		Success:    true,
		Message:    fmt.Sprintf("created issue #%d: %s", issue.Number, issue.HTMLURL),
		ExternalID: fmt.Sprintf("%d", issue.Number),
	}, nil
}

func (g *GitHubTracker) resolveMilestone(ctx context.Context, title string) (int, bool) {
	milestones, err := g.listMilestones(ctx)
	if err != nil {
		return 0, false
	}
	for _, m := range milestones {
		if strings.EqualFold(m.Title, title) {
			return m.Number, true
		}
	}
	return 0, false
}

// Edit applies field-level changes to an existing issue.
func (g *GitHubTracker) Edit(ctx context.Context, number int, fields models.IssueFields) (models.OperationResult, error) {
	payload := map[string]interface{}{}
	if fields.Title != "" {
		payload["title"] = fields.Title
	}
	if fields.Body != "" {
		payload["body"] = fields.Body
	}
	if len(payload) == 0 {
		return models.OperationResult{}, fmt.Errorf("edit of issue #%d has no field changes", number)
	}

	var issue ghIssue
	if err := g.do(ctx, "PATCH", g.issuePath(fmt.Sprintf("/issues/%d", number)), payload, &issue); err != nil {
		return models.OperationResult{}, err
	}

	return models.OperationResult{
		Success:    true,
		Message:    fmt.Sprintf("updated issue #%d", issue.Number),
		ExternalID: fmt.Sprintf("%d", issue.Number),
	}, nil
}

// Comment posts a comment on an existing issue.
func (g *GitHubTracker) Comment(ctx context.Context, number int, body string) (models.OperationResult, error) {
	payload := map[string]string{"body": body}

	var comment struct {
		ID      int64  `json:"id"`
		HTMLURL string `json:"html_url"`
	}
	if err := g.do(ctx, "POST", g.issuePath(fmt.Sprintf("/issues/%d/comments", number)), payload, &comment); err != nil {
		return models.OperationResult{}, err
	}

	return models.OperationResult{
		Success:    true,
		Message:    fmt.Sprintf("commented on issue #%d: %s", number, comment.HTMLURL),
		ExternalID: fmt.Sprintf("%d", comment.ID),
	}, nil
}

// Close closes an issue, posting reason as a comment first when present.
func (g *GitHubTracker) Close(ctx context.Context, number int, reason string) (models.OperationResult, error) {
	if reason != "" {
		if _, err := g.Comment(ctx, number, reason); err != nil {
			return models.OperationResult{}, err
		}
	}

	stateReason := "completed"
	if strings.Contains(strings.ToLower(reason), "not planned") {
		stateReason = "not_planned"
	}
	payload := map[string]string{"state": "closed", "state_reason": stateReason}

	if err := g.do(ctx, "PATCH", g.issuePath(fmt.Sprintf("/issues/%d", number)), payload, nil); err != nil {
		return models.OperationResult{}, err
	}

	return models.OperationResult{
		Success:    true,
		Message:    fmt.Sprintf("closed issue #%d", number),
		ExternalID: fmt.Sprintf("%d", number),
	}, nil
}

// Reopen reopens a closed issue, posting reason as a comment when present.
func (g *GitHubTracker) Reopen(ctx context.Context, number int, reason string) (models.OperationResult, error) {
	payload := map[string]string{"state": "open"}
	if err := g.do(ctx, "PATCH", g.issuePath(fmt.Sprintf("/issues/%d", number)), payload, nil); err != nil {
		return models.OperationResult{}, err
	}

	if reason != "" {
		if _, err := g.Comment(ctx, number, reason); err != nil {
			return models.OperationResult{}, err
		}
	}

	return models.OperationResult{
		Success:    true,
		Message:    fmt.Sprintf("reopened issue #%d", number),
		ExternalID: fmt.Sprintf("%d", number),
	}, nil
}
