package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/issuepilot/internal/ai"
	"github.com/issuepilot/internal/config"
	"github.com/issuepilot/internal/llm"
	"github.com/issuepilot/internal/logging"
	"github.com/issuepilot/internal/pipeline"
	"github.com/issuepilot/internal/tracker"
)

// AskCommand returns the ask command
func AskCommand() *cli.Command {
	return &cli.Command{
		Name:  "ask",
		Usage: "Turn a conversational request into an issue-tracker operation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ai",
				Aliases: []string{"a"},
				Usage:   "Override the AI backend to use",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Override the model name for the selected backend",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Run the full pipeline without mutating the tracker",
			},
		},
		ArgsUsage: "REQUEST...",
		Action:    runAsk,
	}
}

func runAsk(c *cli.Context) error {
	request := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if request == "" {
		fmt.Print("What would you like to do? ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read request: %w", err)
		}
		request = strings.TrimSpace(line)
	}
	if request == "" {
		return fmt.Errorf("missing required argument: REQUEST")
	}

	// Load configuration
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Determine AI backend to use
	aiName := cfg.General.DefaultAI
	if override := c.String("ai"); override != "" {
		aiName = override
	}

	sessionID := uuid.New().String()[:8]
	logger, err := logging.StartSessionLogging(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: session logging disabled: %s\n", err)
	}
	defer logger.Close()
	logger.Log("session %s started, backend=%s dry_run=%v", sessionID, aiName, c.Bool("dry-run"))

	ctx := context.Background()

	generator, err := createGenerator(ctx, aiName, cfg.AI[aiName], c.String("model"), cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI backend: %w", err)
	}

	githubTracker, err := createTracker(cfg.Tracker["github"])
	if err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}

	runner := &pipeline.Runner{
		Generate:    generator.Generate,
		Tracker:     githubTracker,
		Prompter:    pipeline.NewTerminalPrompter(os.Stdin, os.Stdout),
		Out:         os.Stdout,
		RepoContext: tracker.ReadProjectContext(cfg.Context.File, cfg.Context.MaxBytes),
		DryRun:      c.Bool("dry-run"),
	}

	result, err := runner.Run(ctx, request)
	if err != nil {
		if errors.Is(err, pipeline.ErrUserCancelled) {
			fmt.Println("Cancelled. No changes were made.")
			logger.Log("session cancelled by user")
			return nil
		}
		logger.LogError("session failed: %s", err)
		reportFailure(err)
		return err
	}

	fmt.Println(result.Message)
	logger.Log("session completed: %s", result.Message)
	return nil
}

// reportFailure prints a one-line cause and, where the user can recover by
// hand, a pointer to the equivalent manual command.
func reportFailure(err error) {
	var genErr *pipeline.GenerationError
	var valErr *pipeline.ValidationError
	var targetErr *pipeline.MissingTargetError
	var opErr *pipeline.UnsupportedOperationError
	var extErr *pipeline.ExternalOperationError

	switch {
	case errors.As(err, &genErr):
		fmt.Fprintf(os.Stderr, "The AI backend failed during %s: %s\n", genErr.Stage, genErr.Err)
		fmt.Fprintln(os.Stderr, "You can run the operation manually with the gh CLI instead.")
	case errors.As(err, &valErr):
		fmt.Fprintf(os.Stderr, "The generated command failed a safety check (%s): %s\n", valErr.Rule, valErr.Detail)
	case errors.As(err, &targetErr):
		fmt.Fprintf(os.Stderr, "Cannot %s without a valid issue number: %s\n", targetErr.Operation, targetErr.Detail)
		fmt.Fprintln(os.Stderr, "Retry with an explicit issue number, e.g. \"comment on issue #12\".")
	case errors.As(err, &opErr):
		fmt.Fprintf(os.Stderr, "Unsupported operation %q. Supported: create, edit, comment, view, close, reopen.\n", opErr.Operation)
	case errors.As(err, &extErr):
		fmt.Fprintf(os.Stderr, "The tracker rejected the %s operation: %s\n", extErr.Operation, extErr.Err)
		fmt.Fprintln(os.Stderr, "Your approved content was printed above; you can submit it manually.")
	}
}

func createGenerator(ctx context.Context, name string, aiConfig map[string]interface{}, modelOverride string, cfg *config.Config) (*llm.ResilientGenerator, error) {
	backend, err := resolveBackend(name)
	if err != nil {
		return nil, err
	}

	apiKey, _ := aiConfig["api_key"].(string)
	model, _ := aiConfig["model"].(string)
	baseURL, _ := aiConfig["base_url"].(string)
	temperature, _ := aiConfig["temperature"].(float64)
	maxTokens := 0
	if v, ok := aiConfig["max_tokens"].(int64); ok {
		maxTokens = int(v)
	}
	if modelOverride != "" {
		model = modelOverride
	}

	connector, err := ai.NewConnector(ctx, ai.ConnectorOptions{
		Backend: backend,
		APIKey:  apiKey,
		BaseURL: baseURL,
		ModelConfig: ai.ModelConfig{
			Model:       model,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		},
	})
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.General.GenerateTimeoutSec) * time.Second
	return llm.NewResilientGeneratorWithDefaults(connector, timeout), nil
}

func resolveBackend(name string) (ai.Backend, error) {
	switch name {
	case "openai":
		return ai.BackendOpenAI, nil
	case "gemini":
		return ai.BackendGemini, nil
	case "claude":
		return ai.BackendClaude, nil
	case "ollama":
		return ai.BackendOllama, nil
	default:
		return "", fmt.Errorf("unsupported AI backend: %s", name)
	}
}

func createTracker(trackerConfig map[string]interface{}) (tracker.Tracker, error) {
	token, _ := trackerConfig["token"].(string)
	owner, _ := trackerConfig["owner"].(string)
	repo, _ := trackerConfig["repo"].(string)

	return tracker.NewGitHubTracker(tracker.GitHubConfig{
		Token: token,
		Owner: owner,
		Repo:  repo,
	})
}
