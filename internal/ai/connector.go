package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Backend represents a text-generation backend type
type Backend string

const (
	BackendOpenAI Backend = "openai"
	BackendGemini Backend = "gemini"
	BackendClaude Backend = "claude"
	BackendOllama Backend = "ollama"
)

// ModelConfig contains the configuration for a specific model
type ModelConfig struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

// ConnectorOptions contains options for creating a connector
type ConnectorOptions struct {
	Backend     Backend
	APIKey      string
	BaseURL     string
	ModelConfig ModelConfig
}

// Connector is a single-shot prompt-completion client over one backend.
type Connector struct {
	backend Backend
	llm     llms.Model
	options ConnectorOptions
}

// NewConnector creates a new connector for the specified backend
func NewConnector(ctx context.Context, options ConnectorOptions) (*Connector, error) {
	var model llms.Model
	var err error

	log.Debug().
		Str("backend", string(options.Backend)).
		Str("model", options.ModelConfig.Model).
		Float64("temperature", options.ModelConfig.Temperature).
		Msg("Creating generation connector")

	switch options.Backend {
	case BackendOpenAI:
		model, err = createOpenAIModel(options)
	case BackendGemini:
		model, err = createGeminiModel(ctx, options)
	case BackendClaude:
		model, err = createAnthropicModel(options)
	case BackendOllama:
		model, err = createOllamaModel(options)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", options.Backend)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create model for backend %s: %w", options.Backend, err)
	}

	return &Connector{
		backend: options.Backend,
		llm:     model,
		options: options,
	}, nil
}

func createOpenAIModel(options ConnectorOptions) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(options.ModelConfig.Model),
		openai.WithToken(options.APIKey),
	}
	if options.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(options.BaseURL))
	}
	return openai.New(opts...)
}

func createGeminiModel(ctx context.Context, options ConnectorOptions) (llms.Model, error) {
	opts := []googleai.Option{
		googleai.WithAPIKey(options.APIKey),
	}
	if options.ModelConfig.Model != "" {
		opts = append(opts, googleai.WithDefaultModel(options.ModelConfig.Model))
	}

	model, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini model: %w", err)
	}
	return model, nil
}

func createAnthropicModel(options ConnectorOptions) (llms.Model, error) {
	opts := []anthropic.Option{
		anthropic.WithToken(options.APIKey),
		anthropic.WithModel(options.ModelConfig.Model),
	}
	return anthropic.New(opts...)
}

func createOllamaModel(options ConnectorOptions) (llms.Model, error) {
	if options.BaseURL == "" {
		options.BaseURL = "http://localhost:11434"
	}
	opts := []ollama.Option{
		ollama.WithServerURL(options.BaseURL),
		ollama.WithModel(options.ModelConfig.Model),
	}
	return ollama.New(opts...)
}

// Generate calls the backend with the given prompt and returns the completion
func (c *Connector) Generate(ctx context.Context, prompt string) (string, error) {
	callOptions := []llms.CallOption{
		llms.WithTemperature(c.options.ModelConfig.Temperature),
	}

	if c.options.ModelConfig.MaxTokens > 0 {
		callOptions = append(callOptions, llms.WithMaxTokens(c.options.ModelConfig.MaxTokens))
	}

	// Gemini needs the model repeated per call
	if c.backend == BackendGemini && c.options.ModelConfig.Model != "" {
		callOptions = append(callOptions, llms.WithModel(c.options.ModelConfig.Model))
	}

	log.Debug().
		Str("backend", string(c.backend)).
		Int("prompt_bytes", len(prompt)).
		Msg("Submitting prompt")

	return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, callOptions...)
}

// GetBackend returns the backend of this connector
func (c *Connector) GetBackend() Backend {
	return c.backend
}

// GetModel returns the model name from the config
func (c *Connector) GetModel() string {
	return c.options.ModelConfig.Model
}
