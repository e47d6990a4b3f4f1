// Package config reads process configuration from the environment and builds
// the model client and orchestrator from it.
package config

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/symphony/internal/util"
	"github.com/OFFIS-RIT/symphony/pkg/ai"
	oai "github.com/OFFIS-RIT/symphony/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/symphony/pkg/ai/openai"
	"github.com/OFFIS-RIT/symphony/pkg/logger"
	"github.com/OFFIS-RIT/symphony/pkg/symphony"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "google-gla"

	defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// S3Config configures the S3 export target.
type S3Config struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
}

// Enabled reports whether a bucket is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Config is the process configuration.
type Config struct {
	Port  string
	Debug bool

	AIAdapter  string
	ChatURL    string
	ChatKey    string
	GeminiURL  string
	GeminiKey  string
	OllamaURL  string
	OllamaKey  string
	Parallel   int
	MaxRetries int
	Preload    bool
	StagesFile string

	MaxModelCount       int
	MaxParticipantCount int

	APIKey    string
	AuthURL   string
	BodyLimit string

	S3 S3Config
}

// Load reads the configuration from the environment. Call util.LoadEnv first
// to pick up a .env file.
func Load() Config {
	return Config{
		Port:  util.GetEnvString("PORT", "8080"),
		Debug: util.GetEnvBool("DEBUG", false),

		AIAdapter:  util.GetEnvString("AI_ADAPTER", ProviderOpenAI),
		ChatURL:    util.GetEnv("AI_CHAT_URL"),
		ChatKey:    util.GetEnv("AI_CHAT_KEY"),
		GeminiURL:  util.GetEnvString("AI_GEMINI_URL", defaultGeminiURL),
		GeminiKey:  util.GetEnv("AI_GEMINI_KEY"),
		OllamaURL:  util.GetEnv("AI_OLLAMA_URL"),
		OllamaKey:  util.GetEnv("AI_OLLAMA_KEY"),
		Parallel:   util.GetEnvInt("AI_PARALLEL_REQ", 15),
		MaxRetries: util.GetEnvInt("AI_MAX_RETRIES", 1),
		Preload:    util.GetEnvBool("AI_PRELOAD", false),
		StagesFile: util.GetEnv("STAGES_FILE"),

		MaxModelCount:       util.GetEnvInt("MAX_MODEL_COUNT", 5),
		MaxParticipantCount: util.GetEnvInt("MAX_PARTICIPANT_COUNT", 10),

		APIKey:    util.GetEnv("API_KEY"),
		AuthURL:   util.GetEnv("AUTH_URL"),
		BodyLimit: util.GetEnvString("BODY_LIMIT", "10M"),

		S3: S3Config{
			Region:         util.GetEnv("AWS_REGION"),
			Endpoint:       util.GetEnv("AWS_ENDPOINT"),
			PublicEndpoint: util.GetEnv("AWS_PUBLIC_ENDPOINT"),
			AccessKey:      util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey:      util.GetEnv("AWS_SECRET_KEY"),
			Bucket:         util.GetEnv("AWS_BUCKET"),
		},
	}
}

// NewAIClient builds a router over every provider. AI_ADAPTER selects the
// provider used for model names without a provider prefix.
func (c Config) NewAIClient() (*ai.Router, error) {
	switch c.AIAdapter {
	case ProviderOpenAI, ProviderOllama, ProviderGemini:
	default:
		return nil, fmt.Errorf("unknown AI_ADAPTER %q", c.AIAdapter)
	}

	ollamaURL := c.OllamaURL
	ollamaKey := c.OllamaKey
	if c.AIAdapter == ProviderOllama && ollamaURL == "" {
		// AI_CHAT_URL/KEY describe the default adapter's endpoint
		ollamaURL, ollamaKey = c.ChatURL, c.ChatKey
	}
	ollamaClient, err := oai.NewOllamaClient(oai.NewOllamaClientParams{
		BaseURL:               ollamaURL,
		ApiKey:                ollamaKey,
		MaxConcurrentRequests: int64(c.Parallel),
	})
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	openaiURL, openaiKey := c.ChatURL, c.ChatKey
	if c.AIAdapter == ProviderOllama {
		openaiURL = ""
	}

	return ai.NewRouter(c.AIAdapter, map[string]ai.Client{
		ProviderOpenAI: gai.NewOpenAIClient(gai.NewOpenAIClientParams{
			BaseURL:               openaiURL,
			APIKey:                openaiKey,
			MaxConcurrentRequests: int64(c.Parallel),
		}),
		ProviderGemini: gai.NewOpenAIClient(gai.NewOpenAIClientParams{
			BaseURL:               c.GeminiURL,
			APIKey:                c.GeminiKey,
			MaxConcurrentRequests: int64(c.Parallel),
		}),
		ProviderOllama: ollamaClient,
	})
}

// NewOrchestrator loads the stage configuration and wires it to client.
func (c Config) NewOrchestrator(client ai.Client) (*symphony.Orchestrator, error) {
	stages, err := symphony.LoadStages(c.StagesFile)
	if err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}
	return symphony.NewOrchestrator(symphony.NewOrchestratorParams{
		Client:      client,
		Stages:      stages,
		MaxRetries:  c.MaxRetries,
		MaxParallel: c.Parallel,
	})
}

// PreloadModels asks the provider of every stage model to load it. Only
// ollama does real work here; failures are logged and skipped.
func PreloadModels(ctx context.Context, client ai.Client, stages *symphony.Stages) {
	for _, model := range stages.Models() {
		logger.Info("Preloading model", "model", model)
		if err := client.LoadModel(ctx, ai.WithModel(model)); err != nil {
			logger.Warn("Failed to preload model", "model", model, "err", err)
		}
	}
}
