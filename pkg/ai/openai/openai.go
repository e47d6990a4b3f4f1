package openai

import (
	"sync"

	"github.com/OFFIS-RIT/symphony/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// OpenAIClient implements ai.Client against any OpenAI compatible chat
// completions endpoint. Gemini is reached through the same client by pointing
// BaseURL at its OpenAI compatibility layer.
//
// An OpenAIClient should be created using NewOpenAIClient.
type OpenAIClient struct {
	model   string
	baseURL string

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewOpenAIClientParams defines the configuration parameters for creating
// a new OpenAIClient.
//
// Model is used when a request does not name one explicitly.
// BaseURL and APIKey configure the chat/completion API endpoint. An empty
// BaseURL means the official OpenAI API.
// MaxConcurrentRequests bounds in-flight requests; values below one mean one.
type NewOpenAIClientParams struct {
	Model   string
	BaseURL string
	APIKey  string

	MaxConcurrentRequests int64
}

// NewOpenAIClient creates and returns a new OpenAIClient configured with
// the provided parameters.
//
// Example:
//
//	client := openai.NewOpenAIClient(openai.NewOpenAIClientParams{
//		Model:  "gpt-4o-mini",
//		APIKey: os.Getenv("AI_CHAT_KEY"),
//		MaxConcurrentRequests: 15,
//	})
func NewOpenAIClient(params NewOpenAIClientParams) *OpenAIClient {
	limit := params.MaxConcurrentRequests
	if limit < 1 {
		limit = 1
	}

	return &OpenAIClient{
		model:   params.Model,
		baseURL: params.BaseURL,

		reqLock: semaphore.NewWeighted(limit),

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient: newOpenaiClient(params.BaseURL, params.APIKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
