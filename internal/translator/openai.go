package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerOpenAI = "openai"

// OpenAIConfig configures any OpenAI compatible chat completion endpoint.
type OpenAIConfig struct {
	APIKey      string
	APIURL      string
	Model       string
	Temperature float64
	Timeout     int
}

// Validate validates the configuration
func (c OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// OpenAI translates one sentence per chat completion.
type OpenAI struct {
	config OpenAIConfig
	client openai.Client
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(time.Duration(cfg.Timeout) * time.Second),
		// retries are handled by Retrying so failures surface once per attempt
		option.WithMaxRetries(0),
	}
	if cfg.APIURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIURL))
	}

	return &OpenAI{
		config: cfg,
		client: openai.NewClient(opts...),
	}, nil
}

func (o *OpenAI) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildPrompt(sourceLang, targetLang)),
			openai.UserMessage(text),
		},
		Model:       o.config.Model,
		Temperature: openai.Float(o.config.Temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &ServiceError{
				Provider:   providerOpenAI,
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Error(),
			}
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func buildPrompt(sourceLang, targetLang string) string {
	var prompt strings.Builder
	prompt.WriteString("You are a professional subtitle translator. ")
	prompt.WriteString(fmt.Sprintf("Translate the user's sentence from %s to %s.\n", sourceLang, targetLang))
	prompt.WriteString("Return ONLY the translated sentence on a single line.\n")
	prompt.WriteString("Do not add quotes, notes, explanations or line breaks.")
	return prompt.String()
}
