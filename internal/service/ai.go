package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/timmy/memegen/internal/tool"
)

// AIService wraps an OpenAI-compatible chat-completions endpoint with
// function calling. It decides nothing about memes itself: it forwards the
// prompt together with the advertised tool definitions and hands back
// whatever calls the model chose to make.
type AIService struct {
	client   *resty.Client
	model    string
	endpoint string
	enabled  bool
}

// AIServiceConfig holds configuration for the AI client.
type AIServiceConfig struct {
	Enabled bool
	Model   string
	APIKey  string
	BaseURL string
}

// NewAIService creates a new AI client.
// Parameters:
//   - cfg: client configuration including model and API key.
//
// Returns:
//   - *AIService: initialized client wrapper.
func NewAIService(cfg *AIServiceConfig) *AIService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Set timeout to prevent hanging requests
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &AIService{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
		enabled:  cfg.Enabled && cfg.APIKey != "",
	}
}

// IsConfigured reports whether the client can reach a model.
func (s *AIService) IsConfigured() bool {
	return s.enabled
}

// GetModel returns the model name being used.
func (s *AIService) GetModel() string {
	return s.model
}

// OpenAI-compatible Chat Completion API request/response structures
type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []chatTool    `json:"tools,omitempty"`
	ToolChoice string        `json:"tool_choice,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string          `json:"type"`
	Function tool.Definition `json:"function"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ToolCall is one function invocation chosen by the model. Arguments are
// the raw JSON payload the function-call adapter validates.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ToolResponse is the model's reply: free text and zero or more tool calls.
type ToolResponse struct {
	Text  string
	Calls []ToolCall
}

// GenerateWithTools sends the prompt with the given tool definitions and
// parses any tool calls out of the first choice.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - prompt: user prompt text.
//   - tools: tool definitions to advertise.
//
// Returns:
//   - *ToolResponse: model text plus chosen tool calls.
//   - error: non-nil if the API request fails.
func (s *AIService) GenerateWithTools(ctx context.Context, prompt string, tools []tool.Definition) (*ToolResponse, error) {
	if !s.enabled {
		return nil, fmt.Errorf("AI service is not configured")
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		ToolChoice: "auto",
	}
	for _, t := range tools {
		reqBody.Tools = append(reqBody.Tools, chatTool{Type: "function", Function: t})
	}

	var result chatResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&result).
		Post(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chat completion API error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}
	if result.Error != nil {
		return nil, fmt.Errorf("chat completion API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	msg := result.Choices[0].Message
	out := &ToolResponse{Text: msg.Content}
	for _, call := range msg.ToolCalls {
		if call.Type != "" && call.Type != "function" {
			continue
		}
		out.Calls = append(out.Calls, ToolCall{
			Name:      call.Function.Name,
			Arguments: json.RawMessage(call.Function.Arguments),
		})
	}
	return out, nil
}
