package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dshills/routeguard/internal/schema"
)

// openaiAPIURL is a var to allow test overrides via httptest.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIAPIURL returns the current OpenAI API endpoint URL.
// Exposed for use by integration tests via httptest servers.
func OpenAIAPIURL() string { return openaiAPIURL }

// SetOpenAIAPIURL overrides the OpenAI API endpoint URL.
// Intended for use in tests only.
func SetOpenAIAPIURL(u string) { openaiAPIURL = u }

type openaiProvider struct {
	model  string
	apiKey string // unexported; never serialized by encoding/json
}

type openaiRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *openaiFormat   `json:"response_format,omitempty"`
}

type openaiFormat struct {
	Type string `json:"type"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (p *openaiProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	// Only include system message when non-empty to avoid unnecessary token usage.
	var messages []openaiMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, openaiMessage{Role: "user", Content: req.UserPrompt})

	body := openaiRequest{
		Model:          modelFor(p.model, req),
		Messages:       messages,
		ResponseFormat: &openaiFormat{Type: "json_object"},
		Temperature:    temperature(req),
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}

	ex, err := postJSON(ctx, "openai", openaiAPIURL, map[string]string{"Authorization": "Bearer " + p.apiKey}, body)
	if err != nil {
		return nil, err
	}

	var oaiResp openaiResponse
	decodeErr := json.Unmarshal(ex.body, &oaiResp)

	if ex.status != http.StatusOK {
		if decodeErr == nil && oaiResp.Error != nil {
			// OpenAI reports quota exhaustion as code insufficient_quota.
			errType := oaiResp.Error.Type + " " + oaiResp.Error.Code
			return nil, serviceError("openai", ex.status, errType, fmt.Errorf("%s: %s", oaiResp.Error.Type, oaiResp.Error.Message))
		}
		return nil, serviceError("openai", ex.status, "", fmt.Errorf("body: %s", ex.snippet()))
	}
	if decodeErr != nil {
		return nil, ex.notJSON(decodeErr)
	}

	if len(oaiResp.Choices) == 0 || oaiResp.Choices[0].Message.Content == "" {
		return nil, &schema.UpstreamFormatError{Reason: "openai: empty choices in response"}
	}

	return &Response{
		Content: oaiResp.Choices[0].Message.Content,
		Model:   "openai:" + oaiResp.Model,
	}, nil
}
