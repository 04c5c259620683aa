package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dshills/routeguard/internal/schema"
)

// anthropicAPIURL is a var to allow test overrides via httptest.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

// AnthropicAPIURL returns the current Anthropic API endpoint URL.
// Exposed for use by integration tests via httptest servers.
func AnthropicAPIURL() string { return anthropicAPIURL }

// SetAnthropicAPIURL overrides the Anthropic API endpoint URL.
// Intended for use in tests only.
func SetAnthropicAPIURL(u string) { anthropicAPIURL = u }

const anthropicVersion = "2023-06-01"

type anthropicProvider struct {
	model  string
	apiKey string // unexported; never serialized by encoding/json
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *anthropicProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body := anthropicRequest{
		Model:       modelFor(p.model, req),
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: req.UserPrompt}},
		Temperature: temperature(req),
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	ex, err := postJSON(ctx, "anthropic", anthropicAPIURL, headers, body)
	if err != nil {
		return nil, err
	}

	var ar anthropicResponse
	decodeErr := json.Unmarshal(ex.body, &ar)

	// Check status code first, then structured error field.
	if ex.status != http.StatusOK {
		if decodeErr == nil && ar.Error != nil {
			return nil, serviceError("anthropic", ex.status, ar.Error.Type, fmt.Errorf("%s: %s", ar.Error.Type, ar.Error.Message))
		}
		return nil, serviceError("anthropic", ex.status, "", fmt.Errorf("body: %s", ex.snippet()))
	}
	if decodeErr != nil {
		return nil, ex.notJSON(decodeErr)
	}

	var sb strings.Builder
	for _, block := range ar.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, &schema.UpstreamFormatError{Reason: fmt.Sprintf("anthropic: no text content in response (got %d content blocks)", len(ar.Content))}
	}

	return &Response{
		Content: sb.String(),
		Model:   "anthropic:" + ar.Model,
	}, nil
}
