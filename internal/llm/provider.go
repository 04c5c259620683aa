package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dshills/routeguard/internal/schema"
)

// sharedHTTPClient is used by all providers; a 5-minute timeout covers slow LLM responses.
var sharedHTTPClient = &http.Client{
	Timeout: 5 * time.Minute,
}

// defaultMaxTokens is the fallback when Request.MaxTokens is not set.
const defaultMaxTokens = 8192

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 10 * 1024 * 1024 // 10 MiB

// Request holds the parameters for an LLM completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	// Model overrides the provider's configured model when non-empty.
	Model string
}

// Response holds the result of an LLM completion call.
type Response struct {
	Content string
	Model   string // actual model used, echoed back for meta
}

// Provider is the interface for LLM completion backends. Implementations
// return *schema.UpstreamServiceError when the call fails and
// *schema.UpstreamFormatError when the reply cannot be decoded.
type Provider interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// NewProvider parses a "provider:model" string and returns the appropriate Provider.
// The API key is read from the environment at construction time and validated immediately.
// Example: "anthropic:claude-sonnet-4-6" or "openai:gpt-4o".
func NewProvider(providerModel string) (Provider, error) {
	parts := strings.SplitN(providerModel, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid model format %q: expected provider:model (e.g. anthropic:claude-sonnet-4-6)", providerModel)
	}
	switch parts[0] {
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		return &anthropicProvider{model: parts[1], apiKey: apiKey}, nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return &openaiProvider{model: parts[1], apiKey: apiKey}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: supported providers are anthropic, openai", parts[0])
	}
}

// serviceError classifies a failed HTTP exchange. errType is the provider's
// structured error type when one was returned.
func serviceError(provider string, status int, errType string, cause error) *schema.UpstreamServiceError {
	t := strings.ToLower(errType)
	kind := schema.UpstreamTransport
	switch {
	case status == http.StatusTooManyRequests,
		strings.Contains(t, "rate_limit"),
		strings.Contains(t, "quota"):
		kind = schema.UpstreamQuota
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		strings.Contains(t, "authentication"),
		strings.Contains(t, "permission"),
		strings.Contains(t, "invalid_api_key"):
		kind = schema.UpstreamAuth
	}
	return &schema.UpstreamServiceError{Kind: kind, Provider: provider, StatusCode: status, Err: cause}
}

// transportError wraps a failure that produced no HTTP response.
func transportError(provider string, cause error) *schema.UpstreamServiceError {
	return &schema.UpstreamServiceError{Kind: schema.UpstreamTransport, Provider: provider, Err: cause}
}

// exchange is the raw outcome of one upstream round trip.
type exchange struct {
	provider string
	status   int
	body     []byte
}

// snippet is a short prefix of the body for error messages.
func (e *exchange) snippet() string { return truncate(string(e.body), 200) }

// notJSON reports a 200 reply whose body could not be decoded.
func (e *exchange) notJSON(err error) *schema.UpstreamFormatError {
	return &schema.UpstreamFormatError{Reason: fmt.Sprintf("%s response is not JSON (body: %s)", e.provider, e.snippet()), Err: err}
}

// postJSON sends payload to url with headers and reads at most maxBodyBytes
// of the reply. Only failures without an HTTP response are returned as errors.
func postJSON(ctx context.Context, provider, url string, headers map[string]string, payload any) (*exchange, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := sharedHTTPClient.Do(httpReq)
	if err != nil {
		return nil, transportError(provider, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(provider, fmt.Errorf("reading response body: %w", err))
	}
	return &exchange{provider: provider, status: resp.StatusCode, body: respBytes}, nil
}

// modelFor picks the per-request model override when set.
func modelFor(configured string, req *Request) string {
	if req.Model != "" {
		return req.Model
	}
	return configured
}

// temperature returns nil for a zero temperature so the provider default applies.
func temperature(req *Request) *float64 {
	if req.Temperature == 0 {
		return nil
	}
	t := req.Temperature
	return &t
}
