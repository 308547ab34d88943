// Package openaicompat speaks the OpenAI-style chat-completions dialect
// used by vLLM, Ollama and hosted endpoints alike.
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ship-computer-be/pkg/llm"
)

// RequestTimeout is the model round-trip budget. A request exceeding it is
// terminal for that command; there are no retries.
const RequestTimeout = 30 * time.Second

type Provider struct {
	Endpoint  string
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure Provider implements LLMProvider
var _ llm.LLMProvider = &Provider{}

func NewProvider(baseURL, apiKey, modelName string) *Provider {
	return &Provider{
		Endpoint:  ResolveEndpoint(baseURL),
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: RequestTimeout,
		},
	}
}

// ResolveEndpoint normalizes a configured base URL into a full
// chat-completions endpoint. Full endpoints pass through; "/v1" style
// bases and hosted APIs get "/chat/completions"; bare hosts (standard
// vLLM, Ollama) get "/v1/chat/completions".
func ResolveEndpoint(base string) string {
	base = strings.TrimSuffix(base, "/")
	switch {
	case strings.HasSuffix(base, "/chat/completions"):
		return base
	case strings.HasSuffix(base, "/v1"),
		strings.Contains(base, "googleapis.com"),
		strings.Contains(base, "openai.com"):
		return base + "/chat/completions"
	default:
		return base + "/v1/chat/completions"
	}
}

// --- Request/Response structs (Internal to this package) ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// --- Interface Implementation ---

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]chatMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = chatMessage{Role: role, Content: msg.Content}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: options.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	// Reuse Chat for simplicity as most new LLMs are chat-optimized
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
