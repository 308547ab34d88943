package factory

import (
	"fmt"

	"ship-computer-be/pkg/llm"
	"ship-computer-be/pkg/llm/ollama"
	"ship-computer-be/pkg/llm/openaicompat"
)

// NewLLMProvider resolves the configured backend. "ollama" talks to a
// local Ollama daemon; anything OpenAI-shaped (OpenAI, Gemini's compat
// surface, vLLM, LM Studio) goes through the openaicompat provider.
func NewLLMProvider(providerType, modelName, endpoint, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if endpoint == "" {
			endpoint = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(endpoint, modelName), nil
	case "openai", "openai-compatible", "":
		if endpoint == "" {
			return nil, fmt.Errorf("LLM endpoint required for openai-compatible provider")
		}
		return openaicompat.NewProvider(endpoint, apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
