package factory

import (
	"fmt"

	"chainchat-be/pkg/llm"
	"chainchat-be/pkg/llm/gemini"
	"chainchat-be/pkg/llm/ollama"
	"chainchat-be/pkg/llm/openai"
)

// NewLLMProvider selects the chat backend from configuration.
func NewLLMProvider(providerType, modelName, ollamaBaseURL, openAIKey, geminiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(openAIKey, "", modelName), nil
	case "gemini":
		return gemini.NewGeminiProvider(geminiKey, modelName), nil
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
