package factory

import (
	"fmt"

	"attention-cv-be/internal/config"
	"attention-cv-be/pkg/llm"
	"attention-cv-be/pkg/llm/anthropic"
	"attention-cv-be/pkg/llm/ollama"
	"attention-cv-be/pkg/llm/openai"
)

func NewLLMProvider(cfg config.AIConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY is empty")
		}
		return openai.NewOpenAIProvider(cfg.OpenAIKey, cfg.Model), nil
	case "azure_openai":
		if cfg.AzureKey == "" || cfg.AzureEndpoint == "" || cfg.AzureDeployment == "" {
			return nil, fmt.Errorf("azure_openai provider selected but azure config is incomplete")
		}
		return openai.NewAzureProvider(cfg.AzureKey, cfg.AzureEndpoint, cfg.AzureDeployment, cfg.AzureAPIVersion), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider selected but ANTHROPIC_API_KEY is empty")
		}
		return anthropic.NewAnthropicProvider(cfg.AnthropicKey, cfg.Model), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
