package ai

import (
	"encoding/json"
	"net/http"

	"github.com/doeshing/kaalsec/internal/domain"
)

const (
	openAITemperature = 0.7
	openAIMaxTokens   = 2000
)

// newOpenAIBackend builds the hosted chat-completions variant. The
// credential must be present at construction.
func newOpenAIBackend(cfg domain.BackendConfig, client *http.Client) (*httpBackend, error) {
	if cfg.APIKey == "" {
		env := valueOrDefault(cfg.APIKeyEnv, domain.DefaultOpenAIKeyEnv)
		return nil, &domain.ConfigurationError{Msg: "OpenAI API key not found; set " + env}
	}
	cfg.Endpoint = valueOrDefault(cfg.Endpoint, domain.DefaultOpenAIBaseURL)
	cfg.Model = valueOrDefault(cfg.Model, domain.DefaultOpenAIModel)
	return newHTTPBackend(domain.ProviderOpenAI, cfg, client, openAIAdapter()), nil
}

func openAIAdapter() providerAdapter {
	return providerAdapter{
		endpoint: func(cfg domain.BackendConfig) string {
			return joinURL(cfg.Endpoint, "/chat/completions")
		},
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders: func(req *http.Request, cfg domain.BackendConfig) {
			req.Header.Set("authorization", "Bearer "+cfg.APIKey)
		},
	}
}

func buildChatCompletionRequest(cfg domain.BackendConfig, prompt, systemPrompt string) ([]byte, error) {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})
	return json.Marshal(chatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		MaxTokens:   openAIMaxTokens,
		Temperature: openAITemperature,
	})
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", err
	}
	return decoded.FirstMessage(), nil
}
