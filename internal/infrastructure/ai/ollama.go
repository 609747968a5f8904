package ai

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"syscall"

	"github.com/doeshing/kaalsec/internal/domain"
)

const ollamaHint = "Make sure Ollama is running: 'ollama serve'"

// newOllamaBackend builds the local-server variant. No credential is sent.
func newOllamaBackend(cfg domain.BackendConfig, client *http.Client) *httpBackend {
	cfg.Endpoint = valueOrDefault(cfg.Endpoint, domain.DefaultOllamaHost)
	cfg.Model = valueOrDefault(cfg.Model, domain.DefaultOllamaModel)
	return newHTTPBackend(domain.ProviderOllama, cfg, client, ollamaAdapter())
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		endpoint: func(cfg domain.BackendConfig) string {
			return joinURL(cfg.Endpoint, "/api/generate")
		},
		buildRequest:   buildGenerateRequest,
		parseResponse:  parseGenerateResponse,
		transportError: ollamaTransportError,
	}
}

// buildGenerateRequest folds the system prompt in front of the user prompt,
// separated by a blank line.
func buildGenerateRequest(cfg domain.BackendConfig, prompt, systemPrompt string) ([]byte, error) {
	if systemPrompt != "" {
		prompt = systemPrompt + "\n\n" + prompt
	}
	return json.Marshal(generateRequest{
		Model:  cfg.Model,
		Prompt: prompt,
		Stream: false,
	})
}

func parseGenerateResponse(body []byte) (string, error) {
	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", err
	}
	return decoded.Response, nil
}

func ollamaTransportError(cfg domain.BackendConfig, err error) error {
	if isConnectFailure(err) {
		return &domain.BackendError{
			Provider:    domain.ProviderOllama,
			Msg:         "could not connect to Ollama at " + cfg.Endpoint,
			Unreachable: true,
			Hint:        ollamaHint,
			Err:         err,
		}
	}
	return &domain.BackendError{Provider: domain.ProviderOllama, Msg: "request failed", Err: err}
}

func isConnectFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
