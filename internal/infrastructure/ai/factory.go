package ai

import (
	"net/http"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// Factory resolves a backend variant from the provider discriminator.
type Factory struct {
	httpClient *http.Client
}

// NewFactory returns a factory whose backends share one HTTP client. Per-call
// deadlines come from the backend configuration, not the client.
func NewFactory() *Factory {
	return &Factory{httpClient: &http.Client{}}
}

// NewFactoryWithClient is used by tests to inject a client.
func NewFactoryWithClient(client *http.Client) *Factory {
	return &Factory{httpClient: client}
}

// ForConfig implements ports.BackendFactory.
func (f *Factory) ForConfig(cfg domain.BackendConfig) (ports.Backend, error) {
	switch cfg.Provider {
	case domain.ProviderOpenAI:
		backend, err := newOpenAIBackend(cfg, f.httpClient)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case domain.ProviderOllama:
		return newOllamaBackend(cfg, f.httpClient), nil
	default:
		return nil, &domain.ConfigurationError{Msg: "unknown backend provider: " + string(cfg.Provider)}
	}
}

var _ ports.BackendFactory = (*Factory)(nil)
