package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

// maxErrorBodySize caps how much of a failed response body ends up in an error.
const maxErrorBodySize = 4 << 10

// httpBackend is the shared request/response loop; each provider supplies an
// adapter for its wire format.
type httpBackend struct {
	kind       domain.ProviderKind
	config     domain.BackendConfig
	httpClient *http.Client
	adapter    providerAdapter
}

type providerAdapter struct {
	endpoint       func(domain.BackendConfig) string
	buildRequest   func(cfg domain.BackendConfig, prompt, systemPrompt string) ([]byte, error)
	parseResponse  func([]byte) (string, error)
	setHeaders     func(*http.Request, domain.BackendConfig)
	transportError func(domain.BackendConfig, error) error
}

func newHTTPBackend(kind domain.ProviderKind, cfg domain.BackendConfig, client *http.Client, adapter providerAdapter) *httpBackend {
	return &httpBackend{
		kind:       kind,
		config:     cfg,
		httpClient: client,
		adapter:    adapter,
	}
}

// Name implements ports.Backend.
func (b *httpBackend) Name() domain.ProviderKind {
	return b.kind
}

// Model returns the model identifier sent with each request.
func (b *httpBackend) Model() string {
	return b.config.Model
}

// Generate implements ports.Backend. It makes exactly one attempt bounded by
// the configured timeout.
func (b *httpBackend) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	if b.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()
	}

	body, err := b.adapter.buildRequest(b.config, prompt, systemPrompt)
	if err != nil {
		return "", &domain.BackendError{Provider: b.kind, Msg: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.adapter.endpoint(b.config), bytes.NewReader(body))
	if err != nil {
		return "", &domain.BackendError{Provider: b.kind, Msg: "build request", Err: err}
	}
	httpReq.Header.Set("content-type", "application/json")
	if b.adapter.setHeaders != nil {
		b.adapter.setHeaders(httpReq, b.config)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &domain.TimeoutError{Operation: fmt.Sprintf("%s request", b.kind), Limit: b.config.Timeout, Err: err}
		}
		if b.adapter.transportError != nil {
			return "", b.adapter.transportError(b.config, err)
		}
		return "", &domain.BackendError{Provider: b.kind, Msg: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := readLimitedBody(resp.Body, maxErrorBodySize)
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if detail != "" {
			msg += ": " + detail
		}
		return "", &domain.BackendError{Provider: b.kind, Msg: msg}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &domain.TimeoutError{Operation: fmt.Sprintf("%s request", b.kind), Limit: b.config.Timeout, Err: err}
		}
		return "", &domain.BackendError{Provider: b.kind, Msg: "read response", Err: err}
	}
	content, err := b.adapter.parseResponse(raw)
	if err != nil {
		return "", &domain.BackendError{Provider: b.kind, Msg: "decode response", Err: err}
	}
	return content, nil
}

func readLimitedBody(body io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit))
	return strings.TrimSpace(string(data)), err
}

var _ ports.Backend = (*httpBackend)(nil)
