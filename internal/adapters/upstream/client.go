// Package upstream trae lotes de eventos desde un feed HTTP externo para sembrar el parque.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dino-park/internal/domain/events"
	"dino-park/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("upstream feed not configured")
	ErrUnauthorized  = errors.New("upstream feed unauthorized")
	ErrUpstream      = errors.New("upstream feed error")
)

type Config struct {
	URL    string
	APIKey string

	// Opcional: nombre del header donde se manda la API key.
	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	url          string
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewClient(cfg Config) *Client {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	return &Client{
		url:          strings.TrimSpace(cfg.URL),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         httpclient.New(cfg.Timeout),
	}
}

// IsConfigured: la API key es opcional, la URL no.
func (c *Client) IsConfigured() bool {
	return c != nil && c.url != ""
}

// FetchEvents descarga el feed. Acepta un arreglo de eventos o {"events": [...]}.
func (c *Client) FetchEvents(ctx context.Context) ([]events.Event, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	var raw json.RawMessage
	err := c.http.DoJSON(ctx, http.MethodGet, c.url, map[string]string{c.apiKeyHeader: c.apiKey}, nil, &raw)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, ErrUnauthorized
		default:
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	evs, err := decodeFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrUpstream, err)
	}
	return evs, nil
}

// decodeFeed decodifica cada evento por separado; uno inválido no tira el feed.
func decodeFeed(raw json.RawMessage) ([]events.Event, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return events.DecodeBatch(trimmed)
	}

	var wrapped struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	return events.DecodeList(wrapped.Events), nil
}
