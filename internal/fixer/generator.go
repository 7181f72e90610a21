package fixer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoGenerator is reported when no text generator is configured.
var ErrNoGenerator = errors.New("no text generator configured")

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a generation response is read.
const maxResponseBytes = 1 << 20

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// HTTPGenerator calls a text-generation-inference compatible server.
type HTTPGenerator struct {
	endpoint string
	client   *http.Client
}

// NewHTTPGenerator creates a generator for the server at endpoint. A
// non-positive timeout uses DefaultTimeout.
func NewHTTPGenerator(endpoint string, timeout time.Duration) *HTTPGenerator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPGenerator{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Inputs     string `json:"inputs"`
	Parameters Params `json:"parameters"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Generate posts the prompt to {endpoint}/generate.
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	u, err := url.Parse(g.endpoint + "/generate")
	if err != nil {
		return "", fmt.Errorf("invalid generator URL: %w", err)
	}

	body, err := json.Marshal(generateRequest{Inputs: prompt, Parameters: params})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "scry-fixer/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return decodeGenerated(data)
}

// decodeGenerated accepts either a single object or a list of objects.
func decodeGenerated(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var list []generateResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(list) == 0 {
			return "", errors.New("empty generation response")
		}
		return list[0].GeneratedText, nil
	}

	var single generateResponse
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return single.GeneratedText, nil
}
