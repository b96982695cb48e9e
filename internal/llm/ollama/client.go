// Package ollama implements llm.Backend against a local Ollama daemon.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zakahfir/microflow-ai/internal/llm"
)

type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if httpClient == nil {
		// local inference can be slow on CPU
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Model:   c.cfg.Model,
		Prompt:  prompt,
		Stream:  false,
		Format:  "json",
		Options: generateOptions{Temperature: c.cfg.Temperature},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	urlStr := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("%w: ollama status %d: %s",
			llm.ErrBackendUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode ollama response: %v", llm.ErrBackendUnavailable, err)
	}
	return strings.TrimSpace(out.Response), nil
}
