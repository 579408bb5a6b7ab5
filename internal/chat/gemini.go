package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultGeminiBaseURL is the Generative Language API endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const geminiTimeout = 30 * time.Second

// GeminiCompleter calls the Generative Language REST API directly.
type GeminiCompleter struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewGeminiCompleter creates a completer for the given model. baseURL may
// be empty to use the public endpoint.
func NewGeminiCompleter(baseURL, apiKey, model string) *GeminiCompleter {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}

	return &GeminiCompleter{
		client:  &http.Client{Timeout: geminiTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends the message as a single-turn prompt and returns the first
// candidate's text.
func (g *GeminiCompleter) Complete(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: message}}}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request: unexpected status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}

	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("completion request: no candidates")
	}

	var sb strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", fmt.Errorf("completion request: empty reply")
	}

	return reply, nil
}
