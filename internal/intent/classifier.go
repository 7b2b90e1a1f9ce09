package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// systemPrompt steers the structured-output API toward the action schema.
const systemPrompt = `Analyze user requests and output JSON with:
1. action (balance/transactions/network)
2. params based on query
Use default values where necessary`

// Classifier turns a chat transcript into a structured intent. The model
// call itself is an external collaborator; implementations only transport.
type Classifier interface {
	Classify(ctx context.Context, messages []Message) (Intent, error)
}

// HTTPClassifier posts the transcript to the external structured-output API
// and reads its NDJSON stream of partial objects.
type HTTPClassifier struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewHTTPClassifier(url, apiKey, model string, client *http.Client) *HTTPClassifier {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClassifier{url: url, apiKey: apiKey, model: model, client: client}
}

type classifyRequest struct {
	Model    string    `json:"model"`
	System   string    `json:"system"`
	Messages []Message `json:"messages"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, messages []Message) (Intent, error) {
	body, err := json.Marshal(classifyRequest{Model: c.model, System: systemPrompt, Messages: messages})
	if err != nil {
		return Intent{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Intent{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Intent{}, fmt.Errorf("classifier http %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return DecodeStream(resp.Body)
}
