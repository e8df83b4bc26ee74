package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DegradedReason explains why a summary fell back to the fixed notice
// instead of model output.
type DegradedReason string

const (
	DegradedNotConfigured DegradedReason = "not_configured"
	DegradedUpstreamError DegradedReason = "upstream_error"
	DegradedEmptyReply    DegradedReason = "empty_reply"
)

// FallbackMessage is written whenever the text-generation call fails.
// Delivery is guaranteed; only the message quality degrades.
const FallbackMessage = "System update occurred."

// Summary is the outcome of a summarization attempt. Degraded is explicit so
// callers never have to sniff the text to know whether the model answered.
type Summary struct {
	Text     string
	Degraded bool
	Reason   DegradedReason
}

const defaultModel = "gemini-pro"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      defaultModel,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.baseURL != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate runs one text-generation round trip and returns the first
// candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("text generation is not configured")
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}, Role: "user"}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text generation returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", err
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("text generation returned no candidates")
	}

	text := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("text generation returned empty text")
	}
	return text, nil
}

// Summarize never fails: any problem with the upstream call degrades to
// FallbackMessage with the reason recorded.
func (c *Client) Summarize(ctx context.Context, prompt string) Summary {
	if !c.Configured() {
		return Summary{Text: FallbackMessage, Degraded: true, Reason: DegradedNotConfigured}
	}
	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return Summary{Text: FallbackMessage, Degraded: true, Reason: DegradedUpstreamError}
	}
	if text == "" {
		return Summary{Text: FallbackMessage, Degraded: true, Reason: DegradedEmptyReply}
	}
	return Summary{Text: text}
}
