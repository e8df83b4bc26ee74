package zoom

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Scheduler creates a Zoom meeting and returns its join URL. Two
// implementations exist: the real server-to-server API client and an explicit
// stub. Which one runs is a deployment decision (ZOOM_MODE), never an implicit
// fallback.
type Scheduler interface {
	CreateMeeting(ctx context.Context, topic string, start time.Time) (string, error)
}

// Stub fabricates join URLs without touching the Zoom API.
type Stub struct{}

const stubURLAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func (Stub) CreateMeeting(ctx context.Context, topic string, start time.Time) (string, error) {
	suffix := make([]byte, 5)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(stubURLAlphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = stubURLAlphabet[n.Int64()]
	}
	return "https://zoom.us/fake-" + string(suffix), nil
}

// Client is the real server-to-server OAuth client.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	accountID    string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(baseURL, accountID, clientID, clientSecret string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
		accountID:    accountID,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

type meetingRequest struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Settings  meetingSettings `json:"settings"`
}

type meetingSettings struct {
	JoinBeforeHost bool `json:"join_before_host"`
	WaitingRoom    bool `json:"waiting_room"`
	MuteUponEntry  bool `json:"mute_upon_entry"`
}

type meetingResponse struct {
	JoinURL string `json:"join_url"`
}

func (c *Client) CreateMeeting(ctx context.Context, topic string, start time.Time) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(meetingRequest{
		Topic:     topic,
		Type:      2,
		StartTime: start.UTC().Format(time.RFC3339),
		Duration:  60,
		Timezone:  "UTC",
		Settings:  meetingSettings{WaitingRoom: true, MuteUponEntry: true},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/me/meetings", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("zoom meeting create returned status %d", resp.StatusCode)
	}

	var decoded meetingResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", err
	}
	if decoded.JoinURL == "" {
		return "", fmt.Errorf("zoom meeting created without a join url")
	}
	return decoded.JoinURL, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "account_credentials")
	form.Set("account_id", c.accountID)

	tokenURL := c.tokenEndpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("zoom token request returned status %d", resp.StatusCode)
	}

	var decoded tokenResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", err
	}
	if decoded.AccessToken == "" {
		return "", fmt.Errorf("zoom token response missing access_token")
	}

	c.accessToken = decoded.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(decoded.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

// The production token host differs from the API host; derive it so tests can
// point both at one server.
func (c *Client) tokenEndpoint() string {
	if strings.HasPrefix(c.baseURL, "https://api.zoom.us") {
		return "https://zoom.us/oauth/token"
	}
	return c.baseURL + "/oauth/token"
}
