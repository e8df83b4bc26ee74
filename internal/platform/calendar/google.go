package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the Google Calendar events API. It serves two callers:
// meeting scheduling (conference link creation) and the best-effort task
// mirror. A failure here must never undo a committed local write.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

func New(baseURL, accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.accessToken != "" && c.baseURL != ""
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type eventAttendee struct {
	Email string `json:"email"`
}

type conferenceData struct {
	CreateRequest *conferenceCreateRequest `json:"createRequest,omitempty"`
	EntryPoints   []conferenceEntryPoint   `json:"entryPoints,omitempty"`
}

type conferenceCreateRequest struct {
	RequestID             string            `json:"requestId"`
	ConferenceSolutionKey map[string]string `json:"conferenceSolutionKey"`
}

type conferenceEntryPoint struct {
	URI string `json:"uri"`
}

type event struct {
	ID             string          `json:"id,omitempty"`
	Summary        string          `json:"summary"`
	Description    string          `json:"description,omitempty"`
	Start          eventTime       `json:"start"`
	End            eventTime       `json:"end"`
	Attendees      []eventAttendee `json:"attendees,omitempty"`
	ConferenceData *conferenceData `json:"conferenceData,omitempty"`
}

// CreateMeeting inserts a calendar event with a Meet conference attached and
// returns the join URL.
func (c *Client) CreateMeeting(ctx context.Context, title string, start, end time.Time, attendees []string) (string, error) {
	payload := event{
		Summary:   title,
		Start:     eventTime{DateTime: start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:       eventTime{DateTime: end.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		Attendees: toAttendees(attendees),
		ConferenceData: &conferenceData{
			CreateRequest: &conferenceCreateRequest{
				RequestID:             uuid.NewString(),
				ConferenceSolutionKey: map[string]string{"type": "hangoutsMeet"},
			},
		},
	}

	created, err := c.insertEvent(ctx, payload, true)
	if err != nil {
		return "", err
	}
	if created.ConferenceData == nil || len(created.ConferenceData.EntryPoints) == 0 {
		return "", fmt.Errorf("calendar event created without a conference link")
	}
	url := created.ConferenceData.EntryPoints[0].URI
	if url == "" {
		return "", fmt.Errorf("calendar event created without a conference link")
	}
	return url, nil
}

// MirrorEvent inserts a plain calendar event and returns its id.
func (c *Client) MirrorEvent(ctx context.Context, summary, description string, start, end time.Time, attendees []string) (string, error) {
	payload := event{
		Summary:     summary,
		Description: description,
		Start:       eventTime{DateTime: start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:         eventTime{DateTime: end.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		Attendees:   toAttendees(attendees),
	}

	created, err := c.insertEvent(ctx, payload, false)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) insertEvent(ctx context.Context, payload event, withConference bool) (event, error) {
	if !c.Configured() {
		return event{}, fmt.Errorf("calendar client is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return event{}, err
	}

	endpoint := c.baseURL + "/calendars/primary/events"
	if withConference {
		endpoint += "?conferenceDataVersion=1"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return event{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return event{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return event{}, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return event{}, fmt.Errorf("calendar insert returned status %d", resp.StatusCode)
	}

	var created event
	if err := json.Unmarshal(raw, &created); err != nil {
		return event{}, err
	}
	return created, nil
}

func toAttendees(emails []string) []eventAttendee {
	out := make([]eventAttendee, 0, len(emails))
	for _, email := range emails {
		out = append(out, eventAttendee{Email: email})
	}
	return out
}
