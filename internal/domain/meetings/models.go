package meetings

import "time"

const (
	PlatformGoogle = "google"
	PlatformZoom   = "zoom"
)

type Meeting struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Platform   string    `json:"platform"`
	Attendees  []string  `json:"attendees"`
	MeetingURL string    `json:"meetingUrl"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
