package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateMeetingReturnsConferenceLink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			t.Fatalf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("conferenceDataVersion") != "1" {
			t.Fatal("expected conferenceDataVersion=1")
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if payload["summary"] != "Sprint Sync" {
			t.Fatalf("unexpected summary %v", payload["summary"])
		}
		_, _ = w.Write([]byte(`{"id":"ev1","conferenceData":{"entryPoints":[{"uri":"https://meet.google.com/abc-defg-hij"}]}}`))
	}))
	defer ts.Close()

	client := New(ts.URL, "token-1")
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	url, err := client.CreateMeeting(context.Background(), "Sprint Sync", start, start.Add(time.Hour), []string{"a@x.com", "b@x.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://meet.google.com/abc-defg-hij" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestCreateMeetingFailsWithoutConferenceLink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"ev1"}`))
	}))
	defer ts.Close()

	client := New(ts.URL, "token-1")
	start := time.Now()
	if _, err := client.CreateMeeting(context.Background(), "No Link", start, start.Add(time.Hour), []string{"a@x.com"}); err == nil {
		t.Fatal("expected error when response has no conference link")
	}
}

func TestMirrorEventReturnsID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Fatalf("mirror insert should not request conference data, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id":"mirror-1"}`))
	}))
	defer ts.Close()

	client := New(ts.URL, "token-1")
	start := time.Now()
	id, err := client.MirrorEvent(context.Background(), "Task", "desc", start, start.Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "mirror-1" {
		t.Fatalf("unexpected event id %q", id)
	}
}

func TestUnconfiguredClientFails(t *testing.T) {
	client := New("", "")
	start := time.Now()
	if _, err := client.CreateMeeting(context.Background(), "x", start, start.Add(time.Hour), nil); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}
