package zoom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStubFabricatesJoinURL(t *testing.T) {
	url, err := Stub{}.CreateMeeting(context.Background(), "Standup", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "https://zoom.us/fake-") {
		t.Fatalf("unexpected stub url %q", url)
	}
	if len(url) != len("https://zoom.us/fake-")+5 {
		t.Fatalf("expected 5-char suffix, got %q", url)
	}
}

func TestClientCreatesMeeting(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			if r.Header.Get("Authorization") == "" {
				t.Fatal("expected basic auth on token request")
			}
			_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
		case "/users/me/meetings":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				t.Fatalf("expected bearer token, got %q", r.Header.Get("Authorization"))
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"join_url":"https://zoom.us/j/123456"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "acc", "id", "secret")
	url, err := client.CreateMeeting(context.Background(), "Standup", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://zoom.us/j/123456" {
		t.Fatalf("unexpected join url %q", url)
	}

	// Second call must reuse the cached token.
	if _, err := client.CreateMeeting(context.Background(), "Retro", time.Now()); err != nil {
		t.Fatalf("unexpected error on cached token: %v", err)
	}
}

func TestClientSurfacesUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
			return
		}
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "acc", "id", "secret")
	if _, err := client.CreateMeeting(context.Background(), "Standup", time.Now()); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
