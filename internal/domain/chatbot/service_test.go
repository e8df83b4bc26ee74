package chatbot

import (
	"context"
	"strings"
	"testing"

	"workpulse/internal/domain/attendance"
	"workpulse/internal/domain/tasks"
	"workpulse/internal/platform/gemini"
)

type fakeAttendance struct {
	records []attendance.Event
}

func (f fakeAttendance) List(ctx context.Context, userID string, limit, offset int) ([]attendance.Event, error) {
	return f.records, nil
}

func (f fakeAttendance) Count(ctx context.Context, userID string) (int, error) {
	return len(f.records), nil
}

type fakeTasks struct {
	list []tasks.Task
}

func (f fakeTasks) List(ctx context.Context, userID string, limit, offset int) ([]tasks.Task, error) {
	return f.list, nil
}

func (f fakeTasks) Count(ctx context.Context, userID string) (int, error) {
	return len(f.list), nil
}

type fakeSummarizer struct {
	summary gemini.Summary
}

func (f fakeSummarizer) Summarize(ctx context.Context, prompt string) gemini.Summary {
	return f.summary
}

func TestAskRoutesByKeyword(t *testing.T) {
	svc := NewService(
		fakeAttendance{records: []attendance.Event{{ID: "a1"}, {ID: "a2"}}},
		fakeTasks{list: []tasks.Task{{ID: "t1"}}},
		nil,
	)

	reply, err := svc.Ask(context.Background(), "u1", "show my attendance please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reply.Attendance) != 2 || !strings.Contains(reply.Reply, "2 attendance records") {
		t.Fatalf("unexpected attendance reply: %+v", reply)
	}

	reply, err = svc.Ask(context.Background(), "u1", "what tasks do I have?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reply.Tasks) != 1 || !strings.Contains(reply.Reply, "1 tasks") {
		t.Fatalf("unexpected tasks reply: %+v", reply)
	}
}

func TestAskFallback(t *testing.T) {
	svc := NewService(fakeAttendance{}, fakeTasks{}, nil)

	reply, err := svc.Ask(context.Background(), "u1", "what's for lunch?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Reply != FallbackReply {
		t.Fatalf("expected fixed fallback, got %q", reply.Reply)
	}
	if len(reply.Attendance) != 0 || len(reply.Tasks) != 0 {
		t.Fatalf("fallback must carry no records: %+v", reply)
	}
}

func TestDigestDegrades(t *testing.T) {
	svc := NewService(fakeAttendance{}, fakeTasks{}, fakeSummarizer{
		summary: gemini.Summary{Text: gemini.FallbackMessage, Degraded: true, Reason: gemini.DegradedUpstreamError},
	})

	reply := svc.Digest(context.Background(), "admin1")
	if !reply.Degraded || reply.Reply != gemini.FallbackMessage {
		t.Fatalf("expected degraded digest, got %+v", reply)
	}

	svc = NewService(fakeAttendance{}, fakeTasks{}, nil)
	reply = svc.Digest(context.Background(), "admin1")
	if !reply.Degraded {
		t.Fatal("expected degraded digest without a model")
	}
}
