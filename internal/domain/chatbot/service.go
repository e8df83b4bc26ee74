package chatbot

import (
	"context"
	"fmt"
	"strings"

	"workpulse/internal/domain/attendance"
	"workpulse/internal/domain/tasks"
	"workpulse/internal/platform/gemini"
)

// FallbackReply is returned for any query the keyword router cannot place.
const FallbackReply = "Sorry, I didn't understand. Try asking about 'attendance' or 'tasks'."

const recentLimit = 10

type AttendanceSource interface {
	List(ctx context.Context, userID string, limit, offset int) ([]attendance.Event, error)
	Count(ctx context.Context, userID string) (int, error)
}

type TaskSource interface {
	List(ctx context.Context, userID string, limit, offset int) ([]tasks.Task, error)
	Count(ctx context.Context, userID string) (int, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, prompt string) gemini.Summary
}

type Service struct {
	attendance AttendanceSource
	tasks      TaskSource
	ai         Summarizer
}

func NewService(att AttendanceSource, taskSource TaskSource, ai Summarizer) *Service {
	return &Service{attendance: att, tasks: taskSource, ai: ai}
}

type Reply struct {
	Reply      string             `json:"reply"`
	Attendance []attendance.Event `json:"attendance,omitempty"`
	Tasks      []tasks.Task       `json:"tasks,omitempty"`
	Degraded   bool               `json:"degraded,omitempty"`
}

// Ask routes a free-text query by keyword. Unknown queries get the fixed
// fallback reply rather than an error.
func (s *Service) Ask(ctx context.Context, userID, query string) (Reply, error) {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "attendance"):
		records, err := s.attendance.List(ctx, userID, recentLimit, 0)
		if err != nil {
			return Reply{}, err
		}
		total, err := s.attendance.Count(ctx, userID)
		if err != nil {
			return Reply{}, err
		}
		return Reply{
			Reply:      fmt.Sprintf("You have %d attendance records. Here are the most recent.", total),
			Attendance: records,
		}, nil

	case strings.Contains(q, "task"):
		list, err := s.tasks.List(ctx, userID, recentLimit, 0)
		if err != nil {
			return Reply{}, err
		}
		total, err := s.tasks.Count(ctx, userID)
		if err != nil {
			return Reply{}, err
		}
		return Reply{
			Reply: fmt.Sprintf("You have %d tasks. Here are the most recent.", total),
			Tasks: list,
		}, nil
	}

	return Reply{Reply: FallbackReply}, nil
}

// Digest produces an AI summary of today's activity for admin dashboards.
// It degrades to the fixed notice instead of failing.
func (s *Service) Digest(ctx context.Context, userID string) Reply {
	attCount, attErr := s.attendance.Count(ctx, userID)
	taskCount, taskErr := s.tasks.Count(ctx, userID)
	if attErr != nil || taskErr != nil {
		return Reply{Reply: gemini.FallbackMessage, Degraded: true}
	}

	if s.ai == nil {
		return Reply{Reply: gemini.FallbackMessage, Degraded: true}
	}
	summary := s.ai.Summarize(ctx, fmt.Sprintf(
		"Write a one-paragraph workforce digest: %d attendance records and %d tasks on file.", attCount, taskCount))
	return Reply{Reply: summary.Text, Degraded: summary.Degraded}
}
