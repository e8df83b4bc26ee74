package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"workpulse/internal/platform/events"
	"workpulse/internal/platform/gemini"
)

type Summarizer interface {
	Summarize(ctx context.Context, prompt string) gemini.Summary
}

// Bridge turns attendance and task change events into stored notifications.
// The AI summary is decoration: when it cannot be produced the fixed
// fallback text is written instead, so delivery never depends on the
// upstream model.
type Bridge struct {
	bus     *events.Bus
	service *Service
	ai      Summarizer
}

func NewBridge(bus *events.Bus, service *Service, ai Summarizer) *Bridge {
	return &Bridge{bus: bus, service: service, ai: ai}
}

// Start consumes bus events until ctx is cancelled.
func (b *Bridge) Start(ctx context.Context) {
	sub := b.bus.Subscribe(events.TableAttendance, events.TableTasks)
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case change := <-sub.C:
				b.handle(ctx, change)
			}
		}
	}()
}

func (b *Bridge) handle(ctx context.Context, change events.Change) {
	summary := b.summarize(ctx, change)

	ntype := TypeAttendance
	if change.Table == events.TableTasks {
		ntype = TypeTask
	}

	for _, userID := range targets(change) {
		if err := b.service.Create(ctx, userID, ntype, summary.Text, summary.Degraded); err != nil {
			slog.Warn("notification write failed", "table", change.Table, "userId", userID, "err", err)
		}
	}
}

func (b *Bridge) summarize(ctx context.Context, change events.Change) gemini.Summary {
	if b.ai == nil {
		return gemini.Summary{Text: gemini.FallbackMessage, Degraded: true, Reason: gemini.DegradedNotConfigured}
	}
	prompt := fmt.Sprintf("Summarize this %s %s event for an employee notification in one short sentence: %v",
		change.Table, change.EventType, change.Record)
	return b.ai.Summarize(ctx, prompt)
}

// targets picks who gets notified: every assignee of a task change, the
// acting user of an attendance change.
func targets(change events.Change) []string {
	if change.Table == events.TableTasks {
		if assignees, ok := change.Record["assignees"].([]string); ok && len(assignees) > 0 {
			return assignees
		}
		if creator, ok := change.Record["createdBy"].(string); ok && creator != "" {
			return []string{creator}
		}
		return nil
	}
	if userID, ok := change.Record["userId"].(string); ok && userID != "" {
		return []string{userID}
	}
	return nil
}
