package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to a slog logger. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "Event",
		"event_id", e.ID,
		"event_type", e.Type,
		"group_id", e.GroupID,
		"subject_id", e.SubjectID,
		"month", e.Month,
		"year", e.Year,
		"amount", e.Amount,
	)
	return nil
}
