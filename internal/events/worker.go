package events

import (
	"context"
	"log/slog"
	"sync"
)

// Worker hands events to a Publisher on a background goroutine.
type Worker struct {
	eventCh   chan Event
	publisher Publisher
	logger    *slog.Logger
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	stopOnce  sync.Once
}

var _ Emitter = (*Worker)(nil)

func NewWorker(publisher Publisher, bufferSize int, logger *slog.Logger) *Worker {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		eventCh:   make(chan Event, bufferSize),
		publisher: publisher,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				w.logger.Info("Draining events before shutdown", "remaining_events", len(w.eventCh))
				for {
					select {
					case event := <-w.eventCh:
						w.publish(context.Background(), event)
					default:
						return
					}
				}
			case event := <-w.eventCh:
				w.publish(w.ctx, event)
			}
		}
	}()
}

func (w *Worker) publish(ctx context.Context, event Event) {
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.logger.Error("Failed to publish event", "error", err, "event_type", event.Type, "event_id", event.ID)
	}
}

// Emit queues an event. When the buffer is full the event is dropped.
func (w *Worker) Emit(event Event) {
	select {
	case w.eventCh <- event:
	default:
		w.logger.Warn("Event channel full, dropping event", "event_type", event.Type, "event_id", event.ID)
	}
}

// Stop waits for queued events to be published. Events emitted afterwards are dropped.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		w.wg.Wait()
	})
}
