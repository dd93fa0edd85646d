package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, event domain.Event) error
}

// Dispatcher hands events to the push pipeline in the background. Delivery
// is best effort: failures are logged and never reach the caller.
type Dispatcher struct {
	publisher EventPublisher
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewDispatcher(publisher EventPublisher, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{publisher: publisher, timeout: timeout}
}

func (d *Dispatcher) Dispatch(event domain.Event) {
	d.wg.Add(1)
	go func(event domain.Event) {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.publisher.PublishEvent(ctx, event); err != nil {
			slog.Error("failed to publish activity event",
				"type", event.Type,
				"activity_id", event.ActivityID,
				"ref_id", event.RefID,
				"error", err.Error(),
			)
		}
	}(event)
}

// Wait blocks until in-flight dispatches finish. Used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
