package producer

import (
	"context"

	"github.com/RikiBob/test-task-for-dzen-code/internal/telemetry"
)

// Producer publishes telemetry events to a message broker.
type Producer interface {
	Emit(ctx context.Context, event *telemetry.Event) error
	Close() error
}
