// Package locationfeed forwards accepted fixes to downstream consumers.
package locationfeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adjust/rmq/v5"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/ctdf"
)

type Publisher interface {
	Publish(ctx context.Context, fix ctdf.DeviceFix) error
}

// Discard is used when no feed is configured
type Discard struct{}

func (Discard) Publish(context.Context, ctdf.DeviceFix) error {
	return nil
}

// QueuePublisher pushes every fix as JSON onto an rmq queue
type QueuePublisher struct {
	queue rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection, queueName string) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(queueName)
	if err != nil {
		return nil, fmt.Errorf("open queue %s: %w", queueName, err)
	}

	return &QueuePublisher{queue: queue}, nil
}

func (p *QueuePublisher) Publish(ctx context.Context, fix ctdf.DeviceFix) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("encode fix for %s: %w", fix.DeviceID, err)
	}

	return p.queue.PublishBytes(payload)
}
