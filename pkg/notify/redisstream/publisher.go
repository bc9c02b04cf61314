// Package redisstream appends booking events to a Redis stream.
package redisstream

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/artem13815/hr/booking/pkg/booking"
)

// Publisher writes each event with XADD. Entries carry the dedup key so
// consumer groups can drop redeliveries.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func New(client *redis.Client, stream string, maxLen int64) *Publisher {
	if stream == "" {
		stream = "booking-events"
	}
	return &Publisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *Publisher) Name() string { return "redis:" + p.stream }

func (p *Publisher) Publish(ctx context.Context, e booking.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":          string(e.Type),
			"assignment_id": e.AssignmentID.String(),
			"new_status":    string(e.NewStatus),
			"version":       e.Version,
			"dedup_key":     e.DedupKey(),
			"payload":       payload,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	return p.client.XAdd(ctx, args).Err()
}
