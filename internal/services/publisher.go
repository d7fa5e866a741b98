package services

import (
	"context"
	"encoding/json"
	"log"

	"webstore/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventPublisher fans image mutation events out to subscribers. Delivery is
// best effort: failures are logged and swallowed so the triggering request
// never fails because of them.
type EventPublisher interface {
	Publish(ctx context.Context, event *models.ImageEvent)
}

type redisPublisher struct {
	client *redis.Client
	topic  string
}

func NewRedisPublisher(client *redis.Client, topic string) EventPublisher {
	return &redisPublisher{client: client, topic: topic}
}

func (p *redisPublisher) Publish(ctx context.Context, event *models.ImageEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("WARN: failed to marshal image event %s: %v", event.EventID, err)
		return
	}
	if err := p.client.Publish(ctx, p.topic, payload).Err(); err != nil {
		log.Printf("WARN: failed to publish image event %s: %v", event.EventID, err)
	}
}
