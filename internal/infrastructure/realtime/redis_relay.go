package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"medimarket/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisNotifier publishes catalog changes on a Redis channel so every instance's hub sees them.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, change entity.MedicineChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode medicine change: %w", err)
	}
	return n.client.Publish(ctx, n.channel, payload).Err()
}

// Relay forwards messages from the Redis channel to the local hub.
type Relay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	log     *logrus.Logger
}

func NewRelay(client *redis.Client, channel string, hub *Hub, log *logrus.Logger) *Relay {
	return &Relay{client: client, channel: channel, hub: hub, log: log}
}

// Run blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.log.Infof("Relaying medicine changes from %s", r.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.hub.Broadcast([]byte(msg.Payload))
		}
	}
}
