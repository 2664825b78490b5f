package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BookingChannel carries booking events between API instances.
const BookingChannel = "bookings:events"

// NewRedis returns nil when addr is empty; callers treat a nil client as
// "Redis disabled".
func NewRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Broker publishes events to a Redis channel and relays the channel into the
// local hub, so every instance's dashboards see every event. Without Redis it
// broadcasts straight to the hub.
type Broker struct {
	hub     *Hub
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

func NewBroker(hub *Hub, rdb *redis.Client, channel string, logger *zap.Logger) *Broker {
	return &Broker{hub: hub, rdb: rdb, channel: channel, logger: logger.Named("Broker")}
}

func (b *Broker) Publish(ctx context.Context, payload interface{}) error {
	if b.rdb == nil {
		return b.hub.BroadcastJSON(payload)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, data).Err()
}

// Run relays channel messages into the hub until ctx is done.
func (b *Broker) Run(ctx context.Context) {
	if b.rdb == nil {
		return
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	b.logger.Info("Subscribed to booking events", zap.String("channel", b.channel))
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.hub.Broadcast([]byte(msg.Payload))
		}
	}
}
