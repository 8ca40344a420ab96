package realtime

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/taskwall/taskwall/pkg/metrics"
)

// RedisPublisher publishes events over Redis pub/sub, one channel per tenant.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

func NewRedisPublisher(redisURL, prefix string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "connect to redis")
	}

	return &RedisPublisher{client: client, prefix: prefix}, nil
}

// NewRedisPublisherWithClient builds a publisher from an existing client.
func NewRedisPublisherWithClient(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := event.Encode()
	if err != nil {
		return ErrPublishFailed.WithDetails(err.Error())
	}
	channel := ChannelFor(p.prefix, event.TenantID)
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		metrics.EventsPublished.WithLabelValues("redis", "error").Inc()
		return ErrPublishFailed.WithDetails(err.Error())
	}
	metrics.EventsPublished.WithLabelValues("redis", "ok").Inc()
	return nil
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// RedisSubscriber receives events for the websocket gateway.
type RedisSubscriber struct {
	client *redis.Client
	prefix string
}

func NewRedisSubscriberWithClient(client *redis.Client, prefix string) *RedisSubscriber {
	return &RedisSubscriber{client: client, prefix: prefix}
}

// Subscribe listens on a single tenant's channel (or the global channel when
// tenantID is empty). The returned channel closes when ctx is done.
func (s *RedisSubscriber) Subscribe(ctx context.Context, tenantID string) (<-chan Event, error) {
	pubsub := s.client.Subscribe(ctx, ChannelFor(s.prefix, tenantID))
	return s.consume(ctx, pubsub)
}

// SubscribeAll pattern-subscribes to the tenant channels under the prefix and
// the global channel. The returned channel closes when ctx is done.
func (s *RedisSubscriber) SubscribeAll(ctx context.Context) (<-chan Event, error) {
	pubsub := s.client.PSubscribe(ctx, s.prefix, s.prefix+":*")
	return s.consume(ctx, pubsub)
}

func (s *RedisSubscriber) consume(ctx context.Context, pubsub *redis.PubSub) (<-chan Event, error) {
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, errors.Wrap(err, "subscribe")
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				event, err := decodeEvent([]byte(msg.Payload))
				if err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
