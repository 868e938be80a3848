package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisQueueChannelPrefix is followed by the queue date (yyyy-MM-dd)
const RedisQueueChannelPrefix = "queue:updates:"

// QueueNotifier broadcasts "the appointments of this day changed" across instances.
type QueueNotifier interface {
	Publish(ctx context.Context, date string)
	// Subscribe returns once the subscription is active, so a change published after it
	// returns is never missed. It delivers one signal per change until ctx is done or
	// the returned stop is called.
	Subscribe(ctx context.Context, date string) (<-chan struct{}, func(), error)
}

type redisQueueNotifier struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewQueueNotifier(redisClient *redis.Client, log *logrus.Logger) QueueNotifier {
	return &redisQueueNotifier{
		redisClient: redisClient,
		log:         log,
	}
}

func (n *redisQueueNotifier) Publish(ctx context.Context, date string) {
	if err := n.redisClient.Publish(context.WithoutCancel(ctx), RedisQueueChannelPrefix+date, "changed").Err(); err != nil {
		n.log.Warnf("Failed to publish queue update for %s: %+v", date, err)
	}
}

func (n *redisQueueNotifier) Subscribe(ctx context.Context, date string) (<-chan struct{}, func(), error) {
	pubsub := n.redisClient.Subscribe(ctx, RedisQueueChannelPrefix+date)
	// Wait for the subscribe confirmation; until then Redis drops publishes for us.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		n.log.Warnf("Failed to subscribe to queue updates for %s: %+v", date, err)
		return nil, nil, err
	}

	signals := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(signals)
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				// Coalesce bursts: a pending signal already means "recompute".
				select {
				case signals <- struct{}{}:
				default:
				}
			}
		}
	}()

	stop := func() {
		select {
		case <-done:
		default:
			close(done)
		}
		if err := pubsub.Close(); err != nil {
			n.log.Debugf("Failed to close queue subscription: %+v", err)
		}
	}
	return signals, stop, nil
}
