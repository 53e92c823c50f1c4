package live

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Subscriber delivers a tick whenever a user's applications change. Ticks
// coalesce: a slow reader sees one pending tick, not a backlog, since each
// tick only means "reload the snapshot".
type Subscriber interface {
	Subscribe(ctx context.Context, uid string) (<-chan struct{}, func() error, error)
}

type RedisSubscriber struct {
	rdb *redis.Client
}

func NewRedisSubscriber(rdb *redis.Client) *RedisSubscriber {
	return &RedisSubscriber{rdb: rdb}
}

func (s *RedisSubscriber) Subscribe(ctx context.Context, uid string) (<-chan struct{}, func() error, error) {
	ps := s.rdb.Subscribe(ctx, ChannelFor(uid))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	ticks := make(chan struct{}, 1)
	go func() {
		defer close(ticks)
		Coalesce(ctx, ps.Channel(), ticks)
	}()
	return ticks, ps.Close, nil
}

// Coalesce forwards one tick per incoming message, dropping a tick when
// one is already pending. It returns when in closes or ctx ends.
func Coalesce[T any](ctx context.Context, in <-chan T, out chan<- struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}
