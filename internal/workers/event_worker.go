package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hirelytics/hirelytics/internal/live"
	"github.com/hirelytics/hirelytics/internal/models"
	pgrepo "github.com/hirelytics/hirelytics/internal/repositories/postgres"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// StreamClient is the part of the Redis client the pool uses.
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

// EventWorkerPool drains the application change stream into the
// application_events history table.
type EventWorkerPool struct {
	Redis      StreamClient
	Events     pgrepo.EventRepository
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	// ReclaimIdle is how long an entry sits unacked before a consumer takes
	// it over and retries it.
	ReclaimIdle time.Duration
}

func (p *EventWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Events == nil {
		return errors.New("EventWorkerPool missing dependency: Redis/Events must be set")
	}
	if p.Stream == "" {
		p.Stream = live.EventStream
	}
	if p.Group == "" {
		p.Group = "event-writers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.ReclaimIdle <= 0 {
		p.ReclaimIdle = 30 * time.Second
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *EventWorkerPool) runConsumer(ctx context.Context, consumer string) {
	var lastReclaim time.Time
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if time.Since(lastReclaim) >= p.ReclaimIdle {
			p.reclaim(ctx, consumer)
			lastReclaim = time.Now()
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			p.process(ctx, stream.Messages)
		}
	}
}

// reclaim takes over entries that some consumer read but never acked and
// runs them again. It returns how many entries were finished.
func (p *EventWorkerPool) reclaim(ctx context.Context, consumer string) int {
	done := 0
	start := "0-0"
	for {
		msgs, next, err := p.Redis.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   p.Stream,
			Group:    p.Group,
			Consumer: consumer,
			MinIdle:  p.ReclaimIdle,
			Start:    start,
			Count:    10,
		}).Result()
		if err != nil {
			if err != redis.Nil {
				p.Logger.WithError(err).WithField("consumer", consumer).Warn("reclaim pending events failed")
			}
			return done
		}
		done += p.process(ctx, msgs)
		if next == "" || next == "0-0" || len(msgs) == 0 {
			return done
		}
		start = next
	}
}

func (p *EventWorkerPool) process(ctx context.Context, msgs []redis.XMessage) int {
	done := 0
	for _, msg := range msgs {
		if p.handleMsg(ctx, msg) {
			_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			done++
		}
	}
	return done
}

// handleMsg reports whether msg is finished with. A failed insert leaves it
// pending for reclaim; malformed messages are dropped.
func (p *EventWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) bool {
	log := p.Logger.WithField("redis_id", msg.ID)

	ch, err := live.Decode(msg.Values)
	if err != nil {
		log.WithError(err).Warn("dropping change message")
		return true
	}

	ev, err := EventFromChange(msg.ID, ch)
	if err != nil {
		log.WithError(err).Warn("dropping change message")
		return true
	}

	if err := p.Events.Insert(ctx, &ev); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"user_id":        ch.UserID,
			"application_id": ch.ApplicationID,
		}).Error("event insert failed")
		return false
	}
	return true
}

// EventFromChange builds the history row for a stream entry. The row id is
// derived from the entry id, so a redelivered entry maps to the same row.
func EventFromChange(entryID string, ch live.Change) (models.ApplicationEvent, error) {
	payload := []byte("{}")
	if len(ch.Payload) > 0 {
		b, err := json.Marshal(ch.Payload)
		if err != nil {
			return models.ApplicationEvent{}, err
		}
		payload = b
	}
	at := ch.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return models.ApplicationEvent{
		ID:            uuid.NewSHA1(uuid.NameSpaceURL, []byte(live.EventStream+"/"+entryID)).String(),
		UserID:        ch.UserID,
		ApplicationID: ch.ApplicationID,
		Kind:          ch.Kind,
		Payload:       datatypes.JSON(payload),
		At:            at,
	}, nil
}
