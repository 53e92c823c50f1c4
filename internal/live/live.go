// Package live fans application changes out to open dashboards (Redis
// pub/sub) and to the event history writers (Redis stream).
package live

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const EventStream = "applications:events"

func ChannelFor(uid string) string { return "user:" + uid + ":applications" }

// Change describes one write to a user's applications.
type Change struct {
	UserID        string         `json:"userId"`
	ApplicationID string         `json:"applicationId"`
	Kind          string         `json:"kind"`
	Payload       map[string]any `json:"payload,omitempty"`
	At            time.Time      `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, ch Change) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Change) error { return nil }

type RedisNotifier struct {
	rdb redis.Cmdable
}

func NewRedisNotifier(rdb redis.Cmdable) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) Notify(ctx context.Context, ch Change) error {
	if ch.At.IsZero() {
		ch.At = time.Now().UTC()
	}
	values, err := Encode(ch)
	if err != nil {
		return err
	}

	pubErr := n.rdb.Publish(ctx, ChannelFor(ch.UserID), ch.Kind).Err()
	addErr := n.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: EventStream,
		MaxLen: 100000,
		Approx: true,
		Values: values,
	}).Err()
	return errors.Join(pubErr, addErr)
}

// Encode flattens a Change into stream field values.
func Encode(ch Change) (map[string]any, error) {
	payload := []byte("{}")
	if len(ch.Payload) > 0 {
		b, err := json.Marshal(ch.Payload)
		if err != nil {
			return nil, err
		}
		payload = b
	}
	return map[string]any{
		"user_id":        ch.UserID,
		"application_id": ch.ApplicationID,
		"kind":           ch.Kind,
		"payload":        string(payload),
		"ts_unix_ms":     strconv.FormatInt(ch.At.UnixMilli(), 10),
	}, nil
}

var ErrMalformed = errors.New("malformed change message")

// Decode is the inverse of Encode for values read back off the stream.
func Decode(values map[string]any) (Change, error) {
	get := func(k string) string {
		s, _ := values[k].(string)
		return s
	}

	ch := Change{
		UserID:        get("user_id"),
		ApplicationID: get("application_id"),
		Kind:          get("kind"),
	}
	if ch.UserID == "" || ch.ApplicationID == "" || ch.Kind == "" {
		return Change{}, ErrMalformed
	}
	if p := get("payload"); p != "" && p != "{}" {
		if err := json.Unmarshal([]byte(p), &ch.Payload); err != nil {
			return Change{}, ErrMalformed
		}
	}
	if ms, err := strconv.ParseInt(get("ts_unix_ms"), 10, 64); err == nil {
		ch.At = time.UnixMilli(ms).UTC()
	}
	return ch, nil
}
