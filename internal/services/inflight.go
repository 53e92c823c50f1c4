package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hirelytics/hirelytics/internal/utils"
)

// Inflight is the server side of a form's busy flag. While a submit of a
// form is running for a user, an identical resubmit joins that write and
// gets its result; a submit with different content is refused as CONFLICT.
type Inflight struct {
	g singleflight.Group

	mu   sync.Mutex
	busy map[string]*slot
}

type slot struct {
	digest  string
	waiters int
}

func NewInflight() *Inflight { return &Inflight{busy: map[string]*slot{}} }

func inflightDo[T any](f *Inflight, key string, payload any, fn func() (T, error)) (T, error) {
	if f == nil {
		return fn()
	}
	digest, err := payloadDigest(payload)
	if err != nil {
		var zero T
		return zero, utils.E(utils.CodeInternal, "Inflight", "failed to fingerprint submit", err)
	}
	if !f.enter(key, digest) {
		var zero T
		return zero, utils.E(utils.CodeConflict, "Inflight", "A submission is already in progress", nil)
	}
	defer f.leave(key)

	v, err, _ := f.g.Do(key+"|"+digest, func() (any, error) { return fn() })
	t, _ := v.(T)
	return t, err
}

func (f *Inflight) enter(key, digest string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy == nil {
		f.busy = map[string]*slot{}
	}
	s, ok := f.busy[key]
	if !ok {
		f.busy[key] = &slot{digest: digest, waiters: 1}
		return true
	}
	if s.digest != digest {
		return false
	}
	s.waiters++
	return true
}

func (f *Inflight) leave(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.busy[key]; ok {
		s.waiters--
		if s.waiters == 0 {
			delete(f.busy, key)
		}
	}
}

func payloadDigest(payload any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func formKey(uid, form string) string { return uid + "|" + form }
