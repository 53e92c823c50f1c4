package live

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	in := Change{
		UserID:        "u1",
		ApplicationID: "3",
		Kind:          "status_changed",
		Payload:       map[string]any{"status": "Interview"},
		At:            at,
	}

	values, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, "user:u1:applications", ChannelFor("u1"))

	out, err := Decode(values)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(map[string]any{"user_id": "u1"})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode(map[string]any{"user_id": "u", "application_id": "a", "kind": "k", "payload": "{"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCoalesce(t *testing.T) {
	in := make(chan int, 5)
	out := make(chan struct{}, 1)
	for i := 0; i < 5; i++ {
		in <- i
	}
	close(in)

	Coalesce(context.Background(), in, out)
	assert.Len(t, out, 1)
}

func TestCoalesce_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Coalesce(ctx, make(chan int), make(chan struct{}, 1))
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Coalesce did not return")
	}
}
