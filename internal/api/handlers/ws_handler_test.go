package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hirelytics/hirelytics/internal/dashboard"
	"github.com/hirelytics/hirelytics/internal/models"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotApps struct {
	services.ApplicationService
	calls atomic.Int32
}

func (s *snapshotApps) Snapshot(context.Context, string) (services.Snapshot, error) {
	n := int(s.calls.Add(1))
	list := make([]models.JobApplication, n)
	return services.Snapshot{Applications: list, Stats: dashboard.Stats{Total: n}}, nil
}

type chanSubscriber struct {
	ticks chan struct{}
}

func (s chanSubscriber) Subscribe(context.Context, string) (<-chan struct{}, func() error, error) {
	return s.ticks, func() error { return nil }, nil
}

func TestWSHandler_SnapshotOnConnectAndChange(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	apps := &snapshotApps{}
	sub := chanSubscriber{ticks: make(chan struct{}, 1)}
	h := NewWSHandler(apps, sub, log, nil)

	r := gin.New()
	r.GET("/ws/applications", asUser("u1"), h.Applications)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/applications"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg wsServerMsg
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "snapshot", msg.Type)
	require.NotNil(t, msg.Snapshot)
	assert.Equal(t, 1, msg.Snapshot.Stats.Total)

	sub.ticks <- struct{}{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "snapshot", msg.Type)
	assert.Equal(t, 2, msg.Snapshot.Stats.Total)
}

func TestWSHandler_RequiresUser(t *testing.T) {
	h := NewWSHandler(&snapshotApps{}, chanSubscriber{}, logrus.New(), nil)
	r := gin.New()
	r.GET("/ws/applications", asUser(""), h.Applications)

	w := do(r, "GET", "/ws/applications", nil, "")
	assert.Equal(t, 401, w.Code)
}
