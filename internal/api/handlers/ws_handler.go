package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hirelytics/hirelytics/internal/live"
	"github.com/hirelytics/hirelytics/internal/services"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

// WSHandler streams application snapshots to an open dashboard.
type WSHandler struct {
	apps     services.ApplicationService
	sub      live.Subscriber
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(apps services.ApplicationService, sub live.Subscriber, log *logrus.Logger, allowedOrigins []string) *WSHandler {
	allow := map[string]struct{}{}
	for _, o := range allowedOrigins {
		allow[o] = struct{}{}
	}
	return &WSHandler{
		apps: apps,
		sub:  sub,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allow) == 0 {
					return true
				}
				_, ok := allow[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

type wsServerMsg struct {
	Type     string             `json:"type"`
	Snapshot *services.Snapshot `json:"snapshot,omitempty"`
	Code     string             `json:"code,omitempty"`
	Message  string             `json:"message,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// Applications handles GET /ws/applications: one snapshot on connect, then
// one after every change. Changes that land while a snapshot is being sent
// collapse into a single follow-up snapshot.
func (h *WSHandler) Applications(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	ticks, closeSub, err := h.sub.Subscribe(ctx, userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("applications subscribe failed")
		c.JSON(http.StatusServiceUnavailable, APIError{Code: "UNAVAILABLE", Message: "live updates unavailable"})
		return
	}
	defer func() { _ = closeSub() }()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()
	wc := &wsConn{c: conn}

	// reader: only control frames matter; a read error means the client left
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		snap, err := h.apps.Snapshot(ctx, userID)
		if err != nil {
			h.log.WithError(err).WithField("user_id", userID).Warn("snapshot failed")
			return wc.writeJSON(wsServerMsg{Type: "error", Code: "INTERNAL", Message: "failed to load applications"})
		}
		return wc.writeJSON(wsServerMsg{Type: "snapshot", Snapshot: &snap})
	}

	if err := send(); err != nil {
		return
	}

	pinger := time.NewTicker(wsPingPeriod)
	defer pinger.Stop()

	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-pinger.C:
			if err := wc.ping(); err != nil {
				return
			}
		case _, ok := <-ticks:
			if !ok {
				return
			}
			if err := send(); err != nil {
				return
			}
		}
	}
}
