package config

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
	// TickInterval is how often a live game pushes its clock.
	TickInterval time.Duration
	WriteWait    time.Duration
	// ReadLimit caps a single client message in bytes.
	ReadLimit int64
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

func NewWebSocket() (*WebSocket, error) {
	tick, err := time.ParseDuration(envOr("WS_TICK_INTERVAL", "1s"))
	if err != nil {
		return nil, fmt.Errorf("unable to parse WS_TICK_INTERVAL: %w", err)
	}
	if tick <= 0 {
		return nil, fmt.Errorf("WS_TICK_INTERVAL must be positive, got %s", tick)
	}

	readLimit, err := strconv.ParseInt(envOr("WS_READ_LIMIT", "4096"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unable to parse WS_READ_LIMIT: %w", err)
	}

	return &WebSocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(AllowedOrigins()),
		},
		TickInterval: tick,
		WriteWait:    10 * time.Second,
		ReadLimit:    readLimit,
	}, nil
}
