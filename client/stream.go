package client

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"taskflow/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	initialReconnectDelay = time.Second
	maxReconnectDelay     = 30 * time.Second
)

// Stream maintains the live event connection for a controller. After
// every (re)connect it refetches the full task list, since events
// emitted while disconnected are gone for good.
type Stream struct {
	wsURL      string
	token      string
	controller *Controller
	logger     *slog.Logger
	dialer     *websocket.Dialer
}

// NewStream creates a stream feeding the given controller. wsURL is the
// websocket endpoint (e.g. "ws://localhost:8080/api/v1/ws").
func NewStream(wsURL, token string, controller *Controller, logger *slog.Logger) *Stream {
	return &Stream{
		wsURL:      wsURL,
		token:      token,
		controller: controller,
		logger:     logger,
		dialer:     websocket.DefaultDialer,
	}
}

// Run connects and consumes events until the context is cancelled,
// reconnecting with backoff after failures.
func (s *Stream) Run(ctx context.Context) error {
	var delay time.Duration

	for {
		established, err := s.connectAndConsume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay = nextReconnectDelay(delay, established)
		if err != nil {
			s.logger.Warn("Event stream dropped", slog.Any("error", err), slog.Duration("retryIn", delay))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// nextReconnectDelay doubles the wait after each failed attempt, capped
// at maxReconnectDelay. An established connection resets the backoff so
// a drop after hours of healthy streaming retries promptly.
func nextReconnectDelay(current time.Duration, established bool) time.Duration {
	if established || current < initialReconnectDelay {
		return initialReconnectDelay
	}

	next := current * 2
	if next > maxReconnectDelay {
		next = maxReconnectDelay
	}

	return next
}

// connectAndConsume dials, refetches, and reads events until the
// connection drops. established reports whether the connection got far
// enough to serve events, which resets the reconnect backoff.
func (s *Stream) connectAndConsume(ctx context.Context) (bool, error) {
	endpoint, err := url.Parse(s.wsURL)
	if err != nil {
		return false, errors.Wrap(err, "invalid websocket url")
	}
	query := endpoint.Query()
	query.Set("token", s.token)
	endpoint.RawQuery = query.Encode()

	conn, _, err := s.dialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to connect")
	}
	defer conn.Close()

	// The watcher unblocks the read loop on cancellation and exits with
	// its connection, so reconnects do not pile up parked goroutines.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	// The cache is stale after any gap in connectivity.
	if err := s.controller.Refetch(ctx); err != nil {
		return false, err
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return true, errors.Wrap(err, "read failed")
		}

		event, err := realtime.DecodeEvent(frame)
		if err != nil {
			s.logger.Debug("Discarding unparseable event", slog.Any("error", err))

			continue
		}

		s.controller.ApplyEvent(event)
	}
}
