package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"taskflow/internal/domain/entity"
	"taskflow/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStream(serverURL string, ctl *Controller) *Stream {
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http")

	return NewStream(wsURL, "stream-token", ctl, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStream_RefetchesAndAppliesEventsOnConnect(t *testing.T) {
	seeded := sampleTask("From refetch")
	pushed := sampleTask("From event")

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stream-token", r.URL.Query().Get("token"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		frame, err := realtime.EncodeEvent(&realtime.TaskCreated{Task: &pushed})
		require.NoError(t, err)
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
	}))
	defer server.Close()

	api := &fakeAPI{
		listFn: func(ctx context.Context) ([]*entity.Task, error) {
			return []*entity.Task{&seeded}, nil
		},
	}
	ctl := newTestController(api)
	stream := newTestStream(server.URL, ctl)

	established, err := stream.connectAndConsume(context.Background())

	require.Error(t, err)
	assert.True(t, established)

	_, ok := ctl.Task(seeded.ID)
	assert.True(t, ok)
	_, ok = ctl.Task(pushed.ID)
	assert.True(t, ok)
}

func TestStream_WatcherExitsWithConnection(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conn.Close()
	}))
	defer server.Close()

	api := &fakeAPI{
		listFn: func(ctx context.Context) ([]*entity.Task, error) {
			return nil, nil
		},
	}
	ctl := newTestController(api)
	stream := newTestStream(server.URL, ctl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := runtime.NumGoroutine()
	for i := 0; i < 5; i++ {
		established, err := stream.connectAndConsume(ctx)
		require.Error(t, err)
		assert.True(t, established)
	}

	// With the context still live, every per-connection watcher must
	// have exited alongside its connection instead of parking.
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStream_ReconnectDelayDoublesUpToCap(t *testing.T) {
	delay := nextReconnectDelay(0, false)
	assert.Equal(t, initialReconnectDelay, delay)

	delay = nextReconnectDelay(delay, false)
	assert.Equal(t, 2*initialReconnectDelay, delay)

	delay = nextReconnectDelay(delay, false)
	assert.Equal(t, 4*initialReconnectDelay, delay)

	assert.Equal(t, maxReconnectDelay, nextReconnectDelay(maxReconnectDelay, false))
}

func TestStream_ReconnectDelayResetsAfterEstablishedConnection(t *testing.T) {
	assert.Equal(t, initialReconnectDelay, nextReconnectDelay(maxReconnectDelay, true))
}
