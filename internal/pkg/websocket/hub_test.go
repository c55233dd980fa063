package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
)

func newFeedServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	router := gin.New()
	handler := NewHandler(hub, zerolog.Nop())
	router.GET("/ws", handler.HandleConnection)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return hub, server
}

func dialFeed(t *testing.T, server *httptest.Server) *gorilla.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestHub_DeliversEventsToSubscriber(t *testing.T) {
	hub, server := newFeedServer(t)
	conn := dialFeed(t, server)
	waitForSubscribers(t, hub, 1)

	sent := dto.SyncProgressEvent{
		RunID:    "run-1",
		TermCode: "1258",
		Subject:  "CS",
		Stage:    "fetch",
		Detail:   "page 1 fetched, 100 records so far",
		Page:     1,
	}
	hub.PublishSyncEvent(sent)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var received dto.SyncProgressEvent
	require.NoError(t, json.Unmarshal(payload, &received))
	assert.Equal(t, sent, received)
}

func TestHub_FansOutToAllSubscribers(t *testing.T) {
	hub, server := newFeedServer(t)
	first := dialFeed(t, server)
	second := dialFeed(t, server)
	waitForSubscribers(t, hub, 2)

	hub.PublishSyncEvent(dto.SyncProgressEvent{RunID: "run-2", Stage: "finished"})

	for _, conn := range []*gorilla.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(payload), "run-2")
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, server := newFeedServer(t)
	conn := dialFeed(t, server)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)
}

func TestHub_PublishNeverBlocksWithoutSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	// No Run loop draining the channel; the publish path must still return.

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.PublishSyncEvent(dto.SyncProgressEvent{RunID: "run-3", Stage: "fetch"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publishing blocked on a saturated feed")
	}
}
