package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/orderdesk-app/utils"
)

func TestSubscribeReceivesPayload(t *testing.T) {
	utils.InitLogger()
	hub := NewHub()

	var got []byte
	done := make(chan struct{})
	hub.Subscribe(TopicOrdersUpdated, func(data []byte) {
		got = data
		close(done)
	})

	hub.Broadcast(TopicOrdersUpdated, map[string]string{"id": "o1"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}

	var payload map[string]string
	assert.NoError(t, json.Unmarshal(got, &payload))
	assert.Equal(t, "o1", payload["id"])
}

func TestHandlersOnlyFireForTheirTopic(t *testing.T) {
	utils.InitLogger()
	hub := NewHub()

	calls := 0
	hub.Subscribe(TopicOrdersDeleted, func([]byte) { calls++ })

	hub.Broadcast(TopicOrdersCreated, map[string]string{"id": "o1"})
	hub.Broadcast(TopicNotifications, map[string]string{"message": "hi"})
	assert.Zero(t, calls)

	hub.Broadcast(TopicOrdersDeleted, "o1")
	assert.Equal(t, 1, calls)
}

func TestWebsocketClientReceivesTopicMessages(t *testing.T) {
	utils.InitLogger()
	hub := NewHub()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		assert.NoError(t, err)
		hub.RegisterClient(conn, "admin", []string{TopicOrdersUpdated})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	defer conn.Close()

	// give the register a moment to land
	assert.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	// a message off-topic is not delivered, the on-topic one is
	hub.Broadcast(TopicOrdersCreated, map[string]string{"id": "skip"})
	hub.Broadcast(TopicOrdersUpdated, map[string]string{"id": "o1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	assert.NoError(t, err)

	var msg Message
	assert.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, TopicOrdersUpdated, msg.Topic)
}
