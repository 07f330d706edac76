package brackets

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()
	return hub
}

func registerClient(t *testing.T, hub *Hub, room string, buffer int) *Client {
	t.Helper()
	client := &Client{
		Hub:  hub,
		Send: make(chan []byte, buffer),
		Room: room,
	}
	hub.Register <- client

	// Регистрация асинхронная; дождёмся, пока комната появится.
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		_, ok := hub.rooms[room][client]
		hub.mu.RUnlock()
		if ok {
			return client
		}
		if time.Now().After(deadline) {
			t.Fatalf("client was not registered in room %s", room)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHub_BroadcastToRoom(t *testing.T) {
	hub := newTestHub()
	subscriber := registerClient(t, hub, "stage_1", 4)
	outsider := registerClient(t, hub, "stage_2", 4)

	hub.BroadcastToRoom("stage_1", StageEvent{
		Type:    EventMatchUpdated,
		Payload: map[string]int{"match_id": 10},
	})

	select {
	case raw := <-subscriber.Send:
		var event StageEvent
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, EventMatchUpdated, event.Type)
		assert.Equal(t, "stage_1", event.RoomID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case <-outsider.Send:
		t.Fatal("event leaked into another room")
	default:
	}
}

func TestHub_BroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := newTestHub()

	// Ни подписчиков, ни комнаты — рассылка просто ничего не делает.
	hub.BroadcastToRoom("stage_42", StageEvent{Type: EventBracketUpdated})
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	hub := newTestHub()
	slow := registerClient(t, hub, "stage_1", 1)

	hub.BroadcastToRoom("stage_1", StageEvent{Type: EventMatchUpdated})
	hub.BroadcastToRoom("stage_1", StageEvent{Type: EventStandingsUpdated})

	// Первый кадр дошёл, второй отброшен из-за переполненного канала.
	assert.Len(t, slow.Send, 1)
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := newTestHub()
	client := registerClient(t, hub, "stage_1", 1)

	hub.Unregister <- client

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on unregister")
	}

	hub.mu.RLock()
	_, roomExists := hub.rooms["stage_1"]
	hub.mu.RUnlock()
	assert.False(t, roomExists)
}
