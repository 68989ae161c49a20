package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/backend/internal/dto"
)

func newTestClient(userID uuid.UUID, name string) *Client {
	return &Client{
		UserID:   userID,
		UserName: name,
		Send:     make(chan []byte, 8),
		rooms:    make(map[uuid.UUID]bool),
	}
}

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	go hub.Run()
	return hub
}

func connect(t *testing.T, hub *Hub, client *Client) {
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.IsUserOnline(client.UserID)
	}, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, client *Client) dto.WSEvent {
	t.Helper()
	select {
	case data := <-client.Send:
		var event dto.WSEvent
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("expected an event, got none")
		return dto.WSEvent{}
	}
}

func assertNothingReceived(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.Send:
		t.Fatalf("expected no event, got: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastToTask_RoomMembersOnly(t *testing.T) {
	hub := startHub(t)
	taskID := uuid.New()

	member := newTestClient(uuid.New(), "Ann")
	other := newTestClient(uuid.New(), "Bob")
	connect(t, hub, member)
	connect(t, hub, other)

	hub.JoinTask(member, taskID)
	require.Equal(t, 1, hub.RoomSize(taskID))

	hub.BroadcastToTask(taskID, dto.WSEvent{Type: dto.WSTypeCommentAdded})

	event := receive(t, member)
	assert.Equal(t, dto.WSTypeCommentAdded, event.Type)
	assertNothingReceived(t, other)
}

func TestBroadcastToTask_IncludesPublisher(t *testing.T) {
	hub := startHub(t)
	taskID := uuid.New()

	publisher := newTestClient(uuid.New(), "Ann")
	listener := newTestClient(uuid.New(), "Bob")
	connect(t, hub, publisher)
	connect(t, hub, listener)
	hub.JoinTask(publisher, taskID)
	hub.JoinTask(listener, taskID)

	hub.BroadcastToTask(taskID, dto.WSEvent{Type: dto.WSTypeCommentAdded})

	assert.Equal(t, dto.WSTypeCommentAdded, receive(t, publisher).Type)
	assert.Equal(t, dto.WSTypeCommentAdded, receive(t, listener).Type)
}

func TestSendToUser_AddressedDelivery(t *testing.T) {
	hub := startHub(t)
	ann := uuid.New()

	laptop := newTestClient(ann, "Ann")
	phone := newTestClient(ann, "Ann")
	bob := newTestClient(uuid.New(), "Bob")
	connect(t, hub, laptop)
	connect(t, hub, phone)
	connect(t, hub, bob)

	hub.SendToUser(ann, dto.WSEvent{Type: dto.WSTypeUserMentioned})

	assert.Equal(t, dto.WSTypeUserMentioned, receive(t, laptop).Type)
	assert.Equal(t, dto.WSTypeUserMentioned, receive(t, phone).Type)
	assertNothingReceived(t, bob)
}

func TestLeaveTask_StopsDelivery(t *testing.T) {
	hub := startHub(t)
	taskID := uuid.New()

	client := newTestClient(uuid.New(), "Ann")
	connect(t, hub, client)
	hub.JoinTask(client, taskID)
	hub.LeaveTask(client, taskID)
	assert.Equal(t, 0, hub.RoomSize(taskID))

	hub.BroadcastToTask(taskID, dto.WSEvent{Type: dto.WSTypeCommentAdded})
	assertNothingReceived(t, client)
}

func TestJoinTask_SecondRoomKeepsFirst(t *testing.T) {
	hub := startHub(t)
	taskA := uuid.New()
	taskB := uuid.New()

	client := newTestClient(uuid.New(), "Ann")
	connect(t, hub, client)
	hub.JoinTask(client, taskA)
	hub.JoinTask(client, taskB)

	hub.BroadcastToTask(taskA, dto.WSEvent{Type: dto.WSTypeCommentAdded})
	assert.Equal(t, dto.WSTypeCommentAdded, receive(t, client).Type)

	hub.BroadcastToTask(taskB, dto.WSEvent{Type: dto.WSTypeCommentDeleted})
	assert.Equal(t, dto.WSTypeCommentDeleted, receive(t, client).Type)
}

func TestUnregister_CleansRoomsAndUserIndex(t *testing.T) {
	hub := startHub(t)
	taskID := uuid.New()
	ann := uuid.New()

	client := newTestClient(ann, "Ann")
	connect(t, hub, client)
	hub.JoinTask(client, taskID)

	hub.unregister <- client
	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(ann)
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 0, hub.RoomSize(taskID))
	_, open := <-client.Send
	assert.False(t, open, "send channel is closed on unregister")
}

func TestBroadcastToTask_SlowConsumerSkipped(t *testing.T) {
	hub := startHub(t)
	taskID := uuid.New()

	slow := &Client{
		UserID:   uuid.New(),
		UserName: "Slow",
		Send:     make(chan []byte), // unbuffered and never drained
		rooms:    make(map[uuid.UUID]bool),
	}
	fast := newTestClient(uuid.New(), "Fast")
	connect(t, hub, slow)
	connect(t, hub, fast)
	hub.JoinTask(slow, taskID)
	hub.JoinTask(fast, taskID)

	hub.BroadcastToTask(taskID, dto.WSEvent{Type: dto.WSTypeCommentAdded})

	// The stuck session must not block delivery to the healthy one.
	assert.Equal(t, dto.WSTypeCommentAdded, receive(t, fast).Type)
}
