package ws

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
)

// newMockClient creates a client without an actual websocket connection suitable for testing
func newMockClient(hub *Hub) *Client {
	return &Client{
		ID:   uuid.New().String(),
		hub:  hub,
		conn: nil,
		send: make(chan []byte, 256),
	}
}

// newTestHub builds a hub around a seeded session without a room manager
func newTestHub(t *testing.T, opts ...usecase.SessionOption) *Hub {
	t.Helper()
	hub := NewHub(8)
	hub.inviteURL = "http://localhost:8080/join?id=quick-meet-test-0001"
	opts = append(opts, usecase.WithNotifier(hub))
	s, err := usecase.NewSession("quick-meet-test-0001", usecase.SeedRoster(), usecase.SeedTranscript(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	hub.session = s
	return hub
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if hub.ClientCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, got %d", n, hub.ClientCount())
}

// nextOfType reads from the client's queue until a message of the given type arrives
func nextOfType(t *testing.T, c *Client, msgType domain.MessageType) domain.Message {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				t.Fatalf("Send channel closed while waiting for %s", msgType)
			}
			var msg domain.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("Invalid envelope: %v", err)
			}
			if msg.Type == msgType {
				return msg
			}
		case <-timeout:
			t.Fatalf("Timed out waiting for %s", msgType)
		}
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(4)
	if hub.clients == nil {
		t.Error("Clients map not initialized")
	}
	if hub.register == nil || hub.unregister == nil || hub.intents == nil {
		t.Error("Channels not initialized")
	}
	if hub.pending.cap != 4 {
		t.Errorf("Expected notification buffer of 4, got %d", hub.pending.cap)
	}
}

func TestHub_RegisterSendsSnapshot(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()
	defer hub.Stop()

	client := newMockClient(hub)
	hub.Register(client)

	msg := nextOfType(t, client, domain.MessageTypeState)
	var snap domain.SessionSnapshot
	if err := json.Unmarshal(msg.Payload, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.MeetingID != "quick-meet-test-0001" {
		t.Errorf("Expected meeting ID in snapshot, got %s", snap.MeetingID)
	}
	if len(snap.Roster) != 8 || len(snap.Transcript) != 8 {
		t.Errorf("Expected seeded roster and transcript, got %d/%d", len(snap.Roster), len(snap.Transcript))
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()
	defer hub.Stop()

	client := newMockClient(hub)
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Unregister(client)
	waitForClients(t, hub, 0)

	// Double unregister is ignored
	hub.Unregister(client)
	waitForClients(t, hub, 0)
}

func TestHub_ApplyBroadcastsToAllTabs(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()
	defer hub.Stop()

	tab1 := newMockClient(hub)
	tab2 := newMockClient(hub)
	hub.Register(tab1)
	hub.Register(tab2)
	waitForClients(t, hub, 2)
	nextOfType(t, tab1, domain.MessageTypeState)
	nextOfType(t, tab2, domain.MessageTypeState)

	res, err := hub.Apply(domain.Intent{
		Type:    domain.IntentSendMessage,
		Payload: json.RawMessage(`{"text":"hello tabs"}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Message == nil || res.Message.ID != 9 {
		t.Fatalf("Expected message 9, got %+v", res.Message)
	}

	for _, tab := range []*Client{tab1, tab2} {
		msg := nextOfType(t, tab, domain.MessageTypeChat)
		var chat domain.ChatMessage
		json.Unmarshal(msg.Payload, &chat)
		if chat.Text != "hello tabs" {
			t.Errorf("Expected chat text, got %q", chat.Text)
		}
	}
}

func TestHub_NotificationsQueueWithoutTabs(t *testing.T) {
	hub := newTestHub(t)

	res, err := hub.Apply(domain.Intent{Type: domain.IntentToggleRecording})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notifications) != 1 || res.Notifications[0].Text != domain.NoticeRecordingStarted {
		t.Fatalf("Expected recording notification in result, got %+v", res.Notifications)
	}

	pending := hub.DrainNotifications()
	if len(pending) != 1 || pending[0].Text != domain.NoticeRecordingStarted {
		t.Errorf("Expected pending toast, got %+v", pending)
	}
	if len(hub.DrainNotifications()) != 0 {
		t.Error("Expected drain to empty the queue")
	}
}

func TestHub_PendingDeliveredOnRegister(t *testing.T) {
	hub := newTestHub(t)
	hub.Apply(domain.Intent{Type: domain.IntentToggleRecording})

	go hub.Run()
	defer hub.Stop()

	client := newMockClient(hub)
	hub.Register(client)

	msg := nextOfType(t, client, domain.MessageTypeToast)
	var n domain.Notification
	json.Unmarshal(msg.Payload, &n)
	if n.Text != domain.NoticeRecordingStarted {
		t.Errorf("Expected queued toast, got %q", n.Text)
	}
}

func TestHub_SubmitCopyLink(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()
	defer hub.Stop()

	client := newMockClient(hub)
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Submit(client, domain.Intent{Type: domain.IntentCopyLink})

	msg := nextOfType(t, client, domain.MessageTypeLink)
	var link domain.LinkPayload
	json.Unmarshal(msg.Payload, &link)
	if link.URL != hub.inviteURL {
		t.Errorf("Expected invite URL %s, got %s", hub.inviteURL, link.URL)
	}

	toast := nextOfType(t, client, domain.MessageTypeToast)
	var n domain.Notification
	json.Unmarshal(toast.Payload, &n)
	if n.Text != domain.NoticeLinkCopied {
		t.Errorf("Expected %q, got %q", domain.NoticeLinkCopied, n.Text)
	}
}

func TestHub_ApplyCopyLinkRaisesNothing(t *testing.T) {
	hub := newTestHub(t)

	res, err := hub.Apply(domain.Intent{Type: domain.IntentCopyLink})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Notifications) != 0 {
		t.Errorf("Expected no toast outside a tab, got %+v", res.Notifications)
	}
	if pending := hub.DrainNotifications(); len(pending) != 0 {
		t.Errorf("Expected nothing queued, got %+v", pending)
	}
}

func TestHub_SubmitRejectedIntent(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()
	defer hub.Stop()

	client := newMockClient(hub)
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Submit(client, domain.Intent{Type: "teleport"})

	msg := nextOfType(t, client, domain.MessageTypeError)
	var payload domain.ErrorPayload
	json.Unmarshal(msg.Payload, &payload)
	if payload.Error == "" {
		t.Error("Expected error text")
	}
}

func TestHub_EndCall(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()
	defer hub.Stop()

	client := newMockClient(hub)
	hub.Register(client)
	waitForClients(t, hub, 1)

	res, err := hub.Apply(domain.Intent{Type: domain.IntentEndCall})
	if err != nil || !res.Ended {
		t.Fatalf("Expected ended, got %+v %v", res, err)
	}
	nextOfType(t, client, domain.MessageTypeEnded)

	if _, err := hub.Apply(domain.Intent{Type: domain.IntentToggleMute}); !errors.Is(err, usecase.ErrSessionEnded) {
		t.Errorf("Expected ErrSessionEnded after end, got %v", err)
	}
	if hub.Snapshot().Controls.Muted {
		t.Error("Expected rejected toggle to leave state unchanged")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()

	client := newMockClient(hub)
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Stop()
	hub.Stop() // idempotent

	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-client.send:
			if !ok {
				if hub.Register(newMockClient(hub)) {
					t.Error("Expected register on stopped hub to fail")
				}
				return
			}
		case <-timeout:
			t.Fatal("Expected send channel to be closed on stop")
		}
	}
}
