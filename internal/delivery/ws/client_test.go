package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

func TestNewClient(t *testing.T) {
	hub := NewHub(4)

	client := NewClient(hub, nil)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.ID == "" {
		t.Error("Expected client ID to be generated")
	}
	if client.hub != hub {
		t.Error("Expected client.hub to be the same as input hub")
	}
	if client.send == nil {
		t.Error("Expected client.send channel to be initialized")
	}
}

func TestClient_Send(t *testing.T) {
	client := NewClient(NewHub(4), nil)

	client.Send([]byte("test message"))

	select {
	case received := <-client.send:
		if string(received) != "test message" {
			t.Errorf("Expected 'test message', got %s", string(received))
		}
	default:
		t.Error("Expected message to be in send channel")
	}
}

func TestClient_SendBufferFull(t *testing.T) {
	hub := NewHub(4)
	client := &Client{
		ID:   "small",
		hub:  hub,
		send: make(chan []byte, 2), // Small buffer
	}

	client.Send([]byte("msg1"))
	client.Send([]byte("msg2"))

	// This should not block (buffer full handling)
	client.Send([]byte("msg3"))

	<-client.send
	<-client.send

	select {
	case <-client.send:
		t.Error("Expected no more messages (third should be dropped)")
	default:
	}
}

// TestClient_Pumps drives a real websocket through ReadPump and WritePump
func TestClient_Pumps(t *testing.T) {
	hub := newTestHub(t)
	go hub.Run()
	defer hub.Stop()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Garbage is dropped silently
	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteJSON(domain.Intent{Type: domain.IntentToggleVideo})

	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if strings.Contains(string(data), `"video_off":true`) {
			return
		}
	}
	t.Fatal("Expected a state message with video_off true")
}
