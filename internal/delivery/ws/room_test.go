package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
)

func TestRoomManager_CreateRoom(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()

	room, err := rm.CreateRoom(RoomConfig{
		MeetingID: "quick-meet-abcd-1234",
		InviteURL: "http://localhost:8080/join?id=quick-meet-abcd-1234",
		Via:       "create",
		Options:   []usecase.SessionOption{usecase.WithControls(domain.LocalControls{Muted: true})},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if room.Key == "" {
		t.Error("Expected generated room key")
	}
	if room.MeetingID != "quick-meet-abcd-1234" {
		t.Errorf("Expected meeting ID to be kept, got %s", room.MeetingID)
	}

	snap := room.Hub.Snapshot()
	if !snap.Controls.Muted {
		t.Error("Expected session options to be applied")
	}
	if snap.ActiveSpeakerID != 1 {
		t.Errorf("Expected self as active speaker, got %d", snap.ActiveSpeakerID)
	}
	if room.Hub.InviteURL() == "" {
		t.Error("Expected invite URL on hub")
	}
}

func TestRoomManager_CreateRoomInvalid(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()

	if _, err := rm.CreateRoom(RoomConfig{MeetingID: ""}); !errors.Is(err, usecase.ErrEmptyMeetingID) {
		t.Errorf("Expected ErrEmptyMeetingID, got %v", err)
	}
	if rm.RoomCount() != 0 {
		t.Error("Expected failed creation not to register a room")
	}
}

func TestRoomManager_SameMeetingSeparateRooms(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()

	a, _ := rm.CreateRoom(RoomConfig{MeetingID: "shared"})
	b, _ := rm.CreateRoom(RoomConfig{MeetingID: "shared"})

	if a.Key == b.Key {
		t.Fatal("Expected distinct keys")
	}

	a.Hub.Apply(domain.Intent{Type: domain.IntentToggleMute})
	if b.Hub.Snapshot().Controls.Muted {
		t.Error("Expected visitors in the same meeting not to share state")
	}
}

func TestRoomManager_GetRoom(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()

	room, _ := rm.CreateRoom(RoomConfig{MeetingID: "find-me"})

	if found := rm.GetRoom(room.Key); found != room {
		t.Error("Expected found room to be the same instance")
	}
	if rm.GetRoom("invalid-key") != nil {
		t.Error("Expected nil for invalid room key")
	}
}

func TestRoomManager_DeleteRoom(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()

	room, _ := rm.CreateRoom(RoomConfig{MeetingID: "delete-me"})
	rm.DeleteRoom(room.Key)
	rm.DeleteRoom(room.Key) // second delete is a no-op

	if rm.GetRoom(room.Key) != nil {
		t.Error("Expected room to be deleted")
	}
	if room.Hub.Register(newMockClient(room.Hub)) {
		t.Error("Expected deleted room's hub to be stopped")
	}
}

func TestRoomManager_EndCallRemovesRoom(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()

	room, _ := rm.CreateRoom(RoomConfig{MeetingID: "end-me"})
	client := newMockClient(room.Hub)
	room.Hub.Register(client)
	waitForClients(t, room.Hub, 1)

	room.Hub.Submit(client, domain.Intent{Type: domain.IntentEndCall})

	for i := 0; i < 100; i++ {
		if rm.GetRoom(room.Key) == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("Expected ended room to be removed")
}

func TestRoomManager_GracePeriod(t *testing.T) {
	rm := NewRoomManager(WithGracePeriod(20 * time.Millisecond))
	defer rm.Close()

	room, _ := rm.CreateRoom(RoomConfig{MeetingID: "grace"})
	client := newMockClient(room.Hub)
	room.Hub.Register(client)
	waitForClients(t, room.Hub, 1)

	room.Hub.Unregister(client)

	for i := 0; i < 100; i++ {
		if rm.GetRoom(room.Key) == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("Expected room without tabs to be discarded after the grace period")
}

func TestRoomManager_DeleteIfIdle_RegistrationInFlight(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()
	room, _ := rm.CreateRoom(RoomConfig{MeetingID: "joining"})

	// A Register call that has not reached the run loop yet
	room.Hub.mu.Lock()
	room.Hub.joining++
	room.Hub.mu.Unlock()

	if rm.deleteIfIdle(room.Key, 0, time.Now()) {
		t.Fatal("Expected a registering tab to keep the room")
	}
	if rm.GetRoom(room.Key) == nil {
		t.Fatal("Expected room to stay registered")
	}

	room.Hub.mu.Lock()
	room.Hub.joining--
	room.Hub.mu.Unlock()

	if !rm.deleteIfIdle(room.Key, 0, time.Now()) {
		t.Fatal("Expected idle room to be discarded")
	}
	if room.Hub.Register(newMockClient(room.Hub)) {
		t.Error("Expected Register to refuse a discarded room")
	}
}

func TestRoomManager_DeleteIfIdle_KeepsTabs(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()
	room, _ := rm.CreateRoom(RoomConfig{MeetingID: "busy"})
	room.Hub.Register(newMockClient(room.Hub))
	waitForClients(t, room.Hub, 1)

	if rm.deleteIfIdle(room.Key, 0, time.Now().Add(time.Hour)) {
		t.Error("Expected a room with a tab to survive")
	}
}

func TestRoomManager_ReconnectDuringGracePeriod(t *testing.T) {
	for i := 0; i < 50; i++ {
		rm := NewRoomManager(WithGracePeriod(time.Microsecond))
		room, _ := rm.CreateRoom(RoomConfig{MeetingID: "reconnect"})

		first := newMockClient(room.Hub)
		room.Hub.Register(first)
		waitForClients(t, room.Hub, 1)
		room.Hub.Unregister(first)

		// A reload races the grace timer. Either the tab is refused or
		// it gets a live room; never a room that is torn down under it.
		second := newMockClient(room.Hub)
		if room.Hub.Register(second) {
			waitForClients(t, room.Hub, 1)
			time.Sleep(2 * time.Millisecond)
			if rm.GetRoom(room.Key) == nil {
				t.Fatalf("Iteration %d: room discarded with a registered tab", i)
			}
		}
		rm.Close()
	}
}

func TestRoomManager_Sweep(t *testing.T) {
	rm := NewRoomManager(WithTTL(time.Minute))
	defer rm.Close()

	idle, _ := rm.CreateRoom(RoomConfig{MeetingID: "idle"})
	busy, _ := rm.CreateRoom(RoomConfig{MeetingID: "busy"})
	busy.Hub.Register(newMockClient(busy.Hub))
	waitForClients(t, busy.Hub, 1)

	if n := rm.Sweep(time.Now()); n != 0 {
		t.Errorf("Expected nothing swept yet, got %d", n)
	}

	n := rm.Sweep(time.Now().Add(2 * time.Minute))
	if n != 1 {
		t.Errorf("Expected 1 room swept, got %d", n)
	}
	if rm.GetRoom(idle.Key) != nil {
		t.Error("Expected idle room to be swept")
	}
	if rm.GetRoom(busy.Key) == nil {
		t.Error("Expected room with a tab to survive")
	}
}

func TestRoomManager_Concurrency(t *testing.T) {
	rm := NewRoomManager()
	defer rm.Close()

	room, _ := rm.CreateRoom(RoomConfig{MeetingID: "shared"})

	done := make(chan bool)
	for i := 0; i < 100; i++ {
		go func() {
			rm.CreateRoom(RoomConfig{MeetingID: "async"})
			rm.GetRoom(room.Key)
			done <- true
		}()
	}

	for i := 0; i < 100; i++ {
		<-done
	}

	if rm.RoomCount() != 101 {
		t.Errorf("Expected 101 rooms, got %d", rm.RoomCount())
	}
}
