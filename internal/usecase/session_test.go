package usecase

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

type recordingNotifier struct {
	got []domain.Notification
}

func (r *recordingNotifier) Notify(n domain.Notification) {
	r.got = append(r.got, n)
}

func twoPersonRoster() []domain.Participant {
	return []domain.Participant{
		{ID: 1, DisplayName: "You", IsSelf: true, IsMuted: false},
		{ID: 2, DisplayName: "John Doe", IsMuted: true},
	}
}

func newTestSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	s, err := NewSession("quick-meet-test-0001", twoPersonRoster(), nil, opts...)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

func assertSpeakerInRoster(t *testing.T, s *Session) {
	t.Helper()
	for _, p := range s.Roster() {
		if p.ID == s.ActiveSpeakerID() {
			return
		}
	}
	t.Fatalf("Active speaker %d is not in the roster", s.ActiveSpeakerID())
}

func TestNewSession_Defaults(t *testing.T) {
	s := newTestSession(t)

	if s.MeetingID() != "quick-meet-test-0001" {
		t.Errorf("Expected meeting ID to be kept, got %s", s.MeetingID())
	}
	if s.ActiveSpeakerID() != 1 {
		t.Errorf("Expected active speaker to be self (1), got %d", s.ActiveSpeakerID())
	}
	if s.State() != domain.SessionStateActive {
		t.Errorf("Expected active state, got %s", s.State())
	}
	if s.Controls() != (domain.LocalControls{}) {
		t.Errorf("Expected all controls false, got %+v", s.Controls())
	}
	if len(s.Transcript()) != 0 {
		t.Errorf("Expected empty transcript, got %d", len(s.Transcript()))
	}
	assertSpeakerInRoster(t, s)
}

func TestNewSession_InvalidSeed(t *testing.T) {
	tests := []struct {
		name      string
		meetingID string
		roster    []domain.Participant
		want      error
	}{
		{"Empty meeting ID", "", twoPersonRoster(), ErrEmptyMeetingID},
		{"Blank meeting ID", "   ", twoPersonRoster(), ErrEmptyMeetingID},
		{"No self", "m", []domain.Participant{{ID: 1, DisplayName: "A"}}, ErrSelfParticipant},
		{"Two selves", "m", []domain.Participant{
			{ID: 1, DisplayName: "A", IsSelf: true},
			{ID: 2, DisplayName: "B", IsSelf: true},
		}, ErrSelfParticipant},
		{"Duplicate IDs", "m", []domain.Participant{
			{ID: 1, DisplayName: "A", IsSelf: true},
			{ID: 1, DisplayName: "B"},
		}, ErrDuplicateParticipant},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSession(tc.meetingID, tc.roster, nil)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNewSession_CopiesSeed(t *testing.T) {
	roster := twoPersonRoster()
	transcript := SeedTranscript()
	s, err := NewSession("m", roster, transcript)
	if err != nil {
		t.Fatal(err)
	}

	roster[1].DisplayName = "Changed"
	transcript[0].Text = "Changed"

	if s.Roster()[1].DisplayName != "John Doe" {
		t.Error("Expected roster to be copied at creation")
	}
	if s.Transcript()[0].Text == "Changed" {
		t.Error("Expected transcript to be copied at creation")
	}
}

func TestNewSession_SeededControls(t *testing.T) {
	s := newTestSession(t, WithControls(domain.LocalControls{Muted: true, VideoOff: true}))

	if !s.Controls().Muted || !s.Controls().VideoOff {
		t.Errorf("Expected seeded controls, got %+v", s.Controls())
	}
	if !s.Self().IsMuted {
		t.Error("Expected self participant to mirror the seeded mute")
	}
}

func TestNewSession_SelfName(t *testing.T) {
	s := newTestSession(t, WithSelfName("  Alice  "))
	if s.Self().DisplayName != "Alice" {
		t.Errorf("Expected self name Alice, got %q", s.Self().DisplayName)
	}

	s = newTestSession(t, WithSelfName("   "))
	if s.Self().DisplayName != "You" {
		t.Errorf("Expected blank name to be ignored, got %q", s.Self().DisplayName)
	}
}

func TestSession_SelectActiveSpeaker(t *testing.T) {
	s := newTestSession(t)

	if err := s.SelectActiveSpeaker(2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.ActiveSpeakerID() != 2 {
		t.Errorf("Expected active speaker 2, got %d", s.ActiveSpeakerID())
	}
	if s.ActiveSpeaker().DisplayName != "John Doe" {
		t.Errorf("Expected John Doe, got %s", s.ActiveSpeaker().DisplayName)
	}
	assertSpeakerInRoster(t, s)

	// Unknown IDs leave the speaker unchanged
	for _, id := range []int{0, -1, 3, 999} {
		if err := s.SelectActiveSpeaker(id); err != nil {
			t.Errorf("Expected silent no-op for %d, got %v", id, err)
		}
		if s.ActiveSpeakerID() != 2 {
			t.Errorf("Expected speaker to stay 2 after selecting %d, got %d", id, s.ActiveSpeakerID())
		}
		assertSpeakerInRoster(t, s)
	}
}

func TestSession_SendMessage(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 14, 7, 0, 0, time.UTC)
	s := newTestSession(t, WithClock(func() time.Time { return fixed }), WithLocation(time.UTC))

	for _, blank := range []string{"", "   ", "\t\n"} {
		msg, err := s.SendMessage(blank)
		if err != nil || msg != nil {
			t.Errorf("Expected blank %q to be ignored, got %v, %v", blank, msg, err)
		}
	}
	if len(s.Transcript()) != 0 {
		t.Fatalf("Expected empty transcript, got %d", len(s.Transcript()))
	}

	msg, err := s.SendMessage("  hi  ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msg.ID != 1 {
		t.Errorf("Expected first ID 1, got %d", msg.ID)
	}
	if msg.Text != "hi" {
		t.Errorf("Expected trimmed text, got %q", msg.Text)
	}
	if msg.Sender != "You" {
		t.Errorf("Expected sender You, got %s", msg.Sender)
	}
	if msg.Timestamp != "02:07 PM" {
		t.Errorf("Expected timestamp 02:07 PM, got %s", msg.Timestamp)
	}
	if !msg.SentAt.Equal(fixed) {
		t.Errorf("Expected SentAt %v, got %v", fixed, msg.SentAt)
	}
}

func TestSession_SendMessage_IDIsMaxPlusOne(t *testing.T) {
	seed := []domain.ChatMessage{
		{ID: 7, Sender: "John Doe", Text: "a"},
		{ID: 3, Sender: "John Doe", Text: "b"},
	}
	s, err := NewSession("m", twoPersonRoster(), seed)
	if err != nil {
		t.Fatal(err)
	}

	before := len(s.Transcript())
	msg, _ := s.SendMessage("next")
	if msg.ID != 8 {
		t.Errorf("Expected ID 8 (max+1), got %d", msg.ID)
	}
	if len(s.Transcript()) != before+1 {
		t.Errorf("Expected transcript to grow by 1, got %d", len(s.Transcript()))
	}
	if last := s.Transcript()[len(s.Transcript())-1]; last.ID != 8 {
		t.Error("Expected new message appended at the end")
	}
}

func TestSession_SendMessage_UsesSenderNameAtSendTime(t *testing.T) {
	s := newTestSession(t, WithSelfName("Alice"))
	msg, _ := s.SendMessage("hello")
	if msg.Sender != "Alice" {
		t.Errorf("Expected sender Alice, got %s", msg.Sender)
	}
}

func TestSession_TogglesAreInvolutions(t *testing.T) {
	s := newTestSession(t)

	toggles := []struct {
		name   string
		toggle func() (bool, error)
		read   func(domain.LocalControls) bool
	}{
		{"mute", s.ToggleMute, func(c domain.LocalControls) bool { return c.Muted }},
		{"video", s.ToggleVideo, func(c domain.LocalControls) bool { return c.VideoOff }},
		{"screen share", s.ToggleScreenShare, func(c domain.LocalControls) bool { return c.ScreenSharing }},
		{"recording", s.ToggleRecording, func(c domain.LocalControls) bool { return c.Recording }},
		{"sidebar", s.ToggleSidebar, func(c domain.LocalControls) bool { return c.SidebarOpen }},
	}

	for _, tc := range toggles {
		t.Run(tc.name, func(t *testing.T) {
			original := tc.read(s.Controls())

			first, err := tc.toggle()
			if err != nil {
				t.Fatal(err)
			}
			if first == original {
				t.Errorf("Expected first toggle to flip the value")
			}
			if tc.read(s.Controls()) != first {
				t.Errorf("Expected returned value to match state")
			}

			second, _ := tc.toggle()
			if second != original || tc.read(s.Controls()) != original {
				t.Errorf("Expected two toggles to restore %v", original)
			}
		})
	}
}

func TestSession_ToggleMuteMirrorsSelf(t *testing.T) {
	s := newTestSession(t)

	s.ToggleMute()
	if !s.Self().IsMuted {
		t.Error("Expected self participant to be muted")
	}
	if s.Roster()[1].IsMuted != true {
		t.Error("Expected other participants to keep their mock mute state")
	}
}

func TestSession_ToggleRecordingNotifies(t *testing.T) {
	rec := &recordingNotifier{}
	s := newTestSession(t, WithNotifier(rec))

	s.ToggleRecording()
	s.ToggleRecording()

	if len(rec.got) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(rec.got))
	}
	if rec.got[0].Text != domain.NoticeRecordingStarted {
		t.Errorf("Expected %q, got %q", domain.NoticeRecordingStarted, rec.got[0].Text)
	}
	if rec.got[1].Text != domain.NoticeRecordingStopped {
		t.Errorf("Expected %q, got %q", domain.NoticeRecordingStopped, rec.got[1].Text)
	}
}

func TestSession_EndCallIsTerminal(t *testing.T) {
	rec := &recordingNotifier{}
	s := newTestSession(t, WithNotifier(rec))
	s.SelectActiveSpeaker(2)
	before := s.Snapshot()

	if err := s.EndCall(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.State() != domain.SessionStateEnded {
		t.Fatalf("Expected ended state, got %s", s.State())
	}
	if len(rec.got) != 1 || rec.got[0].Text != domain.NoticeLeftMeeting {
		t.Fatalf("Expected left-meeting notification, got %+v", rec.got)
	}

	ops := map[string]func() error{
		"select":       func() error { return s.SelectActiveSpeaker(1) },
		"mute":         func() error { _, err := s.ToggleMute(); return err },
		"video":        func() error { _, err := s.ToggleVideo(); return err },
		"screen share": func() error { _, err := s.ToggleScreenShare(); return err },
		"recording":    func() error { _, err := s.ToggleRecording(); return err },
		"sidebar":      func() error { _, err := s.ToggleSidebar(); return err },
		"send":         func() error { _, err := s.SendMessage("late"); return err },
		"end again":    s.EndCall,
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrSessionEnded) {
			t.Errorf("%s: expected ErrSessionEnded, got %v", name, err)
		}
	}

	after := s.Snapshot()
	if after.ActiveSpeakerID != before.ActiveSpeakerID {
		t.Error("Expected active speaker unchanged after end")
	}
	if after.Controls != before.Controls {
		t.Errorf("Expected controls unchanged after end, got %+v", after.Controls)
	}
	if len(after.Transcript) != len(before.Transcript) {
		t.Error("Expected transcript unchanged after end")
	}
	if len(rec.got) != 1 {
		t.Errorf("Expected no further notifications, got %d", len(rec.got))
	}
}

func TestSession_Scenario(t *testing.T) {
	s := newTestSession(t)

	if s.ActiveSpeakerID() != 1 {
		t.Fatalf("Expected initial speaker 1, got %d", s.ActiveSpeakerID())
	}

	s.SelectActiveSpeaker(2)
	if s.ActiveSpeakerID() != 2 {
		t.Fatalf("Expected speaker 2, got %d", s.ActiveSpeakerID())
	}

	s.SendMessage("Hello")
	transcript := s.Transcript()
	if len(transcript) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(transcript))
	}
	if transcript[0].Sender != "You" || transcript[0].Text != "Hello" || transcript[0].ID != 1 {
		t.Errorf("Unexpected message %+v", transcript[0])
	}

	s.ToggleMute()
	s.ToggleMute()
	if s.Controls().Muted {
		t.Error("Expected muted to end false")
	}
}

func TestSession_Dispatch(t *testing.T) {
	s, err := NewSession("m", SeedRoster(), SeedTranscript())
	if err != nil {
		t.Fatal(err)
	}

	out, err := s.Dispatch(domain.Intent{
		Type:    domain.IntentSelectSpeaker,
		Payload: json.RawMessage(`{"participant_id":5}`),
	})
	if err != nil || s.ActiveSpeakerID() != 5 {
		t.Errorf("Expected speaker 5, got %d (%v)", s.ActiveSpeakerID(), err)
	}

	out, _ = s.Dispatch(domain.Intent{Type: domain.IntentToggleVideo})
	if !out.Value || !s.Controls().VideoOff {
		t.Error("Expected toggle_video to turn the camera off")
	}

	out, _ = s.Dispatch(domain.Intent{
		Type:    domain.IntentSendMessage,
		Payload: json.RawMessage(`{"text":"from dispatch"}`),
	})
	if out.Message == nil || out.Message.ID != 9 {
		t.Errorf("Expected message 9, got %+v", out.Message)
	}

	if _, err := s.Dispatch(domain.Intent{Type: "dance"}); !errors.Is(err, ErrUnknownIntent) {
		t.Errorf("Expected ErrUnknownIntent, got %v", err)
	}

	if _, err := s.Dispatch(domain.Intent{Type: domain.IntentSendMessage, Payload: json.RawMessage(`nope`)}); err == nil {
		t.Error("Expected malformed payload to fail")
	}

	out, err = s.Dispatch(domain.Intent{Type: domain.IntentEndCall})
	if err != nil || !out.Ended {
		t.Errorf("Expected end_call to end the session, got %+v %v", out, err)
	}

	if _, err := s.Dispatch(domain.Intent{Type: domain.IntentCopyLink}); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("Expected copy_link after end to be rejected, got %v", err)
	}
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()
	snap.Roster[0].DisplayName = "Mallory"

	if s.Self().DisplayName != "You" {
		t.Error("Expected snapshot mutation not to leak into the session")
	}
	if snap.ActiveSpeaker().ID != 1 {
		t.Errorf("Expected snapshot speaker 1, got %d", snap.ActiveSpeaker().ID)
	}
}
