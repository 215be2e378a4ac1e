package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

var (
	// ErrSessionEnded is returned by every operation issued after EndCall
	ErrSessionEnded = errors.New("session has ended")

	// ErrEmptyMeetingID means the session was created without an identifier
	ErrEmptyMeetingID = errors.New("meeting identifier is empty")

	// ErrSelfParticipant means the roster does not hold exactly one self participant
	ErrSelfParticipant = errors.New("roster must contain exactly one self participant")

	// ErrDuplicateParticipant means two roster entries share an ID
	ErrDuplicateParticipant = errors.New("duplicate participant id")

	// ErrUnknownIntent is returned by Dispatch for intent types it cannot map
	ErrUnknownIntent = errors.New("unknown intent")
)

// Notifier receives transient notifications. Emitting one never fails.
type Notifier interface {
	Notify(n domain.Notification)
}

type discardNotifier struct{}

func (discardNotifier) Notify(domain.Notification) {}

// Session is the view-model of one meeting room.
// It is not safe for concurrent use; callers serialise access.
type Session struct {
	meetingID       string
	roster          []domain.Participant
	activeSpeakerID int
	transcript      []domain.ChatMessage
	controls        domain.LocalControls
	settings        domain.MeetingSettings
	state           domain.SessionState
	createdAt       time.Time

	notifier Notifier
	now      func() time.Time
	location *time.Location
}

// SessionOption configures a Session at creation
type SessionOption func(*Session)

// WithControls seeds the local controls; all flags default to false
func WithControls(c domain.LocalControls) SessionOption {
	return func(s *Session) { s.controls = c }
}

// WithSettings attaches the Create form options
func WithSettings(settings domain.MeetingSettings) SessionOption {
	return func(s *Session) { s.settings = settings }
}

// WithSelfName renames the self participant; blank names are ignored
func WithSelfName(name string) SessionOption {
	return func(s *Session) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		for i := range s.roster {
			if s.roster[i].IsSelf {
				s.roster[i].DisplayName = name
			}
		}
	}
}

// WithNotifier routes notifications; the default discards them
func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone chat timestamps are rendered in
func WithLocation(loc *time.Location) SessionOption {
	return func(s *Session) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewSession creates an active session. The active speaker starts as the
// self participant. Seed slices are copied.
func NewSession(meetingID string, roster []domain.Participant, transcript []domain.ChatMessage, opts ...SessionOption) (*Session, error) {
	if strings.TrimSpace(meetingID) == "" {
		return nil, ErrEmptyMeetingID
	}

	selfID, selfCount := 0, 0
	seen := make(map[int]bool, len(roster))
	for _, p := range roster {
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateParticipant, p.ID)
		}
		seen[p.ID] = true
		if p.IsSelf {
			selfID = p.ID
			selfCount++
		}
	}
	if selfCount != 1 {
		return nil, ErrSelfParticipant
	}

	s := &Session{
		meetingID:       meetingID,
		roster:          append([]domain.Participant(nil), roster...),
		activeSpeakerID: selfID,
		transcript:      append([]domain.ChatMessage(nil), transcript...),
		state:           domain.SessionStateActive,
		notifier:        discardNotifier{},
		now:             time.Now,
		location:        time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	// The self tile mirrors the local mute toggle
	s.selfRef().IsMuted = s.controls.Muted
	s.createdAt = s.now()

	return s, nil
}

// MeetingID returns the identifier the session was created with
func (s *Session) MeetingID() string { return s.meetingID }

// State returns active or ended
func (s *Session) State() domain.SessionState { return s.state }

// Controls returns the local control flags
func (s *Session) Controls() domain.LocalControls { return s.controls }

// Settings returns the Create form options
func (s *Session) Settings() domain.MeetingSettings { return s.settings }

// ActiveSpeakerID returns the ID of the participant in the primary tile
func (s *Session) ActiveSpeakerID() int { return s.activeSpeakerID }

// Roster returns a copy of the participants in insertion order
func (s *Session) Roster() []domain.Participant {
	return append([]domain.Participant(nil), s.roster...)
}

// Transcript returns a copy of the chat messages, oldest first
func (s *Session) Transcript() []domain.ChatMessage {
	return append([]domain.ChatMessage(nil), s.transcript...)
}

// ActiveSpeaker returns the participant in the primary tile
func (s *Session) ActiveSpeaker() domain.Participant {
	if p, ok := s.participant(s.activeSpeakerID); ok {
		return p
	}
	// unreachable: the active speaker is always on the roster
	return *s.selfRef()
}

// Self returns the local participant
func (s *Session) Self() domain.Participant {
	return *s.selfRef()
}

// Snapshot copies the whole session for rendering
func (s *Session) Snapshot() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		MeetingID:       s.meetingID,
		Roster:          s.Roster(),
		ActiveSpeakerID: s.activeSpeakerID,
		Transcript:      s.Transcript(),
		Controls:        s.controls,
		Settings:        s.settings,
		State:           s.state,
		CreatedAt:       s.createdAt,
	}
}

// SelectActiveSpeaker moves the primary tile to participantID.
// Unknown IDs are ignored.
func (s *Session) SelectActiveSpeaker(participantID int) error {
	if s.state == domain.SessionStateEnded {
		return ErrSessionEnded
	}
	if _, ok := s.participant(participantID); !ok {
		return nil
	}
	s.activeSpeakerID = participantID
	return nil
}

// ToggleMute flips the local mute flag and returns the new value
func (s *Session) ToggleMute() (bool, error) {
	v, err := s.toggle(&s.controls.Muted)
	if err == nil {
		s.selfRef().IsMuted = v
	}
	return v, err
}

// ToggleVideo flips the camera-off flag and returns the new value
func (s *Session) ToggleVideo() (bool, error) {
	return s.toggle(&s.controls.VideoOff)
}

// ToggleScreenShare flips the screen sharing flag and returns the new value
func (s *Session) ToggleScreenShare() (bool, error) {
	return s.toggle(&s.controls.ScreenSharing)
}

// ToggleRecording flips the recording flag, announces it and returns the new value
func (s *Session) ToggleRecording() (bool, error) {
	v, err := s.toggle(&s.controls.Recording)
	if err != nil {
		return v, err
	}
	text := domain.NoticeRecordingStopped
	if v {
		text = domain.NoticeRecordingStarted
	}
	s.notifier.Notify(domain.NewNotification(domain.LevelSuccess, text))
	return v, nil
}

// ToggleSidebar flips the participants/chat panel and returns the new value
func (s *Session) ToggleSidebar() (bool, error) {
	return s.toggle(&s.controls.SidebarOpen)
}

// SendMessage appends a chat message from the self participant.
// Blank text is ignored and yields (nil, nil).
func (s *Session) SendMessage(rawText string) (*domain.ChatMessage, error) {
	if s.state == domain.SessionStateEnded {
		return nil, ErrSessionEnded
	}
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > domain.MaxChatLength {
		text = strings.TrimSpace(string([]rune(text)[:domain.MaxChatLength]))
	}

	nextID := 1
	for _, m := range s.transcript {
		if m.ID >= nextID {
			nextID = m.ID + 1
		}
	}

	now := s.now()
	msg := domain.ChatMessage{
		ID:        nextID,
		Sender:    s.selfRef().DisplayName,
		Text:      text,
		Timestamp: now.In(s.location).Format(domain.TimestampLayout),
		SentAt:    now,
	}
	s.transcript = append(s.transcript, msg)
	return &msg, nil
}

// EndCall ends the session. It is terminal.
func (s *Session) EndCall() error {
	if s.state == domain.SessionStateEnded {
		return ErrSessionEnded
	}
	s.state = domain.SessionStateEnded
	s.notifier.Notify(domain.NewNotification(domain.LevelInfo, domain.NoticeLeftMeeting))
	return nil
}

// Outcome describes what a dispatched intent changed
type Outcome struct {
	Intent  domain.IntentType
	Value   bool                // new flag value for toggles
	Message *domain.ChatMessage // appended message, nil if the text was blank
	Ended   bool
}

// Dispatch applies one intent. copy_link changes nothing and is left to the caller.
func (s *Session) Dispatch(in domain.Intent) (Outcome, error) {
	out := Outcome{Intent: in.Type}
	var err error

	switch in.Type {
	case domain.IntentSelectSpeaker:
		var p domain.SelectSpeakerPayload
		if err = json.Unmarshal(in.Payload, &p); err != nil {
			return out, fmt.Errorf("decode %s: %w", in.Type, err)
		}
		err = s.SelectActiveSpeaker(p.ParticipantID)
	case domain.IntentToggleMute:
		out.Value, err = s.ToggleMute()
	case domain.IntentToggleVideo:
		out.Value, err = s.ToggleVideo()
	case domain.IntentToggleScreenShare:
		out.Value, err = s.ToggleScreenShare()
	case domain.IntentToggleRecording:
		out.Value, err = s.ToggleRecording()
	case domain.IntentToggleSidebar:
		out.Value, err = s.ToggleSidebar()
	case domain.IntentSendMessage:
		var p domain.SendMessagePayload
		if err = json.Unmarshal(in.Payload, &p); err != nil {
			return out, fmt.Errorf("decode %s: %w", in.Type, err)
		}
		out.Message, err = s.SendMessage(p.Text)
	case domain.IntentCopyLink:
		if s.state == domain.SessionStateEnded {
			err = ErrSessionEnded
		}
	case domain.IntentEndCall:
		err = s.EndCall()
		out.Ended = err == nil
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownIntent, in.Type)
	}

	return out, err
}

func (s *Session) toggle(flag *bool) (bool, error) {
	if s.state == domain.SessionStateEnded {
		return *flag, ErrSessionEnded
	}
	*flag = !*flag
	return *flag, nil
}

func (s *Session) participant(id int) (domain.Participant, bool) {
	for _, p := range s.roster {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Participant{}, false
}

func (s *Session) selfRef() *domain.Participant {
	for i := range s.roster {
		if s.roster[i].IsSelf {
			return &s.roster[i]
		}
	}
	// NewSession guarantees a self participant
	panic("session without self participant")
}
