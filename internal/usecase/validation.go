package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

// ValidationError is a user input problem shown inline on a form
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const maxFieldLength = 80

// CreateForm is the Create Meeting form.
// A meeting name is required; the identifier comes from the generator.
type CreateForm struct {
	MeetingID    string
	Topic        string
	WaitingRoom  bool
	MutedOnEntry bool
}

// Normalize trims and bounds the free text fields
func (f CreateForm) Normalize() CreateForm {
	f.MeetingID = strings.TrimSpace(f.MeetingID)
	f.Topic = truncate(strings.TrimSpace(f.Topic), maxFieldLength)
	return f
}

// Validate checks the form in field order
func (f CreateForm) Validate() error {
	f = f.Normalize()
	if f.MeetingID == "" {
		return &ValidationError{Field: "meeting_id", Message: "Please generate a meeting ID"}
	}
	if f.Topic == "" {
		return &ValidationError{Field: "topic", Message: "Please enter a meeting name"}
	}
	return nil
}

// Controls seeds the room's local controls from the form
func (f CreateForm) Controls() domain.LocalControls {
	return domain.LocalControls{Muted: f.MutedOnEntry, SidebarOpen: true}
}

// Settings carries the options into the room info panel
func (f CreateForm) Settings() domain.MeetingSettings {
	f = f.Normalize()
	return domain.MeetingSettings{
		Topic:        f.Topic,
		WaitingRoom:  f.WaitingRoom,
		MutedOnEntry: f.MutedOnEntry,
	}
}

// JoinForm is the Join Meeting form. Both identifier and name are required.
type JoinForm struct {
	MeetingID    string
	DisplayName  string
	AudioEnabled bool
	VideoEnabled bool
}

// Normalize trims both fields and bounds the name. The identifier is kept
// verbatim so an invite link always joins the meeting it names.
func (f JoinForm) Normalize() JoinForm {
	f.MeetingID = strings.TrimSpace(f.MeetingID)
	f.DisplayName = truncate(strings.TrimSpace(f.DisplayName), maxFieldLength)
	return f
}

// Validate checks the form in field order: identifier, then name
func (f JoinForm) Validate() error {
	f = f.Normalize()
	if f.MeetingID == "" {
		return &ValidationError{Field: "meeting_id", Message: "Please enter a meeting ID"}
	}
	if f.DisplayName == "" {
		return &ValidationError{Field: "name", Message: "Please enter your name"}
	}
	return nil
}

// Controls seeds mute/video inversely from the audio/video switches
func (f JoinForm) Controls() domain.LocalControls {
	return domain.LocalControls{
		Muted:       !f.AudioEnabled,
		VideoOff:    !f.VideoEnabled,
		SidebarOpen: true,
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
