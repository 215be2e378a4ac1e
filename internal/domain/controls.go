package domain

import "time"

// LocalControls are the local user's own toggles; they never affect anyone else
type LocalControls struct {
	Muted         bool `json:"muted"`
	VideoOff      bool `json:"video_off"`
	ScreenSharing bool `json:"screen_sharing"`
	Recording     bool `json:"recording"`
	SidebarOpen   bool `json:"sidebar_open"`
}

// SessionState is the lifecycle state of a meeting room session
type SessionState string

const (
	SessionStateActive SessionState = "active"
	SessionStateEnded  SessionState = "ended"
)

// MeetingSettings are the Create form options shown in the room info panel
type MeetingSettings struct {
	Topic        string `json:"topic,omitempty"`
	WaitingRoom  bool   `json:"waiting_room"`
	MutedOnEntry bool   `json:"muted_on_entry"`
}

// SessionSnapshot is a read-only copy of a session used for rendering
type SessionSnapshot struct {
	MeetingID       string          `json:"meeting_id"`
	Roster          []Participant   `json:"roster"`
	ActiveSpeakerID int             `json:"active_speaker_id"`
	Transcript      []ChatMessage   `json:"transcript"`
	Controls        LocalControls   `json:"controls"`
	Settings        MeetingSettings `json:"settings"`
	State           SessionState    `json:"state"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ActiveSpeaker returns the roster entry in the primary tile
func (s SessionSnapshot) ActiveSpeaker() Participant {
	for _, p := range s.Roster {
		if p.ID == s.ActiveSpeakerID {
			return p
		}
	}
	return Participant{}
}
