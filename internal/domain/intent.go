package domain

import "encoding/json"

// IntentType names a user action dispatched from the meeting room
type IntentType string

const (
	IntentSelectSpeaker     IntentType = "select_speaker"
	IntentToggleMute        IntentType = "toggle_mute"
	IntentToggleVideo       IntentType = "toggle_video"
	IntentToggleScreenShare IntentType = "toggle_screen_share"
	IntentToggleRecording   IntentType = "toggle_recording"
	IntentToggleSidebar     IntentType = "toggle_sidebar"
	IntentSendMessage       IntentType = "send_message"
	IntentCopyLink          IntentType = "copy_link"
	IntentEndCall           IntentType = "end_call"
)

// Known reports whether t is one of the intent types above
func (t IntentType) Known() bool {
	switch t {
	case IntentSelectSpeaker, IntentToggleMute, IntentToggleVideo,
		IntentToggleScreenShare, IntentToggleRecording, IntentToggleSidebar,
		IntentSendMessage, IntentCopyLink, IntentEndCall:
		return true
	}
	return false
}

// Intent is one user action as received from the browser
type Intent struct {
	Type    IntentType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SelectSpeakerPayload is the payload for select_speaker
type SelectSpeakerPayload struct {
	ParticipantID int `json:"participant_id"`
}

// SendMessagePayload is the payload for send_message
type SendMessagePayload struct {
	Text string `json:"text"`
}
