package domain

import "testing"

func TestIntentType_Known(t *testing.T) {
	tests := []struct {
		intent IntentType
		want   bool
	}{
		{IntentSelectSpeaker, true},
		{IntentToggleMute, true},
		{IntentToggleVideo, true},
		{IntentToggleScreenShare, true},
		{IntentToggleRecording, true},
		{IntentToggleSidebar, true},
		{IntentSendMessage, true},
		{IntentCopyLink, true},
		{IntentEndCall, true},
		{"", false},
		{"TOGGLE_MUTE", false},
		{"junk-42", false},
	}

	for _, tc := range tests {
		if got := tc.intent.Known(); got != tc.want {
			t.Errorf("Known(%q) = %v, want %v", tc.intent, got, tc.want)
		}
	}
}
