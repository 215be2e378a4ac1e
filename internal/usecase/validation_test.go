package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

func TestJoinForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		form      JoinForm
		wantField string
	}{
		{"Valid", JoinForm{MeetingID: "quick-meet-abcd-1234", DisplayName: "Alice"}, ""},
		{"Missing ID", JoinForm{DisplayName: "Alice"}, "meeting_id"},
		{"Blank ID", JoinForm{MeetingID: "   ", DisplayName: "Alice"}, "meeting_id"},
		{"Missing name", JoinForm{MeetingID: "x"}, "name"},
		{"Both missing reports ID first", JoinForm{}, "meeting_id"},
		{"Any ID format accepted", JoinForm{MeetingID: "not-a-generated-id", DisplayName: "Bob"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid form, got %v", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if vErr.Field != tc.wantField {
				t.Errorf("Expected field %s, got %s", tc.wantField, vErr.Field)
			}
		})
	}
}

func TestJoinForm_Messages(t *testing.T) {
	err := JoinForm{DisplayName: "A"}.Validate()
	if err.Error() != "Please enter a meeting ID" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	err = JoinForm{MeetingID: "A"}.Validate()
	if err.Error() != "Please enter your name" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}

func TestJoinForm_LongMeetingIDKeptVerbatim(t *testing.T) {
	id := strings.Repeat("a", 100)
	f := JoinForm{MeetingID: "  " + id + " ", DisplayName: "Alice"}

	if got := f.Normalize().MeetingID; got != id {
		t.Errorf("Expected the %d-char id unchanged, got %d chars", len(id), len(got))
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Expected long id to be accepted, got %v", err)
	}

	// Join and Create agree on the identifier
	if create := (CreateForm{MeetingID: id}).Normalize().MeetingID; create != f.Normalize().MeetingID {
		t.Error("Expected Create and Join to normalize the id the same way")
	}
}

func TestJoinForm_Controls(t *testing.T) {
	tests := []struct {
		audio, video    bool
		muted, videoOff bool
	}{
		{true, true, false, false},
		{false, true, true, false},
		{true, false, false, true},
		{false, false, true, true},
	}

	for _, tc := range tests {
		c := JoinForm{AudioEnabled: tc.audio, VideoEnabled: tc.video}.Controls()
		if c.Muted != tc.muted || c.VideoOff != tc.videoOff {
			t.Errorf("audio=%v video=%v: got %+v", tc.audio, tc.video, c)
		}
		if c.Recording || c.ScreenSharing {
			t.Errorf("Expected recording and sharing off, got %+v", c)
		}
	}
}

func TestCreateForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		form      CreateForm
		wantField string
	}{
		{"Valid", CreateForm{MeetingID: "quick-meet-abcd-1234", Topic: "Weekly sync"}, ""},
		{"Missing topic", CreateForm{MeetingID: "quick-meet-abcd-1234"}, "topic"},
		{"Whitespace topic", CreateForm{MeetingID: "quick-meet-abcd-1234", Topic: "  "}, "topic"},
		{"Missing ID", CreateForm{Topic: "Weekly sync"}, "meeting_id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid form, got %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tc.wantField {
				t.Errorf("Expected error on %s, got %v", tc.wantField, err)
			}
		})
	}
}

func TestCreateForm_SettingsAndControls(t *testing.T) {
	f := CreateForm{
		MeetingID:    "id",
		Topic:        "  " + strings.Repeat("x", 100) + "  ",
		WaitingRoom:  true,
		MutedOnEntry: true,
	}

	settings := f.Settings()
	if len(settings.Topic) != 80 {
		t.Errorf("Expected topic truncated to 80, got %d", len(settings.Topic))
	}
	if !settings.WaitingRoom || !settings.MutedOnEntry {
		t.Errorf("Expected options carried over, got %+v", settings)
	}

	want := domain.LocalControls{Muted: true, SidebarOpen: true}
	if f.Controls() != want {
		t.Errorf("Expected %+v, got %+v", want, f.Controls())
	}
}
