package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func testSnapshot() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		MeetingID: "quick-meet-abcd-1234",
		Roster: []domain.Participant{
			{ID: 1, DisplayName: "You", IsSelf: true},
			{ID: 2, DisplayName: "John Doe", IsMuted: true},
		},
		ActiveSpeakerID: 2,
		Transcript: []domain.ChatMessage{
			{ID: 1, Sender: "John Doe", Text: "Hello everyone!", Timestamp: "10:30 AM"},
		},
		Controls: domain.LocalControls{SidebarOpen: true},
		State:    domain.SessionStateActive,
	}
}

func TestLayout_Theme(t *testing.T) {
	tests := []struct {
		theme    domain.Theme
		expected string
		toggle   string
	}{
		{domain.ThemeDark, `<html lang="en" class="dark">`, "Switch to light mode"},
		{domain.ThemeLight, `<html lang="en" class="light">`, "Switch to dark mode"},
	}

	for _, tc := range tests {
		html := render(t, Layout(LayoutProps{Theme: tc.theme, Path: "/"}, Landing()))
		if !strings.Contains(html, tc.expected) {
			t.Errorf("Expected %s for theme %s", tc.expected, tc.theme)
		}
		if !strings.Contains(html, tc.toggle) {
			t.Errorf("Expected toggle label '%s' for theme %s", tc.toggle, tc.theme)
		}
	}
}

func TestLayout_Toasts(t *testing.T) {
	toasts := []domain.Notification{
		{ID: "n1", Level: domain.LevelInfo, Text: "You left the meeting"},
	}
	html := render(t, Layout(LayoutProps{Theme: domain.ThemeLight, Toasts: toasts}, Landing()))

	if !strings.Contains(html, `class="toast toast-info"`) || !strings.Contains(html, "You left the meeting") {
		t.Error("Expected toast to be rendered")
	}
}

func TestLayout_BareHidesNav(t *testing.T) {
	html := render(t, Layout(LayoutProps{Bare: true}, Meeting(MeetingProps{Session: testSnapshot()})))

	if strings.Contains(html, `class="nav"`) || strings.Contains(html, `class="footer"`) {
		t.Error("Expected meeting layout without nav or footer")
	}
}

func TestLanding(t *testing.T) {
	html := render(t, Landing())

	for _, want := range []string{"Create Meeting", "Join Meeting", "Instant Meetings", "99.9%", "Sarah Johnson"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected landing page to contain '%s'", want)
		}
	}
}

func TestCreate_Error(t *testing.T) {
	html := render(t, Create(CreateProps{
		MeetingID: "quick-meet-abcd-1234",
		Error:     &FieldError{Field: "topic", Message: "Please enter a meeting name"},
	}))

	if !strings.Contains(html, "Please enter a meeting name") {
		t.Error("Expected inline error")
	}
	if !strings.Contains(html, `aria-describedby="topic-error"`) {
		t.Error("Expected topic input to be marked invalid")
	}
	if !strings.Contains(html, `value="quick-meet-abcd-1234"`) {
		t.Error("Expected meeting ID to be shown")
	}
}

func TestJoin_Switches(t *testing.T) {
	html := render(t, Join(JoinProps{MeetingID: "abc", AudioEnabled: true}))

	if !strings.Contains(html, `name="audio" value="on" checked`) {
		t.Error("Expected audio switch checked")
	}
	if strings.Contains(html, `name="video" value="on" checked`) {
		t.Error("Expected video switch unchecked")
	}
}

func TestMeeting_Escaping(t *testing.T) {
	snap := testSnapshot()
	snap.Transcript = append(snap.Transcript, domain.ChatMessage{
		ID: 2, Sender: "You", Text: "<script>alert(1)</script>", Timestamp: "10:31 AM",
	})

	html := render(t, Meeting(MeetingProps{Session: snap}))

	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("Expected chat text to be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("Expected escaped chat text to be present")
	}
}

func TestMeeting_PrimaryTile(t *testing.T) {
	html := render(t, Meeting(MeetingProps{Session: testSnapshot()}))

	if !strings.Contains(html, `id="primary-tile" data-participant-id="2"`) {
		t.Error("Expected active speaker in the primary tile")
	}
	if !strings.Contains(html, "JD") {
		t.Error("Expected initials for John Doe")
	}
	if !strings.Contains(html, "You (You)") {
		t.Error("Expected self label in participant list")
	}
}

func TestMeeting_Controls(t *testing.T) {
	tests := []struct {
		name     string
		controls domain.LocalControls
		want     []string
		notWant  []string
	}{
		{
			name:     "Defaults",
			controls: domain.LocalControls{},
			want:     []string{`aria-label="Mute"`, `aria-label="Start recording"`},
			notWant:  []string{"recording-badge", `class="sidebar"`, "sharing your screen"},
		},
		{
			name:     "All on",
			controls: domain.LocalControls{Muted: true, VideoOff: true, ScreenSharing: true, Recording: true, SidebarOpen: true},
			want:     []string{`aria-label="Unmute"`, "recording-badge", `class="sidebar"`, "sharing your screen", `aria-label="Start video"`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := testSnapshot()
			snap.Controls = tc.controls
			html := render(t, Meeting(MeetingProps{Session: snap}))

			for _, w := range tc.want {
				if !strings.Contains(html, w) {
					t.Errorf("Expected '%s'", w)
				}
			}
			for _, w := range tc.notWant {
				if strings.Contains(html, w) {
					t.Errorf("Did not expect '%s'", w)
				}
			}
		})
	}
}

func TestMeeting_IntentForms(t *testing.T) {
	snap := testSnapshot()
	snap.MeetingID = "id with/slash"
	html := render(t, Meeting(MeetingProps{Session: snap}))

	if !strings.Contains(html, `action="/meeting/id%20with%2Fslash/intent"`) {
		t.Error("Expected escaped meeting path in intent forms")
	}
	if !strings.Contains(html, `action="/meeting/id%20with%2Fslash/end"`) {
		t.Error("Expected end call form")
	}
}

func TestAttributes_Escaped(t *testing.T) {
	tests := []struct {
		name    string
		c       templ.Component
		want    string
		notWant string
	}{
		{
			name:    "Theme redirect",
			c:       ThemeToggle(domain.ThemeLight, `/join"><script>`),
			want:    `value="/join&#34;&gt;&lt;script&gt;"`,
			notWant: `"><script>`,
		},
		{
			name:    "Meeting id on the room",
			c:       Meeting(MeetingProps{Session: func() domain.SessionSnapshot { s := testSnapshot(); s.MeetingID = `a"b`; return s }()}),
			want:    `data-meeting-id="a&#34;b"`,
			notWant: `data-meeting-id="a"b"`,
		},
		{
			name:    "Toast id",
			c:       Toasts([]domain.Notification{{ID: `x" onclick="y`, Level: domain.LevelError, Text: "Nope"}}),
			want:    `data-id="x&#34; onclick=&#34;y"`,
			notWant: `onclick="y"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			html := render(t, tc.c)
			if !strings.Contains(html, tc.want) {
				t.Errorf("Expected %s in %s", tc.want, html)
			}
			if strings.Contains(html, tc.notWant) {
				t.Errorf("Did not expect %s", tc.notWant)
			}
		})
	}
}

func TestJoin_MeetingIDError(t *testing.T) {
	long := strings.Repeat("m", 120)
	html := render(t, Join(JoinProps{
		MeetingID: long,
		Error:     &FieldError{Field: "meeting_id", Message: "Meeting not found"},
	}))

	if !strings.Contains(html, `value="`+long+`"`) {
		t.Error("Expected the full meeting ID to be echoed back")
	}
	if !strings.Contains(html, `aria-describedby="meeting_id-error"`) || !strings.Contains(html, `id="meeting_id-error"`) {
		t.Error("Expected meeting ID input to point at its error")
	}
	if strings.Contains(html, `name="meeting_id" value="`+long+`" placeholder="Enter meeting ID" maxlength`) {
		t.Error("Expected no length cap on the meeting ID input")
	}
}

func TestLayout_NavMarksCurrentPage(t *testing.T) {
	html := render(t, Layout(LayoutProps{Theme: domain.ThemeLight, Path: "/join"}, Join(JoinProps{})))

	if !strings.Contains(html, `<a href="/join" class="nav-link active">Join Meeting</a>`) {
		t.Error("Expected Join link marked active")
	}
	if !strings.Contains(html, `<a href="/create" class="nav-link">Create Meeting</a>`) {
		t.Error("Expected Create link unmarked")
	}
}
