package pages

//go:generate templ generate

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

// LayoutProps is what every page shares
type LayoutProps struct {
	Title  string
	Theme  domain.Theme
	Path   string // current path; the theme toggle returns here
	Toasts []domain.Notification
	Bare   bool // meeting room: no marketing nav or footer
}

// FieldError is an inline validation message attached to one input
type FieldError struct {
	Field   string
	Message string
}

// CreateProps fills the Create Meeting form
type CreateProps struct {
	MeetingID    string
	InviteURL    string
	Topic        string
	WaitingRoom  bool
	MutedOnEntry bool
	Error        *FieldError
}

// JoinProps fills the Join Meeting form
type JoinProps struct {
	MeetingID    string
	DisplayName  string
	AudioEnabled bool
	VideoEnabled bool
	Error        *FieldError
}

// MeetingProps is everything the room renders from
type MeetingProps struct {
	Session   domain.SessionSnapshot
	InviteURL string
}

type navLink struct {
	Href  string
	Label string
}

var navLinks = []navLink{
	{"/", "Home"},
	{"/join", "Join Meeting"},
	{"/create", "Create Meeting"},
}

type feature struct {
	Icon        templ.Component
	Title       string
	Description string
}

var features = []feature{
	{iconZap(), "Instant Meetings", "Create and join meetings with a single click. No downloads or installations required."},
	{iconShield(), "Secure Calls", "End-to-end encryption ensures your conversations remain private and secure."},
	{iconPhone(), "Multi-device Support", "Join from any device with a browser - desktop, tablet, or smartphone."},
	{iconUsers(), "Team Collaboration", "Screen sharing, live chat, and interactive whiteboard for effective collaboration."},
	{iconVideo(), "HD Video Quality", "Crystal clear audio and high-definition video for a premium meeting experience."},
	{iconLock(), "Meeting Controls", "Host controls, waiting rooms, and password protection for added security."},
}

type statistic struct {
	Icon   templ.Component
	Number string
	Label  string
}

var statistics = []statistic{
	{iconUsers(), "1M+", "Active Users"},
	{iconVideo(), "10M+", "Meetings Hosted"},
	{iconClock(), "500M+", "Meeting Minutes"},
	{iconAward(), "99.9%", "Uptime"},
}

type testimonial struct {
	Name    string
	Role    string
	Company string
	Quote   string
}

var testimonials = []testimonial{
	{"Sarah Johnson", "Marketing Director", "TechCorp", "QuickMeet has transformed how our team collaborates remotely. The crystal clear video and intuitive interface make every meeting productive."},
	{"Michael Chen", "Product Manager", "InnovateSoft", "We've tried numerous video conferencing tools, but QuickMeet stands out with its reliability and ease of use. Our clients love it too!"},
	{"Jessica Martinez", "HR Director", "GlobalFinance", "The simplicity of QuickMeet has made virtual interviews seamless. No downloads or complicated setup - just send a link and connect."},
}

// meetingPath builds /meeting/{id}[/suffix] with the id path-escaped
func meetingPath(meetingID, suffix string) string {
	return "/meeting/" + url.PathEscape(meetingID) + suffix
}

func pageTitle(title string) string {
	if title == "" {
		return "QuickMeet"
	}
	return title + " | QuickMeet"
}

// withClass appends class to base when on is set
func withClass(base, class string, on bool) string {
	if on {
		return base + " " + class
	}
	return base
}

func hasError(e *FieldError, field string) bool {
	return e != nil && e.Field == field
}

func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return ""
}

// toggleLabel picks the aria label for a control from its current state
func toggleLabel(on bool, whenOn, whenOff string) string {
	if on {
		return whenOn
	}
	return whenOff
}
