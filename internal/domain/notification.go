package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLevel selects the toast style
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelError   NotificationLevel = "error"
)

// Notification is a fire-and-forget toast shown to the user
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewNotification creates a Notification with a generated ID
func NewNotification(level NotificationLevel, text string) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// Notification texts
const (
	NoticeRecordingStarted = "Recording started"
	NoticeRecordingStopped = "Recording stopped"
	NoticeLeftMeeting      = "You left the meeting"
	NoticeLinkCopied       = "Meeting link copied to clipboard"
	NoticeLinkShown        = "Share this meeting link: "
	NoticeMeetingCreated   = "Meeting created"
	NoticeMeetingScheduled = "Meeting scheduled for later"
)
