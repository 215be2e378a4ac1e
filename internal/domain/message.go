package domain

import (
	"encoding/json"
	"time"
)

// ChatMessage is one line of a session transcript
type ChatMessage struct {
	ID        int       `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp string    `json:"timestamp"` // hour:minute, fixed at send time
	SentAt    time.Time `json:"sent_at"`
}

// MessageType defines the type of message pushed to the browser
type MessageType string

const (
	MessageTypeState MessageType = "state" // Full session snapshot
	MessageTypeChat  MessageType = "chat"  // One appended chat message
	MessageTypeToast MessageType = "toast" // Transient notification
	MessageTypeLink  MessageType = "link"  // Invite link for the clipboard
	MessageTypeEnded MessageType = "ended" // Session ended, payload carries redirect
	MessageTypeError MessageType = "error" // Intent was rejected
)

// Message is the envelope for everything the server pushes over the socket
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// LinkPayload carries the invite link the browser copies to the clipboard
type LinkPayload struct {
	URL       string `json:"url"`
	MeetingID string `json:"meeting_id"`
}

// EndedPayload tells the browser where to go after leaving
type EndedPayload struct {
	Redirect string `json:"redirect"`
}

// ErrorPayload describes a rejected intent
type ErrorPayload struct {
	Error string `json:"error"`
}
