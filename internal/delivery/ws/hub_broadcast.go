package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

// buildMessage wraps a payload in the envelope every browser message uses
func buildMessage(msgType domain.MessageType, payload any) []byte {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(msgType)).Msg("marshal payload")
		payloadBytes = []byte("null")
	}

	msg := domain.Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}

	data, _ := json.Marshal(msg)
	return data
}

// stateMessage carries the whole session. Caller holds h.mu.
func (h *Hub) stateMessage() []byte {
	return buildMessage(domain.MessageTypeState, h.session.Snapshot())
}

func (h *Hub) toastMessage(n domain.Notification) []byte {
	return buildMessage(domain.MessageTypeToast, n)
}

func (h *Hub) chatMessage(m domain.ChatMessage) []byte {
	return buildMessage(domain.MessageTypeChat, m)
}

func (h *Hub) endedMessage() []byte {
	return buildMessage(domain.MessageTypeEnded, domain.EndedPayload{Redirect: "/"})
}

func (h *Hub) errorMessage(err error) []byte {
	return buildMessage(domain.MessageTypeError, domain.ErrorPayload{Error: err.Error()})
}

// linkMessage carries the invite link. Caller holds h.mu.
func (h *Hub) linkMessage() []byte {
	return buildMessage(domain.MessageTypeLink, domain.LinkPayload{
		URL:       h.inviteURL,
		MeetingID: h.session.MeetingID(),
	})
}
