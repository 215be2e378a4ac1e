package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mmuslimabdulj/quickmeet/internal/delivery/ws"
	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/view/pages"
)

// openRoom creates a fresh room for this visitor and points the cookie at it.
// A room the visitor held before is discarded.
func (h *Handler) openRoom(w http.ResponseWriter, r *http.Request, cfg ws.RoomConfig) (*ws.Room, error) {
	if old := h.roomKey(r); old != "" {
		h.roomManager.DeleteRoom(old)
	}

	room, err := h.roomManager.CreateRoom(cfg)
	if err != nil {
		return nil, err
	}
	h.setRoomCookie(w, r, room.Key)
	return room, nil
}

// currentRoom returns the visitor's room if it belongs to meetingID
func (h *Handler) currentRoom(r *http.Request, meetingID string) *ws.Room {
	key := h.roomKey(r)
	if key == "" {
		return nil
	}
	room := h.roomManager.GetRoom(key)
	if room == nil || room.MeetingID != meetingID {
		return nil
	}
	return room
}

// HandleMeeting renders the meeting room. Opening a link without a room for
// that meeting starts a new seeded session.
func (h *Handler) HandleMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID := strings.TrimSpace(r.PathValue("id"))
	if meetingID == "" {
		http.Redirect(w, r, "/join", http.StatusSeeOther)
		return
	}

	room := h.currentRoom(r, meetingID)
	if room == nil {
		var err error
		room, err = h.openRoom(w, r, ws.RoomConfig{
			MeetingID: meetingID,
			InviteURL: h.inviteURL(r, meetingID),
			Via:       "link",
		})
		if err != nil {
			log.Error().Err(err).Msg("open room failed")
			http.Error(w, "Could not open meeting", http.StatusInternalServerError)
			return
		}
	}

	props := pages.MeetingProps{
		Session:   room.Hub.Snapshot(),
		InviteURL: room.Hub.InviteURL(),
	}
	h.render(w, r, http.StatusOK, pages.LayoutProps{
		Title:  "Meeting",
		Bare:   true,
		Toasts: room.Hub.DrainNotifications(),
	}, pages.Meeting(props))
}

// HandleEnd ends the call and returns to the landing page with the
// "You left the meeting" toast.
func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")

	if room := h.currentRoom(r, meetingID); room != nil {
		res, err := room.Hub.Apply(domain.Intent{Type: domain.IntentEndCall})
		if err == nil {
			for _, n := range res.Notifications {
				h.setFlash(w, r, n)
			}
		}
		h.roomManager.DeleteRoom(room.Key)
	}

	clearCookie(w, domain.CookieRoom)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleIntent applies one intent posted by a form. This is the path used
// when the page runs without its script.
func (h *Handler) HandleIntent(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")
	back := meetingURL(meetingID)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	in, err := intentFromForm(r)
	if err != nil {
		h.setFlash(w, r, domain.NewNotification(domain.LevelError, "That action is not available"))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if in.Type == domain.IntentEndCall {
		h.HandleEnd(w, r)
		return
	}

	room := h.currentRoom(r, meetingID)
	if room == nil {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if _, err := room.Hub.Apply(in); err != nil {
		log.Debug().Err(err).Str("intent", string(in.Type)).Msg("intent rejected")
		h.setFlash(w, r, domain.NewNotification(domain.LevelError, "That action is not available"))
	} else if in.Type == domain.IntentCopyLink {
		// Without the script nothing reaches the clipboard; show the link instead
		h.setFlash(w, r, domain.NewNotification(domain.LevelInfo, domain.NoticeLinkShown+room.Hub.InviteURL()))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// intentFromForm maps form fields onto an intent and its JSON payload
func intentFromForm(r *http.Request) (domain.Intent, error) {
	in := domain.Intent{Type: domain.IntentType(r.PostFormValue("type"))}

	var payload any
	switch in.Type {
	case domain.IntentSelectSpeaker:
		id, err := strconv.Atoi(r.PostFormValue("participant_id"))
		if err != nil {
			return in, err
		}
		payload = domain.SelectSpeakerPayload{ParticipantID: id}
	case domain.IntentSendMessage:
		payload = domain.SendMessagePayload{Text: r.PostFormValue("text")}
	default:
		return in, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return in, err
	}
	in.Payload = data
	return in, nil
}

// HandleWebSocket upgrades HTTP to WebSocket for the visitor's room
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	room := h.roomManager.GetRoom(h.roomKey(r))
	if room == nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}
	if id := r.URL.Query().Get("meeting"); id != "" && id != room.MeetingID {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(room.Hub, conn)
	if !room.Hub.Register(client) {
		conn.Close()
		return
	}

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()
}
