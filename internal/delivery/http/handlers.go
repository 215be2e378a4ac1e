package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mmuslimabdulj/quickmeet/internal/config"
	"github.com/mmuslimabdulj/quickmeet/internal/delivery/ws"
	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
	"github.com/mmuslimabdulj/quickmeet/view/pages"
)

type Handler struct {
	cfg         *config.Config
	roomManager *ws.RoomManager
	generator   *usecase.MeetingIDGenerator
	serverTheme domain.Theme // ambient default when the browser sends no hint
	upgrader    websocket.Upgrader
	cookies     *securecookie.SecureCookie // signs room and flash cookies
}

func NewHandler(cfg *config.Config, rm *ws.RoomManager, generator *usecase.MeetingIDGenerator, serverTheme domain.Theme) *Handler {
	h := &Handler{
		cfg:         cfg,
		roomManager: rm,
		generator:   generator,
		serverTheme: serverTheme,
		cookies:     newCookieCodec(cfg.CookieSecret),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.isOriginAllowed(r.Header.Get("Origin"))
		},
	}
	return h
}

// isOriginAllowed checks if the origin is in the allowed list
func (h *Handler) isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}

	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// themePreference builds the visitor's theme preference from the cookie store
func (h *Handler) themePreference(w http.ResponseWriter, r *http.Request) *usecase.ThemePreference {
	ambient := h.serverTheme
	if hint, ok := colorSchemeHint(r); ok {
		ambient = hint
	}

	pref, err := usecase.NewThemePreference(&cookieThemeStore{w: w, r: r}, ambient)
	if err != nil {
		// The cookie store never fails to load; fall back to the in-memory default
		log.Warn().Err(err).Msg("theme preference unavailable")
		pref, _ = usecase.NewThemePreference(&usecase.MemoryThemeStore{}, ambient)
	}
	return pref
}

// render writes a full page. Toasts from the flash cookie come first.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, props pages.LayoutProps, body templ.Component) {
	props.Theme = h.themePreference(w, r).Get()
	props.Path = r.URL.Path
	props.Toasts = append(h.takeFlash(w, r), props.Toasts...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.Layout(props, body).Render(r.Context(), w); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("render failed")
	}
}

// inviteURL is the link other people would use to join this meeting
func (h *Handler) inviteURL(r *http.Request, meetingID string) string {
	base := h.cfg.BaseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join?id=" + url.QueryEscape(meetingID)
}

// HandleLanding serves the marketing page
func (h *Handler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, http.StatusOK, pages.LayoutProps{}, pages.Landing())
}

// HandleCreatePage serves the Create Meeting form with a fresh identifier.
// regenerate=1 swaps the identifier and keeps the other fields.
func (h *Handler) HandleCreatePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	meetingID := h.generator.Generate()
	if q.Get("regenerate") != "" {
		meetingID = h.generator.Regenerate(q.Get("meeting_id"))
	}

	props := pages.CreateProps{
		MeetingID:    meetingID,
		InviteURL:    h.inviteURL(r, meetingID),
		Topic:        q.Get("topic"),
		WaitingRoom:  q.Get("waiting_room") != "",
		MutedOnEntry: q.Get("muted_on_entry") != "",
	}
	h.render(w, r, http.StatusOK, pages.LayoutProps{Title: "Create a Meeting"}, pages.Create(props))
}

func createFormFrom(r *http.Request) usecase.CreateForm {
	return usecase.CreateForm{
		MeetingID:    r.PostFormValue("meeting_id"),
		Topic:        r.PostFormValue("topic"),
		WaitingRoom:  r.PostFormValue("waiting_room") != "",
		MutedOnEntry: r.PostFormValue("muted_on_entry") != "",
	}.Normalize()
}

func (h *Handler) createProps(r *http.Request, form usecase.CreateForm) pages.CreateProps {
	meetingID := form.MeetingID
	if meetingID == "" {
		meetingID = h.generator.Generate()
	}
	return pages.CreateProps{
		MeetingID:    meetingID,
		InviteURL:    h.inviteURL(r, meetingID),
		Topic:        form.Topic,
		WaitingRoom:  form.WaitingRoom,
		MutedOnEntry: form.MutedOnEntry,
	}
}

// HandleCreate validates the Create form and opens the meeting room
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	form := createFormFrom(r)

	if err := form.Validate(); err != nil {
		var verr *usecase.ValidationError
		if !errors.As(err, &verr) {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		props := h.createProps(r, form)
		props.Error = &pages.FieldError{Field: verr.Field, Message: verr.Message}
		h.render(w, r, http.StatusBadRequest, pages.LayoutProps{
			Title:  "Create a Meeting",
			Toasts: []domain.Notification{domain.NewNotification(domain.LevelError, verr.Message)},
		}, pages.Create(props))
		return
	}

	room, err := h.openRoom(w, r, ws.RoomConfig{
		MeetingID: form.MeetingID,
		InviteURL: h.inviteURL(r, form.MeetingID),
		Via:       "create",
		Options: []usecase.SessionOption{
			usecase.WithControls(form.Controls()),
			usecase.WithSettings(form.Settings()),
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("create room failed")
		http.Error(w, "Could not create meeting", http.StatusInternalServerError)
		return
	}

	h.setFlash(w, r, domain.NewNotification(domain.LevelSuccess, domain.NoticeMeetingCreated))
	http.Redirect(w, r, meetingURL(room.MeetingID), http.StatusSeeOther)
}

// HandleSchedule acknowledges "schedule for later". Nothing is stored.
func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	props := h.createProps(r, createFormFrom(r))
	h.render(w, r, http.StatusOK, pages.LayoutProps{
		Title:  "Create a Meeting",
		Toasts: []domain.Notification{domain.NewNotification(domain.LevelInfo, domain.NoticeMeetingScheduled)},
	}, pages.Create(props))
}

// HandleJoinPage serves the Join Meeting form, prefilled from ?id=
func (h *Handler) HandleJoinPage(w http.ResponseWriter, r *http.Request) {
	props := pages.JoinProps{
		MeetingID:    strings.TrimSpace(r.URL.Query().Get("id")),
		AudioEnabled: true,
		VideoEnabled: true,
	}
	h.render(w, r, http.StatusOK, pages.LayoutProps{Title: "Join a Meeting"}, pages.Join(props))
}

// HandleJoin validates the Join form and opens the meeting room
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	form := usecase.JoinForm{
		MeetingID:    r.PostFormValue("meeting_id"),
		DisplayName:  r.PostFormValue("display_name"),
		AudioEnabled: r.PostFormValue("audio") != "",
		VideoEnabled: r.PostFormValue("video") != "",
	}.Normalize()

	if err := form.Validate(); err != nil {
		var verr *usecase.ValidationError
		if !errors.As(err, &verr) {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		props := pages.JoinProps{
			MeetingID:    form.MeetingID,
			DisplayName:  form.DisplayName,
			AudioEnabled: form.AudioEnabled,
			VideoEnabled: form.VideoEnabled,
			Error:        &pages.FieldError{Field: verr.Field, Message: verr.Message},
		}
		h.render(w, r, http.StatusBadRequest, pages.LayoutProps{
			Title:  "Join a Meeting",
			Toasts: []domain.Notification{domain.NewNotification(domain.LevelError, verr.Message)},
		}, pages.Join(props))
		return
	}

	room, err := h.openRoom(w, r, ws.RoomConfig{
		MeetingID: form.MeetingID,
		InviteURL: h.inviteURL(r, form.MeetingID),
		Via:       "join",
		Options: []usecase.SessionOption{
			usecase.WithControls(form.Controls()),
			usecase.WithSelfName(form.DisplayName),
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("join room failed")
		http.Error(w, "Could not join meeting", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, meetingURL(room.MeetingID), http.StatusSeeOther)
}

// HandleTheme toggles the visitor's theme and returns to the page they were on
func (h *Handler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	pref := h.themePreference(w, r)
	if _, err := pref.Toggle(); err != nil {
		log.Error().Err(err).Msg("toggle theme failed")
		http.Error(w, "Could not change theme", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, safeRedirect(r.PostFormValue("redirect")), http.StatusSeeOther)
}

// HandleHealth reports liveness and the number of rooms in memory
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"rooms":  h.roomManager.RoomCount(),
	})
}

// safeRedirect only allows local absolute paths
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return "/"
	}
	return target
}

func meetingURL(meetingID string) string {
	return "/meeting/" + url.PathEscape(meetingID)
}
