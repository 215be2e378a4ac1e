package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog/log"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/middleware"
)

const themeCookieMaxAge = 365 * 24 * time.Hour

// newCookieCodec signs room and flash cookies. An empty secret gets a random
// key, so cookies from a previous process stop validating.
func newCookieCodec(secret string) *securecookie.SecureCookie {
	key := []byte(secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	codec := securecookie.New(key, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(0) // expiry is left to the cookie itself
	return codec
}

// cookieThemeStore keeps the theme in a browser cookie, one slot per browser
type cookieThemeStore struct {
	w http.ResponseWriter
	r *http.Request
}

// Load implements usecase.ThemeStore. Unknown values count as unset.
func (s *cookieThemeStore) Load() (domain.Theme, bool, error) {
	c, err := s.r.Cookie(domain.CookieTheme)
	if err != nil {
		return "", false, nil
	}
	theme, ok := domain.ParseTheme(c.Value)
	return theme, ok, nil
}

// Save implements usecase.ThemeStore
func (s *cookieThemeStore) Save(theme domain.Theme) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     domain.CookieTheme,
		Value:    string(theme),
		Path:     "/",
		MaxAge:   int(themeCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// colorSchemeHint reads the browser's preferred scheme from the client hint.
// The header value is a structured string, so it may arrive quoted.
func colorSchemeHint(r *http.Request) (domain.Theme, bool) {
	v := strings.Trim(r.Header.Get(middleware.ColorSchemeHint), `" `)
	if v == "" {
		return "", false
	}
	return domain.ParseTheme(v)
}

func (h *Handler) setSigned(w http.ResponseWriter, r *http.Request, name string, value any, maxAge time.Duration) {
	encoded, err := h.cookies.Encode(name, value)
	if err != nil {
		log.Error().Err(err).Str("cookie", name).Msg("encode cookie")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// readSigned decodes a signed cookie. Missing or tampered cookies report false.
func (h *Handler) readSigned(r *http.Request, name string, dst any) bool {
	c, err := r.Cookie(name)
	if err != nil {
		return false
	}
	if err := h.cookies.Decode(name, c.Value, dst); err != nil {
		log.Debug().Err(err).Str("cookie", name).Msg("rejected cookie")
		return false
	}
	return true
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) setRoomCookie(w http.ResponseWriter, r *http.Request, key string) {
	h.setSigned(w, r, domain.CookieRoom, key, h.cfg.SessionTTL)
}

func (h *Handler) roomKey(r *http.Request) string {
	var key string
	if !h.readSigned(r, domain.CookieRoom, &key) {
		return ""
	}
	return key
}

// setFlash carries one toast across a redirect
func (h *Handler) setFlash(w http.ResponseWriter, r *http.Request, n domain.Notification) {
	h.setSigned(w, r, domain.CookieFlash, n, domain.FlashMaxAge)
}

// takeFlash returns the pending toast, if any, and clears it
func (h *Handler) takeFlash(w http.ResponseWriter, r *http.Request) []domain.Notification {
	if _, err := r.Cookie(domain.CookieFlash); err != nil {
		return nil
	}
	clearCookie(w, domain.CookieFlash)

	var n domain.Notification
	if !h.readSigned(r, domain.CookieFlash, &n) || n.Text == "" {
		return nil
	}
	return []domain.Notification{n}
}
