package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket frame size in bytes
const MaxMessageSize = 4096

// MaxChatLength caps the number of runes kept from one chat message
const MaxChatLength = 1000

// NotificationBufferSize is how many undelivered notifications a room keeps
const NotificationBufferSize = 32

// ==== Meeting Constants ====

// MeetingIDPrefix is the human readable prefix of every generated identifier
const MeetingIDPrefix = "quick-meet-"

// SelfDisplayName is the local participant's name when none was given
const SelfDisplayName = "You"

// TimestampLayout renders chat timestamps as hour:minute
const TimestampLayout = "03:04 PM"

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for form endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket upgrades (req/sec)
	DefaultRateLimitWS = 5
)

// ==== Timing Constants ====

const (
	// RoomGracePeriod is how long a room without tabs survives before it is discarded
	RoomGracePeriod = 60 * time.Second

	// SessionTTL bounds the lifetime of an idle room
	SessionTTL = 24 * time.Hour

	// FlashMaxAge is how long a pending toast cookie lives
	FlashMaxAge = 30 * time.Second
)

// ==== Cookie Names ====

const (
	CookieTheme = "theme"
	CookieRoom  = "qm_room"
	CookieFlash = "qm_flash"
)
