package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/metrics"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
)

// Room holds one visitor's session for one meeting identifier
type Room struct {
	Key       string // opaque key stored in the visitor's cookie
	MeetingID string
	Hub       *Hub
}

// RoomConfig describes a room to create
type RoomConfig struct {
	MeetingID string
	InviteURL string
	Via       string // create, join or link; used for metrics
	Options   []usecase.SessionOption
}

// RoomManager manages all rooms held in memory
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room // map[key]*Room

	gracePeriod    time.Duration
	ttl            time.Duration
	bufferSize     int
	maxMessageSize int64
	stop           chan struct{}
	stopOnce       sync.Once
}

// ManagerOption configures a RoomManager
type ManagerOption func(*RoomManager)

// WithGracePeriod sets how long a room without tabs survives
func WithGracePeriod(d time.Duration) ManagerOption {
	return func(rm *RoomManager) { rm.gracePeriod = d }
}

// WithTTL sets the idle lifetime after which the sweeper discards a room
func WithTTL(d time.Duration) ManagerOption {
	return func(rm *RoomManager) { rm.ttl = d }
}

// WithNotificationBuffer sets how many undelivered toasts a room keeps
func WithNotificationBuffer(n int) ManagerOption {
	return func(rm *RoomManager) { rm.bufferSize = n }
}

// WithMaxMessageSize bounds incoming WebSocket frames
func WithMaxMessageSize(n int64) ManagerOption {
	return func(rm *RoomManager) { rm.maxMessageSize = n }
}

// NewRoomManager creates a new room manager
func NewRoomManager(opts ...ManagerOption) *RoomManager {
	rm := &RoomManager{
		rooms:          make(map[string]*Room),
		gracePeriod:    domain.RoomGracePeriod,
		ttl:            domain.SessionTTL,
		bufferSize:     domain.NotificationBufferSize,
		maxMessageSize: domain.MaxMessageSize,
		stop:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rm)
	}
	return rm
}

// CreateRoom builds a fresh seeded session and starts its hub
func (rm *RoomManager) CreateRoom(cfg RoomConfig) (*Room, error) {
	hub := NewHub(rm.bufferSize)
	hub.gracePeriod = rm.gracePeriod
	hub.maxMessageSize = rm.maxMessageSize
	hub.inviteURL = cfg.InviteURL
	hub.roomManager = rm

	opts := append([]usecase.SessionOption{}, cfg.Options...)
	opts = append(opts, usecase.WithNotifier(hub))

	session, err := usecase.NewSession(cfg.MeetingID, usecase.SeedRoster(), usecase.SeedTranscript(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	hub.session = session

	room := &Room{
		Key:       uuid.New().String(),
		MeetingID: cfg.MeetingID,
		Hub:       hub,
	}
	hub.roomKey = room.Key

	rm.mu.Lock()
	rm.rooms[room.Key] = room
	count := len(rm.rooms)
	rm.mu.Unlock()

	go hub.Run()

	metrics.SessionCreated(cfg.Via)
	metrics.SetActiveRooms(count)
	log.Debug().Str("meeting", cfg.MeetingID).Str("via", cfg.Via).Msg("room created")

	return room, nil
}

// GetRoom returns a room by its key
func (rm *RoomManager) GetRoom(key string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[key]
}

// DeleteRoom removes a room and stops its hub
func (rm *RoomManager) DeleteRoom(key string) {
	rm.mu.Lock()
	room, exists := rm.rooms[key]
	if exists {
		delete(rm.rooms, key)
	}
	count := len(rm.rooms)
	rm.mu.Unlock()

	if exists {
		room.Hub.Stop()
		metrics.SetActiveRooms(count)
	}
}

// RoomCount returns the number of rooms held in memory
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// Sweep discards rooms with no tabs that have been idle for the TTL or longer
func (rm *RoomManager) Sweep(now time.Time) int {
	rm.mu.RLock()
	keys := make([]string, 0, len(rm.rooms))
	for key := range rm.rooms {
		keys = append(keys, key)
	}
	rm.mu.RUnlock()

	swept := 0
	for _, key := range keys {
		if rm.deleteIfIdle(key, rm.ttl, now) {
			swept++
		}
	}
	return swept
}

// deleteIfIdle removes a room only if it has no tabs, none registering, and
// has been idle for at least minIdle. The check and the removal happen under
// the manager lock, so a tab cannot register in between.
func (rm *RoomManager) deleteIfIdle(key string, minIdle time.Duration, now time.Time) bool {
	rm.mu.Lock()
	room, exists := rm.rooms[key]
	if !exists || !room.Hub.markClosingIfIdle(now, minIdle) {
		rm.mu.Unlock()
		return false
	}
	delete(rm.rooms, key)
	count := len(rm.rooms)
	rm.mu.Unlock()

	room.Hub.Stop()
	metrics.SetActiveRooms(count)
	return true
}

// StartSweeper runs Sweep periodically until Close
func (rm *RoomManager) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				if n := rm.Sweep(now); n > 0 {
					log.Debug().Int("rooms", n).Msg("swept idle rooms")
				}
			case <-rm.stop:
				return
			}
		}
	}()
}

// Close stops the sweeper and every hub
func (rm *RoomManager) Close() {
	rm.stopOnce.Do(func() { close(rm.stop) })

	rm.mu.Lock()
	rooms := rm.rooms
	rm.rooms = make(map[string]*Room)
	rm.mu.Unlock()

	for _, room := range rooms {
		room.Hub.Stop()
	}
	metrics.SetActiveRooms(0)
}
