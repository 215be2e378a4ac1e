package ws

import (
	"sync"
	"time"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/metrics"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
)

type clientIntent struct {
	client *Client
	intent domain.Intent
}

// Result is what one applied intent produced
type Result struct {
	usecase.Outcome
	Notifications []domain.Notification
}

// Hub owns one session and the visitor's open tabs.
// Every session operation runs under mu, so at most one intent is applied at a time.
type Hub struct {
	mu      sync.Mutex
	session *usecase.Session
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	intents    chan clientIntent
	done       chan struct{}
	stopOnce   sync.Once

	pending *RingBuffer[domain.Notification] // toasts no tab has seen yet
	emitted []domain.Notification            // toasts raised by the intent being applied

	roomManager    *RoomManager
	roomKey        string
	inviteURL      string
	gracePeriod    time.Duration
	maxMessageSize int64
	shutdownTimer  *time.Timer
	lastActive     time.Time
	joining        int  // Register calls handed to the run loop but not yet added
	closing        bool // set once the manager discards the room
}

// NewHub creates a new Hub keeping up to bufferSize undelivered notifications
func NewHub(bufferSize int) *Hub {
	return &Hub{
		clients:        make(map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		intents:        make(chan clientIntent, 16),
		done:           make(chan struct{}),
		pending:        NewRingBuffer[domain.Notification](bufferSize),
		gracePeriod:    domain.RoomGracePeriod,
		maxMessageSize: domain.MaxMessageSize,
		lastActive:     time.Now(),
	}
}

// Notify implements usecase.Notifier. It is only reached from session
// operations, so the caller already holds h.mu.
func (h *Hub) Notify(n domain.Notification) {
	h.emitted = append(h.emitted, n)
	if len(h.clients) == 0 {
		h.pending.Add(n)
		return
	}
	h.broadcastLocked(h.toastMessage(n))
}

// Apply dispatches one intent to the session and pushes the result to every tab
func (h *Hub) Apply(in domain.Intent) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.emitted = nil
	out, err := h.session.Dispatch(in)
	metrics.IntentApplied(in.Type, err)
	if err != nil {
		h.emitted = nil
		return Result{Outcome: out}, err
	}

	h.lastActive = time.Now()
	res := Result{Outcome: out, Notifications: h.emitted}
	h.emitted = nil

	if out.Message != nil {
		metrics.ChatMessageSent()
		h.broadcastLocked(h.chatMessage(*out.Message))
	}
	if out.Ended {
		metrics.SessionEnded()
		h.broadcastLocked(h.endedMessage())
	} else {
		h.broadcastLocked(h.stateMessage())
	}

	return res, nil
}

// Snapshot returns a copy of the session for rendering
func (h *Hub) Snapshot() domain.SessionSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Snapshot()
}

// DrainNotifications hands undelivered toasts to a page render
func (h *Hub) DrainNotifications() []domain.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending.Drain()
}

// InviteURL returns the join link for this room's meeting
func (h *Hub) InviteURL() string {
	return h.inviteURL
}

// Stop ends the run loop. Safe to call more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()
	h.stopOnce.Do(func() { close(h.done) })
}

// cancelShutdown stops pending destroy timer. Caller holds h.mu.
func (h *Hub) cancelShutdown() {
	if h.shutdownTimer != nil {
		h.shutdownTimer.Stop()
		h.shutdownTimer = nil
	}
}

// scheduleShutdown discards the room once the grace period passes with no tabs.
// Caller holds h.mu.
func (h *Hub) scheduleShutdown() {
	if h.roomManager == nil || h.roomKey == "" {
		return
	}
	h.shutdownTimer = time.AfterFunc(h.gracePeriod, func() {
		h.roomManager.deleteIfIdle(h.roomKey, 0, time.Now())
	})
}

// idleSinceLocked reports how long the room has had no tabs. Caller holds h.mu.
func (h *Hub) idleSinceLocked(now time.Time) time.Duration {
	if len(h.clients) > 0 || h.joining > 0 {
		return 0
	}
	return now.Sub(h.lastActive)
}

// markClosingIfIdle claims the room for deletion when it has stayed idle for
// longer than minIdle. Once claimed, Register refuses new tabs.
func (h *Hub) markClosingIfIdle(now time.Time, minIdle time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) > 0 || h.joining > 0 || h.idleSinceLocked(now) < minIdle {
		return false
	}
	h.closing = true
	return true
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.joining--
			h.cancelShutdown()
			h.clients[client.ID] = client
			h.lastActive = time.Now()

			// Snapshot first, then whatever toasts were waiting
			client.Send(h.stateMessage())
			for _, n := range h.pending.Drain() {
				client.Send(h.toastMessage(n))
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			// Check if client exists - prevent double unregister
			if _, ok := h.clients[client.ID]; !ok {
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client.ID)
			close(client.send)
			h.lastActive = time.Now()

			if len(h.clients) == 0 {
				h.scheduleShutdown()
			}
			h.mu.Unlock()

		case ci := <-h.intents:
			h.handleIntent(ci.client, ci.intent)

		case <-h.done:
			h.mu.Lock()
			h.cancelShutdown()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// handleIntent applies an intent from one tab and answers that tab directly
// where the reply is not shared state.
func (h *Hub) handleIntent(c *Client, in domain.Intent) {
	res, err := h.Apply(in)

	h.mu.Lock()
	switch {
	case err != nil:
		h.sendTo(c, h.errorMessage(err))
	case in.Type == domain.IntentCopyLink:
		// The tab writes the link to the clipboard when it receives it
		h.sendTo(c, h.linkMessage())
		h.Notify(domain.NewNotification(domain.LevelSuccess, domain.NoticeLinkCopied))
	}
	h.mu.Unlock()

	// Outside h.mu: DeleteRoom takes the manager lock
	if err == nil && res.Ended && h.roomManager != nil {
		h.roomManager.DeleteRoom(h.roomKey)
	}
}
