package usecase

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
)

const (
	segmentAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	segmentLength   = 4
)

// MeetingIDGenerator produces shareable meeting identifiers of the form
// quick-meet-xxxx-xxxx. Uniqueness is probabilistic; nothing checks for collisions.
type MeetingIDGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMeetingIDGenerator creates a generator seeded from the clock
func NewMeetingIDGenerator() *MeetingIDGenerator {
	return NewMeetingIDGeneratorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewMeetingIDGeneratorWithSource creates a generator drawing from src
func NewMeetingIDGeneratorWithSource(src rand.Source) *MeetingIDGenerator {
	return &MeetingIDGenerator{rng: rand.New(src)}
}

// Generate returns a new identifier
func (g *MeetingIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return domain.MeetingIDPrefix + g.segment() + "-" + g.segment()
}

// Regenerate replaces the identifier currently on screen.
// Sessions already created with the old identifier are unaffected.
func (g *MeetingIDGenerator) Regenerate(current string) string {
	next := g.Generate()
	// one retry keeps the form from showing the same value twice in a row
	if next == current {
		next = g.Generate()
	}
	return next
}

// segment draws one random alphanumeric segment. Caller holds g.mu.
func (g *MeetingIDGenerator) segment() string {
	var b strings.Builder
	b.Grow(segmentLength)
	for i := 0; i < segmentLength; i++ {
		b.WriteByte(segmentAlphabet[g.rng.Intn(len(segmentAlphabet))])
	}
	return b.String()
}
