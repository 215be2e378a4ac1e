package usecase

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
)

var meetingIDFormat = regexp.MustCompile(`^quick-meet-[a-z0-9]{4}-[a-z0-9]{4}$`)

func TestMeetingIDGenerator_Format(t *testing.T) {
	g := NewMeetingIDGenerator()

	for i := 0; i < 50; i++ {
		id := g.Generate()
		if !meetingIDFormat.MatchString(id) {
			t.Fatalf("Expected format quick-meet-xxxx-xxxx, got %s", id)
		}
	}
}

func TestMeetingIDGenerator_NotConstant(t *testing.T) {
	g := NewMeetingIDGenerator()

	first := g.Generate()
	second := g.Generate()
	if first == second {
		t.Errorf("Expected two different identifiers, got %s twice", first)
	}
}

func TestMeetingIDGenerator_SegmentsAreIndependent(t *testing.T) {
	g := NewMeetingIDGeneratorWithSource(rand.NewSource(42))

	same := 0
	for i := 0; i < 100; i++ {
		parts := strings.Split(strings.TrimPrefix(g.Generate(), "quick-meet-"), "-")
		if parts[0] == parts[1] {
			same++
		}
	}
	if same > 1 {
		t.Errorf("Expected segments to differ, %d of 100 were equal", same)
	}
}

func TestMeetingIDGenerator_Regenerate(t *testing.T) {
	g := NewMeetingIDGenerator()

	current := g.Generate()
	next := g.Regenerate(current)
	if next == current {
		t.Errorf("Expected regenerate to replace %s", current)
	}
	if !meetingIDFormat.MatchString(next) {
		t.Errorf("Expected regenerated ID to keep the format, got %s", next)
	}
}

func TestMeetingIDGenerator_Concurrency(t *testing.T) {
	g := NewMeetingIDGenerator()

	done := make(chan string)
	for i := 0; i < 100; i++ {
		go func() {
			done <- g.Generate()
		}()
	}

	for i := 0; i < 100; i++ {
		if id := <-done; !meetingIDFormat.MatchString(id) {
			t.Errorf("Unexpected identifier %s", id)
		}
	}
}
