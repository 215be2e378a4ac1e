package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Participant is one tile in the meeting room roster
type Participant struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	IsSelf      bool   `json:"is_self,omitempty"` // false unless this is the local user
	IsMuted     bool   `json:"is_muted"`
}

// Initials returns the upper-cased first letter of each word of the name
func (p Participant) Initials() string {
	var b strings.Builder
	for _, word := range strings.Fields(p.DisplayName) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Label is the name shown in lists, with a marker for the local user
func (p Participant) Label() string {
	if p.IsSelf {
		return p.DisplayName + " (You)"
	}
	return p.DisplayName
}
