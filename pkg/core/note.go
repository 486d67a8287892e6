package core

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// SubjectLength is the number of runes of content kept as the note subject.
	SubjectLength = 100
	// MaxTitleLength is the longest title accepted when validation is enabled.
	MaxTitleLength = 100
)

// Note is the central entity of the domain.
// A note is identified by ID; its position in the collection is only a view.
type Note struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Title   string `json:"title" yaml:"title"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Content string `json:"content" yaml:"content"`
	Date    string `json:"date" yaml:"date"`
}

// BlankNote returns the empty edit buffer.
func BlankNote() Note {
	return Note{}
}

// IsBlank reports whether the note carries no user data.
func (n Note) IsBlank() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == ""
}

// Time parses Date. The zero time is returned for blank or malformed dates.
func (n Note) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, n.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// stamp returns a copy of n with a fresh date and a recomputed subject.
func stamp(n Note, now time.Time) Note {
	n.Date = now.UTC().Format(time.RFC3339Nano)
	n.Subject = Subject(n.Content)
	return n
}

// Subject returns the leading SubjectLength runes of content.
func Subject(content string) string {
	if utf8.RuneCountInString(content) <= SubjectLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:SubjectLength])
}

// NewID generates a stable note identifier.
func NewID() string {
	return uuid.NewString()
}

// Validate applies the write rules of the notes backend:
// title must be non-blank and at most MaxTitleLength runes, content must be non-blank.
func Validate(n Note) error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidNote)
	}
	if utf8.RuneCountInString(n.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalidNote, MaxTitleLength)
	}
	if strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("%w: content must not be empty", ErrInvalidNote)
	}
	return nil
}

// Clone returns a copy of the slice so callers can't alias store state.
func Clone(notes []Note) []Note {
	if notes == nil {
		return []Note{}
	}
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}
