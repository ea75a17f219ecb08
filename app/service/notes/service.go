package notes

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/do"
)

const (
	notFoundReply = "⚠️ Note not found."
	noNotesReply  = "📭 No notes yet."
)

type Note struct {
	Text string
	Done bool
}

// Service owns the per-user note lists. Indices shown to users are 1-based
// and removal renumbers everything after the removed entry.
type Service struct {
	mu    sync.RWMutex
	notes map[string][]Note
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		notes: make(map[string][]Note),
	}, nil
}

// Handle parses the note sub-command out of text. The second return value is
// false when no sub-command matched, so the dispatcher can fall through to
// plain chat instead of swallowing the message.
func (s *Service) Handle(userID, text string) (string, bool) {
	lower := strings.ToLower(text)

	switch {
	case strings.HasPrefix(lower, "add note"):
		return s.add(userID, strings.TrimSpace(text[len("add note"):])), true
	case strings.HasPrefix(lower, "strike note"):
		return s.strike(userID, strings.TrimSpace(text[len("strike note"):])), true
	case strings.HasPrefix(lower, "remove note"):
		return s.remove(userID, strings.TrimSpace(text[len("remove note"):])), true
	case strings.Contains(lower, "show notes"):
		return s.show(userID), true
	}

	return "", false
}

func (s *Service) add(userID, text string) string {
	s.mu.Lock()
	s.notes[userID] = append(s.notes[userID], Note{Text: text})
	s.mu.Unlock()

	return fmt.Sprintf("📝 Note added: %q", text)
}

func (s *Service) strike(userID, rawIndex string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.parseIndex(userID, rawIndex)
	if !ok {
		return notFoundReply
	}

	s.notes[userID][idx].Done = true

	return fmt.Sprintf("✔️ Marked note %d as done.", idx+1)
}

func (s *Service) remove(userID, rawIndex string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.parseIndex(userID, rawIndex)
	if !ok {
		return notFoundReply
	}

	removed := s.notes[userID][idx]
	s.notes[userID] = append(s.notes[userID][:idx], s.notes[userID][idx+1:]...)

	return fmt.Sprintf("🗑️ Removed note: %q", removed.Text)
}

func (s *Service) show(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := s.notes[userID]
	if len(notes) == 0 {
		return noNotesReply
	}

	var builder strings.Builder
	builder.WriteString("📒 Your notes:")

	for i, note := range notes {
		marker := "❌"
		if note.Done {
			marker = "✔️"
		}

		builder.WriteString(fmt.Sprintf("\n%d. %s %s", i+1, marker, note.Text))
	}

	return builder.String()
}

// parseIndex converts a user-facing 1-based index into a slice offset.
// Callers must hold the mutex.
func (s *Service) parseIndex(userID, raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	idx := n - 1
	if idx < 0 || idx >= len(s.notes[userID]) {
		return 0, false
	}

	return idx, true
}

// List returns a copy of the user's notes in insertion order.
func (s *Service) List(userID string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.notes[userID]

	notes := make([]Note, len(stored))
	copy(notes, stored)

	return notes
}
