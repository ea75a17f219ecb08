package mood

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"sidekick/app/config"

	"github.com/samber/do"
)

const (
	noMoodsReply   = "📭 No mood logs yet."
	saveErrorReply = "⚠️ Couldn't save your mood, it was not logged."

	timeLayout = "2006-01-02 15:04:05"
)

// Service owns the per-user mood log. Every logged mood is appended to a
// durable JSON-lines file before it is acknowledged; the file is replayed at
// startup so listings survive restarts.
type Service struct {
	logPath string

	mu    sync.RWMutex
	moods map[string][]Entry
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewWithPath(cfg.Storage.MoodLogPath)
}

func NewWithPath(logPath string) (*Service, error) {
	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create mood log directory: %w", err)
		}
	}

	s := &Service{
		logPath: logPath,
		moods:   make(map[string][]Entry),
	}

	if err := s.replay(); err != nil {
		return nil, fmt.Errorf("failed to replay mood log: %w", err)
	}

	return s, nil
}

// Handle routes a mood message: "show mood" is checked before anything is
// treated as loggable content, so the literal text "show" never gets logged.
func (s *Service) Handle(userID, text string) string {
	if strings.Contains(strings.ToLower(text), "show mood") {
		return s.show(userID)
	}

	return s.log(userID, stripKeyword(text))
}

func (s *Service) log(userID, moodText string) string {
	entry := Entry{
		Mood: moodText,
		Time: time.Now().Format(timeLayout),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendDurable(userID, entry); err != nil {
		slog.Error("Mood log write failed", "user_id", userID, "error", err)
		return saveErrorReply
	}

	s.moods[userID] = append(s.moods[userID], entry)

	return fmt.Sprintf("💖 Mood logged: %q", entry.Mood)
}

func (s *Service) show(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.moods[userID]
	if len(entries) == 0 {
		return noMoodsReply
	}

	var builder strings.Builder
	builder.WriteString("🧘 Your mood log:")

	for i, entry := range entries {
		builder.WriteString(fmt.Sprintf("\n%d. [%s] %s", i+1, entry.Time, entry.Mood))
	}

	return builder.String()
}

// appendDurable writes one JSON line and syncs it before the caller may
// acknowledge the mood. Callers must hold the mutex.
func (s *Service) appendDurable(userID string, entry Entry) error {
	file, err := os.OpenFile(s.logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open mood log: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(jsonLineItem{
		UserID: userID,
		Mood:   entry.Mood,
		Time:   entry.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal mood entry: %w", err)
	}

	if _, err = file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write mood entry: %w", err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync mood log: %w", err)
	}

	return nil
}

// replay rebuilds the in-memory state from the durable log. File order is
// per-user insertion order because appends are serialized per user.
func (s *Service) replay() error {
	file, err := os.OpenFile(s.logPath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open mood log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item jsonLineItem
		if err = json.Unmarshal([]byte(line), &item); err != nil {
			return fmt.Errorf("failed to parse JSON line: %w", err)
		}

		s.moods[item.UserID] = append(s.moods[item.UserID], Entry{
			Mood: item.Mood,
			Time: item.Time,
		})
	}

	if err = scanner.Err(); err != nil {
		return fmt.Errorf("error reading mood log: %w", err)
	}

	return nil
}

// List returns a copy of the user's mood entries in insertion order.
func (s *Service) List(userID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.moods[userID]

	entries := make([]Entry, len(stored))
	copy(entries, stored)

	return entries
}

// stripKeyword removes the first occurrence of "mood" regardless of case and
// trims what remains, mirroring how the log content is extracted from texts
// like "mood happy" or "Mood: tired".
func stripKeyword(text string) string {
	lower := strings.ToLower(text)

	idx := strings.Index(lower, "mood")
	if idx < 0 {
		return strings.TrimSpace(text)
	}

	return strings.TrimSpace(text[:idx] + text[idx+len("mood"):])
}
