package conversation

import (
	"context"
	"log/slog"
	"sync"

	"sidekick/app/service/gateway"

	"github.com/samber/do"
)

const (
	errorReply     = "⚠️ LLM service error."
	noHistoryReply = "📭 No chat history to summarize."

	summarizeInstruction = "Summarize this conversation briefly."
)

// Service owns the per-user turn history and the two handlers built on it.
// History only ever grows: appends happen strictly in dispatch order and a
// failed exchange is discarded without touching stored state.
type Service struct {
	completer gateway.Completer

	mu      sync.RWMutex
	history map[string][]gateway.Turn
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		completer: do.MustInvoke[*gateway.Service](di),
		history:   make(map[string][]gateway.Turn),
	}, nil
}

// NewWithCompleter is the test constructor.
func NewWithCompleter(completer gateway.Completer) *Service {
	return &Service{
		completer: completer,
		history:   make(map[string][]gateway.Turn),
	}
}

// Chat sends the full accumulated history plus the new user turn to the
// model. Both turns of the exchange are stored only after the model replied.
func (s *Service) Chat(ctx context.Context, userID, text string) string {
	userTurn := gateway.Turn{Role: gateway.RoleUser, Content: text}
	request := append(s.History(userID), userTurn)

	reply, err := s.completer.Complete(ctx, request)
	if err != nil {
		slog.Error("Chat completion failed", "user_id", userID, "error", err)
		return errorReply
	}

	s.mu.Lock()
	s.history[userID] = append(s.history[userID], userTurn, reply)
	s.mu.Unlock()

	return reply.Content
}

// Summarize asks the model for a brief summary of the stored history. It is
// non-destructive: neither the instruction nor the summary become turns.
func (s *Service) Summarize(ctx context.Context, userID string) string {
	history := s.History(userID)
	if len(history) == 0 {
		return noHistoryReply
	}

	request := append(history, gateway.Turn{
		Role:    gateway.RoleUser,
		Content: summarizeInstruction,
	})

	reply, err := s.completer.Complete(ctx, request)
	if err != nil {
		slog.Error("Summarize completion failed", "user_id", userID, "error", err)
		return errorReply
	}

	return reply.Content
}

// History returns a copy of the user's stored turns, empty for unknown users.
func (s *Service) History(userID string) []gateway.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.history[userID]

	turns := make([]gateway.Turn, len(stored))
	copy(turns, stored)

	return turns
}
