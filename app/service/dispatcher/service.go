package dispatcher

import (
	"context"
	"strings"

	"sidekick/app/service/conversation"
	"sidekick/app/service/mood"
	"sidekick/app/service/notes"
	"sidekick/app/util/keylock"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

type rule struct {
	name    string
	matches func(lower string) bool
	handle  func(ctx context.Context, userID, text string) string
}

// Service classifies each inbound message into exactly one intent and runs
// the matching handler. Rules are evaluated in fixed order, first match wins:
// summarize before notes before mood, with plain chat as the catch-all.
type Service struct {
	conversationSvc *conversation.Service
	notesSvc        *notes.Service
	moodSvc         *mood.Service

	rules []rule
	locks *keylock.KeyedMutex
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*conversation.Service](di),
		do.MustInvoke[*notes.Service](di),
		do.MustInvoke[*mood.Service](di),
	), nil
}

func NewService(
	conversationSvc *conversation.Service,
	notesSvc *notes.Service,
	moodSvc *mood.Service,
) *Service {
	s := &Service{
		conversationSvc: conversationSvc,
		notesSvc:        notesSvc,
		moodSvc:         moodSvc,
		locks:           keylock.New(),
	}

	s.rules = []rule{
		{
			name:    "summarize",
			matches: contains("summarize"),
			handle: func(ctx context.Context, userID, _ string) string {
				return s.conversationSvc.Summarize(ctx, userID)
			},
		},
		{
			name:    "notes",
			matches: contains("note"),
			handle: func(ctx context.Context, userID, text string) string {
				if reply, handled := s.notesSvc.Handle(userID, text); handled {
					return reply
				}

				// No recognized sub-command, treat as plain chat.
				return s.conversationSvc.Chat(ctx, userID, text)
			},
		},
		{
			name:    "mood",
			matches: contains("mood"),
			handle: func(_ context.Context, userID, text string) string {
				return s.moodSvc.Handle(userID, text)
			},
		},
		{
			name:    "chat",
			matches: func(string) bool { return true },
			handle: func(ctx context.Context, userID, text string) string {
				return s.conversationSvc.Chat(ctx, userID, text)
			},
		},
	}

	return s
}

// Dispatch routes one message and returns the reply text. The whole dispatch
// holds the user's lock: concurrent messages from one user are serialized,
// different users proceed in parallel.
func (s *Service) Dispatch(ctx context.Context, userID, text string) string {
	lower := strings.ToLower(text)

	idx := pie.FindFirstUsing(s.rules, func(r rule) bool {
		return r.matches(lower)
	})

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	return s.rules[idx].handle(ctx, userID, text)
}

// Intent reports which rule a text would be routed to.
func (s *Service) Intent(text string) string {
	lower := strings.ToLower(text)

	idx := pie.FindFirstUsing(s.rules, func(r rule) bool {
		return r.matches(lower)
	})

	return s.rules[idx].name
}

func contains(keyword string) func(string) bool {
	return func(lower string) bool {
		return strings.Contains(lower, keyword)
	}
}
