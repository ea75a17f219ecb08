package queue

import (
	"log/slog"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	queue chan Message
}

// Message is one decoded inbound text message awaiting dispatch.
type Message struct {
	UserID    string
	MessageID string
	Text      string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan Message, bufferSize),
	}, nil
}

// Add enqueues a message without blocking the webhook handler. A full queue
// drops the message with a warning; the platform already got its 200.
func (s *Service) Add(msg Message) {
	defer func() {
		if r := recover(); r != nil {

		}
	}()

	select {
	case s.queue <- msg:
	default:
		slog.Warn("message queue is full", "message_id", msg.MessageID)
	}
}

func (s *Service) Channel() <-chan Message {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
