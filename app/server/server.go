package server

import (
	"context"
	"log/slog"

	"sidekick/app/config"
	"sidekick/app/service/queue"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

// Service is the inbound edge: Meta's verification challenge on GET and the
// message webhook on POST. Handlers never surface business-logic outcomes to
// the platform, only decoding errors.
type Service struct {
	cfg      *config.Config
	queueSvc *queue.Service
	app      *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		queueSvc: do.MustInvoke[*queue.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s.app.Get("/webhook", s.handleVerify)
	s.app.Post("/webhook", s.handleInbound)

	return s, nil
}

func (s *Service) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.app.Shutdown(); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	return s.app.Listen(s.cfg.Server.Addr)
}

// App exposes the fiber app for in-process request tests.
func (s *Service) App() *fiber.App {
	return s.app
}

func (s *Service) handleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token != s.cfg.WhatsApp.VerifyToken {
		return c.SendStatus(fiber.StatusForbidden)
	}

	slog.Info("Webhook verified")

	return c.SendString(challenge)
}

func (s *Service) handleInbound(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	msg, ok := extractTextMessage(payload)
	if !ok {
		// Status updates and non-text payloads are acknowledged and dropped.
		return c.SendStatus(fiber.StatusOK)
	}

	slog.Info("New message", "user_id", msg.UserID, "message_id", msg.MessageID)

	s.queueSvc.Add(msg)

	return c.SendStatus(fiber.StatusOK)
}

func extractTextMessage(payload webhookPayload) (queue.Message, bool) {
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return queue.Message{}, false
	}

	messages := payload.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return queue.Message{}, false
	}

	inbound := messages[0]
	if inbound.Text == nil || inbound.Text.Body == "" {
		return queue.Message{}, false
	}

	return queue.Message{
		UserID:    inbound.From,
		MessageID: inbound.ID,
		Text:      inbound.Text.Body,
	}, true
}
