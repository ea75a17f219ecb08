package engine

import (
	"context"
	"log/slog"
	"time"

	"sidekick/app/client/whatsapp"
	"sidekick/app/service/dispatcher"
	"sidekick/app/service/queue"

	"github.com/google/uuid"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const workerCount = 4

// Service drains the inbound queue with a small worker pool: dispatch the
// message, send the reply back out. Per-user ordering is the dispatcher's
// job; the pool only keeps slow users from blocking everyone else.
type Service struct {
	sender        whatsapp.Sender
	dispatcherSvc *dispatcher.Service
	queueSvc      *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		sender:        do.MustInvoke[*whatsapp.Client](di),
		dispatcherSvc: do.MustInvoke[*dispatcher.Service](di),
		queueSvc:      do.MustInvoke[*queue.Service](di),
	}, nil
}

func NewService(
	sender whatsapp.Sender,
	dispatcherSvc *dispatcher.Service,
	queueSvc *queue.Service,
) *Service {
	return &Service{
		sender:        sender,
		dispatcherSvc: dispatcherSvc,
		queueSvc:      queueSvc,
	}
}

func (s *Service) Run(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)

	for range workerCount {
		g.Go(func() error {
			return s.runWorker(ctx)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		slog.Error("Engine stopped", "error", err)
	}
}

func (s *Service) runWorker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return nil
			}

			s.process(ctx, msg)
		}
	}
}

// process runs one message to completion. Dispatch always yields a reply;
// send failures are logged and not retried.
func (s *Service) process(ctx context.Context, msg queue.Message) {
	correlationID := uuid.NewString()
	start := time.Now()

	reply := s.dispatcherSvc.Dispatch(ctx, msg.UserID, msg.Text)

	if err := s.sender.SendText(ctx, msg.UserID, reply); err != nil {
		slog.Error("Failed to send reply",
			"correlation_id", correlationID,
			"user_id", msg.UserID,
			"error", err,
		)
		return
	}

	slog.Info("Processed message",
		"correlation_id", correlationID,
		"user_id", msg.UserID,
		"intent", s.dispatcherSvc.Intent(msg.Text),
		"duration", time.Since(start),
	)
}
