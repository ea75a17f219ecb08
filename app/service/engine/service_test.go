package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sidekick/app/service/conversation"
	"sidekick/app/service/dispatcher"
	"sidekick/app/service/gateway"
	"sidekick/app/service/mood"
	"sidekick/app/service/notes"
	"sidekick/app/service/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent chan sentMessage
}

type sentMessage struct {
	To   string
	Body string
}

func (r *recordingSender) SendText(_ context.Context, to, body string) error {
	r.sent <- sentMessage{To: to, Body: body}
	return nil
}

type staticCompleter struct{}

func (staticCompleter) Complete(_ context.Context, _ []gateway.Turn) (gateway.Turn, error) {
	return gateway.Turn{Role: gateway.RoleAssistant, Content: "pong"}, nil
}

func TestProcessSendsReplyToSender(t *testing.T) {
	notesSvc, err := notes.New(nil)
	require.NoError(t, err)

	moodSvc, err := mood.NewWithPath(filepath.Join(t.TempDir(), "moods.jsonl"))
	require.NoError(t, err)

	dispatcherSvc := dispatcher.NewService(
		conversation.NewWithCompleter(staticCompleter{}),
		notesSvc,
		moodSvc,
	)

	queueSvc, err := queue.New(nil)
	require.NoError(t, err)
	defer queueSvc.Shutdown()

	sender := &recordingSender{sent: make(chan sentMessage, 1)}
	svc := NewService(sender, dispatcherSvc, queueSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go svc.Run(ctx)

	queueSvc.Add(queue.Message{UserID: "user-1", MessageID: "wamid.1", Text: "ping"})

	select {
	case sent := <-sender.sent:
		assert.Equal(t, "user-1", sent.To)
		assert.Equal(t, "pong", sent.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply was sent")
	}
}
