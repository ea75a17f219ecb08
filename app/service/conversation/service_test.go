package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sidekick/app/service/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	calls   int
	reply   string
	err     error
	lastReq []gateway.Turn
}

func (f *fakeCompleter) Complete(_ context.Context, turns []gateway.Turn) (gateway.Turn, error) {
	f.calls++
	f.lastReq = turns

	if f.err != nil {
		return gateway.Turn{}, f.err
	}

	return gateway.Turn{Role: gateway.RoleAssistant, Content: f.reply}, nil
}

func TestChatAppendsExchange(t *testing.T) {
	fake := &fakeCompleter{reply: "hello there"}
	svc := NewWithCompleter(fake)

	reply := svc.Chat(context.Background(), "user-1", "hi")
	require.Equal(t, "hello there", reply)

	history := svc.History("user-1")
	require.Len(t, history, 2)
	assert.Equal(t, gateway.Turn{Role: gateway.RoleUser, Content: "hi"}, history[0])
	assert.Equal(t, gateway.Turn{Role: gateway.RoleAssistant, Content: "hello there"}, history[1])
}

func TestChatSendsFullHistory(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	svc := NewWithCompleter(fake)
	ctx := context.Background()

	svc.Chat(ctx, "user-1", "first")
	svc.Chat(ctx, "user-1", "second")

	// Two stored turns from the first exchange plus the new user turn.
	require.Len(t, fake.lastReq, 3)
	assert.Equal(t, "second", fake.lastReq[2].Content)
}

func TestChatFailureLeavesHistoryUntouched(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	svc := NewWithCompleter(fake)
	ctx := context.Background()

	svc.Chat(ctx, "user-1", "hi")
	before := svc.History("user-1")

	fake.err = fmt.Errorf("%w: boom", gateway.ErrTimeout)

	reply := svc.Chat(ctx, "user-1", "are you there?")
	assert.Equal(t, errorReply, reply)
	assert.Equal(t, before, svc.History("user-1"))
}

func TestChatIsolatesUsers(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	svc := NewWithCompleter(fake)

	svc.Chat(context.Background(), "user-1", "hi")

	assert.Len(t, svc.History("user-1"), 2)
	assert.Empty(t, svc.History("user-2"))
}

func TestSummarizeEmptyHistorySkipsGateway(t *testing.T) {
	fake := &fakeCompleter{reply: "summary"}
	svc := NewWithCompleter(fake)

	reply := svc.Summarize(context.Background(), "user-1")

	assert.Equal(t, noHistoryReply, reply)
	assert.Zero(t, fake.calls)
}

func TestSummarizeDoesNotMutateHistory(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	svc := NewWithCompleter(fake)
	ctx := context.Background()

	svc.Chat(ctx, "user-1", "hi")
	before := svc.History("user-1")

	fake.reply = "a brief summary"

	reply := svc.Summarize(ctx, "user-1")
	require.Equal(t, "a brief summary", reply)

	// The request carried the synthetic instruction turn.
	require.Len(t, fake.lastReq, 3)
	assert.Equal(t, summarizeInstruction, fake.lastReq[2].Content)

	assert.Equal(t, before, svc.History("user-1"))
}

func TestSummarizeFailureReturnsErrorReply(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	svc := NewWithCompleter(fake)
	ctx := context.Background()

	svc.Chat(ctx, "user-1", "hi")

	fake.err = errors.New("provider exploded")

	assert.Equal(t, errorReply, svc.Summarize(ctx, "user-1"))
}
