package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sidekick/app/config"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const (
	maxCompletionDuration = 30 * time.Second
	maxCompletionTokens   = 1000
)

// Completer is the contract handlers depend on, so tests can swap the
// real client out.
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (Turn, error)
}

var _ Completer = (*Service)(nil)

type Service struct {
	cfg    *config.Config
	client *openai.Client
	model  string
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	clientConfig := openai.DefaultConfig(cfg.OpenAI.Token)
	clientConfig.BaseURL = cfg.OpenAI.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: maxCompletionDuration,
	}

	return &Service{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenAI.Model,
	}, nil
}

// Complete sends the accumulated turns to the model and returns exactly one
// assistant turn. Failures are mapped onto the gateway sentinels; the request
// is never retried.
func (s *Service) Complete(ctx context.Context, turns []Turn) (Turn, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, maxCompletionDuration)
	defer cancel()

	aiResponse, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:               s.model,
			Messages:            messages,
			MaxCompletionTokens: maxCompletionTokens,
		},
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Turn{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		return Turn{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if len(aiResponse.Choices) == 0 {
		return Turn{}, fmt.Errorf("%w: no choices", ErrMalformed)
	}

	content := strings.TrimSpace(aiResponse.Choices[0].Message.Content)
	if content == "" {
		return Turn{}, fmt.Errorf("%w: empty choice content", ErrMalformed)
	}

	return Turn{Role: RoleAssistant, Content: content}, nil
}
