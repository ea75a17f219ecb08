package gateway

import "errors"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message exchanged with the model, tagged with its speaker role.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var (
	ErrTimeout   = errors.New("completion timed out")
	ErrProvider  = errors.New("completion provider error")
	ErrMalformed = errors.New("malformed completion response")
)
