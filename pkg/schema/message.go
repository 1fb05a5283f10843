package schema

import (
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Message is one role-tagged turn in a thread
type Message struct {
	ID        string `json:"id" yaml:"id"`
	Object    string `json:"object" yaml:"object"`
	CreatedAt int64  `json:"created_at" yaml:"created_at"`
	ThreadID  string `json:"thread_id" yaml:"thread_id"`
	Role      string `json:"role" yaml:"role"`
	Content   string `json:"content" yaml:"content"`
}

// Turn is the role and text of a message as sent to the model
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Message role constants
const (
	RoleUser  = "user"
	RoleModel = "model"
)

const (
	ObjectMessage = "thread.message"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsRole returns true if role is one of the roles a thread accepts
func IsRole(role string) bool {
	switch role {
	case RoleUser, RoleModel:
		return true
	default:
		return false
	}
}

// NormaliseRole lower-cases the role and maps "assistant" to "model"
func NormaliseRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "assistant" {
		return RoleModel
	}
	return role
}

// Turn returns the role and content of the message
func (m Message) Turn() Turn {
	return Turn{Role: m.Role, Text: m.Content}
}

// Turns converts messages into the ordered history sent to the model
func Turns(messages []*Message) []Turn {
	result := make([]Turn, 0, len(messages))
	for _, message := range messages {
		result = append(result, message.Turn())
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Message) String() string {
	return types.Stringify(m)
}

func (t Turn) String() string {
	return types.Stringify(t)
}

////////////////////////////////////////////////////////////////////////////////
// REQUESTS

// MessageMeta is the role and content of a message to append to a thread
type MessageMeta struct {
	Role    string `json:"role" yaml:"role" help:"Message role, user or model"`
	Content string `json:"content" yaml:"content" help:"Message text"`
}

func (m MessageMeta) String() string {
	return types.Stringify(m)
}
