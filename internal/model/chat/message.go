package chat

import "errors"

// Roles accepted on the wire. The server never stores messages; the client
// resubmits the full list on every turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNoMessages  = errors.New("messages are required")
	ErrInvalidRole = errors.New("invalid message role")
)

// Message is a single conversation turn as submitted by the client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidateHistory checks a client-supplied transcript: it must be non-empty,
// every role must be user or assistant, and the latest turn must come from
// the user (that is the turn being answered and moderated).
func ValidateHistory(messages []Message) error {
	if len(messages) == 0 {
		return ErrNoMessages
	}

	for _, msg := range messages {
		if msg.Role != RoleUser && msg.Role != RoleAssistant {
			return ErrInvalidRole
		}
	}

	if messages[len(messages)-1].Role != RoleUser {
		return ErrInvalidRole
	}

	return nil
}

// Latest returns the content of the most recent message.
func Latest(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}
