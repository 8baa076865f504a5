// Package ai relays client-held conversation history to the completion API
// with the fixed persona instruction prepended.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/amandalabs/amanda-chat/backend/internal/config"
	"github.com/amandalabs/amanda-chat/backend/internal/model/chat"
	"github.com/amandalabs/amanda-chat/backend/internal/model/persona"
)

// ErrInferenceUnavailable covers upstream completion failures and empty
// choices. Callers substitute FallbackReply instead of surfacing it.
var ErrInferenceUnavailable = errors.New("inference unavailable")

// FallbackReply is shown to the user when the completion API fails.
const FallbackReply = "I'm having a moment... can you try that again?"

// Service runs the persona-conditioned completion chain.
type Service struct {
	chatModel    model.ChatModel
	cfg          config.AIConfig
	chain        compose.Runnable[map[string]any, *schema.Message]
	systemPrompt string
}

// NewService creates the relay with a model built from configuration.
func NewService(ctx context.Context, p persona.Persona, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, p, cfg, chatModel)
}

// NewServiceWithModel wires the relay around an existing chat model instance.
func NewServiceWithModel(ctx context.Context, p persona.Persona, cfg config.AIConfig, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel:    chatModel,
		cfg:          cfg,
		chain:        runnable,
		systemPrompt: BuildSystemPrompt(p),
	}, nil
}

// StreamingEnabled indicates whether SSE streaming output is configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.Stream
}

// GenerateReply produces the assistant's next turn for the supplied history.
// The history must already be validated: non-empty, last turn from the user.
func (s *Service) GenerateReply(ctx context.Context, history []chat.Message) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	response, err := s.chain.Invoke(ctx, s.buildChainInput(history))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
	}

	reply := strings.TrimSpace(response.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: empty completion", ErrInferenceUnavailable)
	}

	log.Printf("[ai] generated reply, length=%d", len(reply))
	return reply, nil
}

// StreamReply streams the assistant's next turn chunk by chunk. The caller
// owns the context; cancelling it tears the stream down.
func (s *Service) StreamReply(ctx context.Context, history []chat.Message) (*schema.StreamReader[*schema.Message], error) {
	if !s.cfg.Stream {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	stream, err := s.chain.Stream(ctx, s.buildChainInput(history))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
	}
	return stream, nil
}

func (s *Service) buildChainInput(history []chat.Message) map[string]any {
	return map[string]any{
		"system":  s.systemPrompt,
		"history": buildHistoryMessages(history[:len(history)-1]),
		"query":   chat.Latest(history),
	}
}

// buildHistoryMessages converts prior turns into model messages. The client
// resubmits the full transcript every turn, so no truncation happens here.
func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
