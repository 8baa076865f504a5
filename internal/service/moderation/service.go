// Package moderation gates user input through the OpenAI moderation
// classifier before any completion call is made.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/amandalabs/amanda-chat/backend/internal/config"
)

// ErrUnavailable is returned when the moderation call fails and the gate is
// configured fail-closed.
var ErrUnavailable = errors.New("moderation service unavailable")

// Checker is the decision interface consumed by the chat handler.
type Checker interface {
	// Check reports whether the text is flagged by the content policy.
	Check(ctx context.Context, text string) (flagged bool, err error)
}

// Service implements Checker against the OpenAI moderation endpoint. When no
// API key is configured the gate is disabled and every input is allowed.
type Service struct {
	client *openai.Client
	cfg    config.ModerationConfig
}

// NewService builds the content gate from configuration.
func NewService(cfg config.ModerationConfig) *Service {
	svc := &Service{cfg: cfg}
	if !cfg.Enabled() {
		return svc
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	svc.client = openai.NewClientWithConfig(clientCfg)
	return svc
}

// Enabled reports whether the classifier is actually consulted.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// FailOpen reports the configured policy for classifier failures.
func (s *Service) FailOpen() bool {
	return s.cfg.FailOpen
}

// Check classifies a single text input. A classifier failure is resolved by
// the fail-open toggle: allowed when open, ErrUnavailable when closed.
func (s *Service) Check(ctx context.Context, text string) (bool, error) {
	if s.client == nil {
		return false, nil
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.client.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: s.cfg.Model,
	})
	if err != nil {
		log.Printf("[moderation] classifier call failed: %v", err)
		if s.cfg.FailOpen {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Results) == 0 {
		return false, nil
	}
	return resp.Results[0].Flagged, nil
}
