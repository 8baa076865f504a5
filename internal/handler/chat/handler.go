package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	"github.com/amandalabs/amanda-chat/backend/internal/model/chat"
	"github.com/amandalabs/amanda-chat/backend/internal/service/ai"
	"github.com/amandalabs/amanda-chat/backend/internal/service/moderation"
	"github.com/amandalabs/amanda-chat/backend/pkg/utils"
)

// ReplyGenerator is the conversation relay surface the handler depends on.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, history []chat.Message) (string, error)
	StreamReply(ctx context.Context, history []chat.Message) (*schema.StreamReader[*schema.Message], error)
	StreamingEnabled() bool
}

// Handler serves the gated chat surface. Routes registered here must sit
// behind middleware.RequireSession.
type Handler struct {
	relay ReplyGenerator
	gate  moderation.Checker
}

// New creates the chat handler. relay may be nil when the completion API is
// not configured; the handler then answers with the fallback reply.
func New(relay ReplyGenerator, gate moderation.Checker) *Handler {
	return &Handler{relay: relay, gate: gate}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/chat/stream", h.handleChatStream)
}

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

// validateRequest decodes and checks the payload, and runs the latest user
// message through the content gate. It writes the error response itself and
// returns false when the turn must not reach the completion API.
func (h *Handler) validateRequest(w http.ResponseWriter, r *http.Request) ([]chat.Message, bool) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid_messages")
		return nil, false
	}

	if err := chat.ValidateHistory(payload.Messages); err != nil {
		code := "invalid_messages"
		if errors.Is(err, chat.ErrInvalidRole) {
			code = "invalid_message_role"
		}
		utils.RespondError(w, http.StatusBadRequest, code)
		return nil, false
	}

	flagged, err := h.gate.Check(r.Context(), chat.Latest(payload.Messages))
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "moderation_unavailable")
		return nil, false
	}
	if flagged {
		utils.RespondError(w, http.StatusBadRequest, "moderation_flagged")
		return nil, false
	}

	return payload.Messages, true
}

// handleChat answers one conversation turn. Relay failures degrade to the
// fixed fallback string rather than a user-visible error.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	messages, ok := h.validateRequest(w, r)
	if !ok {
		return
	}

	reply := ai.FallbackReply
	if h.relay != nil {
		generated, err := h.relay.GenerateReply(r.Context(), messages)
		if err != nil {
			log.Printf("[chat] reply generation failed: %v", err)
		} else {
			reply = generated
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": reply})
}

// streamChunk is one SSE frame of the streamed reply.
type streamChunk struct {
	Event   string `json:"event"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleChatStream answers one turn as an SSE stream of reply chunks.
func (h *Handler) handleChatStream(w http.ResponseWriter, r *http.Request) {
	messages, ok := h.validateRequest(w, r)
	if !ok {
		return
	}

	if h.relay == nil || !h.relay.StreamingEnabled() {
		utils.RespondError(w, http.StatusServiceUnavailable, "streaming_unavailable")
		return
	}

	flusher, flushable := w.(http.Flusher)
	if !flushable {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	stream, err := h.relay.StreamReply(r.Context(), messages)
	if err != nil {
		log.Printf("[chat] stream start failed: %v", err)
		utils.RespondError(w, http.StatusServiceUnavailable, "inference_unavailable")
		return
	}
	defer stream.Close()

	utils.SetupSSEHeaders(w)
	utils.SendSSEChunk(w, flusher, streamChunk{Event: "start"})

	var full strings.Builder
	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("[chat] stream recv failed: %v", err)
			utils.SendSSEChunk(w, flusher, streamChunk{Event: "error", Error: "inference_unavailable"})
			return
		}
		if msg.Content == "" {
			continue
		}
		full.WriteString(msg.Content)
		utils.SendSSEChunk(w, flusher, streamChunk{Event: "chunk", Content: msg.Content})
	}

	utils.SendSSEChunk(w, flusher, streamChunk{Event: "done", Content: full.String()})
}
