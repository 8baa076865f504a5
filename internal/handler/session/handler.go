package session

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessionModel "github.com/amandalabs/amanda-chat/backend/internal/session"
	"github.com/amandalabs/amanda-chat/backend/pkg/utils"
)

// Handler lets the frontend ask whether its stored credential is still good.
type Handler struct {
	codec *sessionModel.Codec
}

// New creates the session verification handler.
func New(codec *sessionModel.Codec) *Handler {
	return &Handler{codec: codec}
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session/verify", h.handleVerify)
}

// verifyResponse always ships with status 200; the body carries the verdict.
type verifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionModel.CookieName)
	if err != nil || cookie.Value == "" {
		utils.RespondJSON(w, http.StatusOK, verifyResponse{Valid: false, Error: "no_token"})
		return
	}

	if _, err := h.codec.Verify(cookie.Value); err != nil {
		reason := "invalid_token"
		if errors.Is(err, sessionModel.ErrNotPaid) {
			reason = "not_paid"
		}
		utils.RespondJSON(w, http.StatusOK, verifyResponse{Valid: false, Error: reason})
		return
	}

	utils.RespondJSON(w, http.StatusOK, verifyResponse{Valid: true})
}
