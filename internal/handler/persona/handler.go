package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	personaModel "github.com/amandalabs/amanda-chat/backend/internal/model/persona"
	"github.com/amandalabs/amanda-chat/backend/pkg/utils"
)

// Handler exposes the shipped persona so the landing page can render it.
type Handler struct {
	persona personaModel.Persona
}

// New creates the persona handler.
func New(p personaModel.Persona) *Handler {
	return &Handler{persona: p}
}

// RegisterRoutes registers the persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persona", h.handleGet)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.persona)
}
