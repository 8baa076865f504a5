package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/amandalabs/amanda-chat/backend/internal/config"
	chatHandler "github.com/amandalabs/amanda-chat/backend/internal/handler/chat"
	checkoutHandler "github.com/amandalabs/amanda-chat/backend/internal/handler/checkout"
	personaHandler "github.com/amandalabs/amanda-chat/backend/internal/handler/persona"
	sessionHandler "github.com/amandalabs/amanda-chat/backend/internal/handler/session"
	middlewarePkg "github.com/amandalabs/amanda-chat/backend/internal/middleware"
	personaModel "github.com/amandalabs/amanda-chat/backend/internal/model/persona"
	"github.com/amandalabs/amanda-chat/backend/internal/service/ai"
	checkoutService "github.com/amandalabs/amanda-chat/backend/internal/service/checkout"
	moderationService "github.com/amandalabs/amanda-chat/backend/internal/service/moderation"
	"github.com/amandalabs/amanda-chat/backend/internal/session"
)

// NewRouter wires HTTP routes to core services. aiSvc may be nil when the
// completion API is not configured; the chat surface then degrades to the
// fallback reply.
func NewRouter(
	serverCfg config.ServerConfig,
	codec *session.Codec,
	checkoutSvc *checkoutService.Service,
	aiSvc *ai.Service,
	gate *moderationService.Service,
	p personaModel.Persona,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{serverCfg.PublicBaseURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	r.Use(corsHandler.Handler)

	// A nil *ai.Service must stay a nil interface for the chat handler.
	var relay chatHandler.ReplyGenerator
	if aiSvc != nil {
		relay = aiSvc
	}

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(p).RegisterRoutes(api)
		checkoutHandler.New(checkoutSvc, serverCfg.PublicBaseURL, serverCfg.Production).RegisterRoutes(api)
		sessionHandler.New(codec).RegisterRoutes(api)

		api.Group(func(gated chi.Router) {
			gated.Use(middlewarePkg.RequireSession(codec))
			chatHandler.New(relay, gate).RegisterRoutes(gated)
		})
	})

	return r
}
