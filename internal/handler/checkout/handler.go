package checkout

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amandalabs/amanda-chat/backend/internal/session"
	checkoutService "github.com/amandalabs/amanda-chat/backend/internal/service/checkout"
	"github.com/amandalabs/amanda-chat/backend/pkg/utils"
)

// Handler exposes checkout initiation and the payment success callback.
type Handler struct {
	svc          *checkoutService.Service
	baseURL      string
	secureCookie bool
}

// New creates the checkout handler. baseURL is the public origin used for
// post-payment redirects; secureCookie should be true in production.
func New(svc *checkoutService.Service, baseURL string, secureCookie bool) *Handler {
	return &Handler{
		svc:          svc,
		baseURL:      baseURL,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the checkout routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout", h.handleCreate)
	r.Get("/checkout/callback", h.handleCallback)
}

// handleCreate opens a hosted checkout and returns its URL. Creation is a
// billable remote call; failures surface as a generic 500 and are never
// retried here.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.StartCheckout(r.Context())
	if err != nil {
		log.Printf("[checkout] start failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// handleCallback is the success redirect target. It verifies the payment,
// mints the session credential into a cookie, and sends the browser to the
// chat surface. Every rejection maps to a distinct error code on the landing
// page so it can render a specific message.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	transactionID := r.URL.Query().Get("transaction_id")
	correlationID := r.URL.Query().Get("correlation_id")

	if transactionID == "" || correlationID == "" {
		h.redirectError(w, r, "invalid_session")
		return
	}

	token, err := h.svc.CompleteSession(r.Context(), transactionID, correlationID)
	if err != nil {
		switch {
		case errors.Is(err, checkoutService.ErrPaymentNotCompleted):
			h.redirectError(w, r, "payment_failed")
		case errors.Is(err, checkoutService.ErrCorrelationMismatch):
			h.redirectError(w, r, "invalid_token")
		default:
			log.Printf("[checkout] callback verification failed: %v", err)
			h.redirectError(w, r, "verification_failed")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.svc.CookieTTL(),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.baseURL+"/chat", http.StatusFound)
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.baseURL+"/?error="+code, http.StatusFound)
}
