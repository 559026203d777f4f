package content

import (
	"net/http"

	"github.com/dalemusser/stratapage/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns the public content router. Preview requires a valid admin
// bearer token so drafts are not readable anonymously.
func Routes(h *Handler, verifier auth.TokenVerifier, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Get("/landing-page", h.LandingPage)
	r.With(auth.BearerAuth(verifier, logger)).Get("/preview/{id}", h.Preview)
	return r
}
