package admin

import (
	"net/http"

	"github.com/dalemusser/stratapage/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns the admin API router.
//
// Login, setup and the published-content read are public; logout needs a
// bearer token but does not verify it; everything else requires a valid
// admin token.
func Routes(h *Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	requireAdmin := auth.BearerAuth(h.auth, logger)

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", h.Login)
		ar.With(auth.RequireBearer(logger)).Post("/logout", h.Logout)
		ar.With(requireAdmin).Get("/me", h.Me)
		ar.With(requireAdmin).Post("/change-password", h.ChangePassword)
	})

	r.Post("/setup", h.Setup)

	r.Route("/content", func(cr chi.Router) {
		cr.Get("/published", h.Published)

		cr.Group(func(pr chi.Router) {
			pr.Use(requireAdmin)
			// static segments are registered before /{id}
			pr.Get("/all", h.ListAll)
			pr.Get("/summary", h.Summary)
			pr.Post("/draft", h.CreateDraft)
			pr.Get("/{id}", h.Get)
			pr.Put("/{id}", h.Update)
			pr.Post("/{id}/publish", h.Publish)
			pr.Delete("/{id}", h.Delete)
		})
	})

	return r
}
