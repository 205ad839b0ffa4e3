// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under the path where this router is mounted
// (typically "/audit" from bootstrap). Anonymous callers get 401; callers
// other than the owner get 403.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireCaller)
		pr.Get("/", h.ServeList)
	})

	return r
}
