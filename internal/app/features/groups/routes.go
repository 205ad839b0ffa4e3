// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the /groups subrouter. Reads are open to anonymous callers;
// the registry rejects mutations from anyone but the owner.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// LIST / CREATE
	r.Get("/", h.ServeGroupsList)
	r.Post("/", h.HandleCreateGroup)

	// VIEW / EDIT / DELETE
	r.Get("/{name}", h.ServeGroupView)
	r.Put("/{name}", h.HandleEditGroup)
	r.Delete("/{name}", h.HandleDeleteGroup)

	// MEMBERSHIP (index → meeting id)
	r.Get("/{name}/meetings/{index}", h.ServeGroupMeetingAt)

	return r
}
