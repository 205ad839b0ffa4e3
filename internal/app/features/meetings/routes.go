// internal/app/features/meetings/routes.go
package meetings

import "github.com/go-chi/chi/v5"

// Routes returns the /meetings subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeMeetingsList)
	r.Post("/", h.HandleCreateMeeting)

	// registered before /{id} so "count" is not parsed as an id
	r.Get("/count", h.ServeMeetingCount)

	r.Get("/{id}", h.ServeMeetingView)
	r.Put("/{id}", h.HandleEditMeeting)
	r.Delete("/{id}", h.HandleDeleteMeeting)

	return r
}
