// internal/app/features/meetings/list.go
package meetings

import (
	"net/http"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/domain/models"
)

type listResponse struct {
	Meetings []models.MeetingInfo `json:"meetings"`
	Count    int                  `json:"count"`
}

// ServeMeetingsList handles GET /meetings: active meetings, ascending id.
func (h *Handler) ServeMeetingsList(w http.ResponseWriter, r *http.Request) {
	ms := h.Reg.Meetings().List()
	uierrors.WriteJSON(w, http.StatusOK, listResponse{Meetings: ms, Count: len(ms)})
}

type countResponse struct {
	Count uint64 `json:"count"`
}

// ServeMeetingCount handles GET /meetings/count. The value is the id the
// next meeting will receive; deleted meetings still count.
func (h *Handler) ServeMeetingCount(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, countResponse{Count: h.Reg.Meetings().Count()})
}

// ServeMeetingView handles GET /meetings/{id}.
func (h *Handler) ServeMeetingView(w http.ResponseWriter, r *http.Request) {
	id, ok := h.meetingID(w, r)
	if !ok {
		return
	}
	m, err := h.Reg.Meetings().Get(id)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, m)
}
