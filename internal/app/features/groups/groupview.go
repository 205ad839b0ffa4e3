// internal/app/features/groups/groupview.go
package groups

import (
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type groupView struct {
	models.GroupInfo
	MeetingCount int `json:"meeting_count"`
}

// ServeGroupView handles GET /groups/{name}.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	name := groupName(r)

	g, err := h.Reg.Groups().Get(name)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	n, err := h.Reg.Groups().MeetingCount(name)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, groupView{GroupInfo: g, MeetingCount: n})
}

type meetingAtResponse struct {
	Group     string `json:"group"`
	Index     uint64 `json:"index"`
	MeetingID uint64 `json:"meeting_id"`
}

// ServeGroupMeetingAt handles GET /groups/{name}/meetings/{index}.
// Positions are not stable across meeting deletions.
func (h *Handler) ServeGroupMeetingAt(w http.ResponseWriter, r *http.Request) {
	name := groupName(r)
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse meeting index failed", err, "Index must be a non-negative integer.")
		return
	}

	id, err := h.Reg.Meetings().GroupMeetingAt(name, index)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, meetingAtResponse{Group: name, Index: index, MeetingID: id})
}
