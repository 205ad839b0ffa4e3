// internal/app/features/meetings/meetingnew.go
package meetings

import (
	"net/http"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/features/shared"
	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/dalemusser/converge/internal/app/system/htmlsanitize"
)

type createMeetingRequest struct {
	GroupName   string `json:"group_name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        int64  `json:"date"`
}

// HandleCreateMeeting handles POST /meetings and answers 201 with the new
// meeting, including its id.
func (h *Handler) HandleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode create meeting failed", err, "Invalid JSON body.")
		return
	}
	htmlsanitize.Fields(&req.Title, &req.Description, &req.Location)

	caller := auth.Caller(r)
	id, err := h.Reg.Meetings().Add(caller, req.GroupName, req.Title, req.Description, req.Location, req.Date)
	h.Audit.MeetingCreated(r.Context(), r, caller, req.GroupName, id, err)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	h.persist(r.Context(), "addMeeting")

	m, err := h.Reg.Meetings().Get(id)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, m)
}
