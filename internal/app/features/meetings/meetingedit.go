// internal/app/features/meetings/meetingedit.go
package meetings

import (
	"net/http"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/features/shared"
	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/dalemusser/converge/internal/app/system/htmlsanitize"
)

type editMeetingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        int64  `json:"date"`
}

// HandleEditMeeting handles PUT /meetings/{id}. The meeting's group cannot
// change.
func (h *Handler) HandleEditMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.meetingID(w, r)
	if !ok {
		return
	}

	var req editMeetingRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode edit meeting failed", err, "Invalid JSON body.")
		return
	}
	htmlsanitize.Fields(&req.Title, &req.Description, &req.Location)

	caller := auth.Caller(r)
	err := h.Reg.Meetings().Update(caller, id, req.Title, req.Description, req.Location, req.Date)
	h.Audit.MeetingUpdated(r.Context(), r, caller, id, err)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	h.persist(r.Context(), "updateMeeting")

	m, err := h.Reg.Meetings().Get(id)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, m)
}

// HandleDeleteMeeting handles DELETE /meetings/{id}. The id is never reused.
func (h *Handler) HandleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.meetingID(w, r)
	if !ok {
		return
	}

	caller := auth.Caller(r)
	err := h.Reg.Meetings().Delete(caller, id)
	h.Audit.MeetingDeleted(r.Context(), r, caller, id, err)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	h.persist(r.Context(), "deleteMeeting")

	w.WriteHeader(http.StatusNoContent)
}
