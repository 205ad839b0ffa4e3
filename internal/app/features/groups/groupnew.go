// internal/app/features/groups/groupnew.go
package groups

import (
	"net/http"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/features/shared"
	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/dalemusser/converge/internal/app/system/htmlsanitize"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// HandleCreateGroup handles POST /groups.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode create group failed", err, "Invalid JSON body.")
		return
	}
	htmlsanitize.Fields(&req.Description, &req.Location)

	caller := auth.Caller(r)
	err := h.Reg.Groups().Add(caller, req.Name, req.Description, req.Location)
	h.Audit.GroupCreated(r.Context(), r, caller, req.Name, err)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	h.persist(r.Context(), "addGroup")

	g, err := h.Reg.Groups().Get(req.Name)
	if err != nil {
		// deleted by a concurrent request before we could read it back
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, g)
}
