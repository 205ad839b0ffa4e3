// internal/app/features/groups/groupedit.go
package groups

import (
	"net/http"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/features/shared"
	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/dalemusser/converge/internal/app/system/htmlsanitize"
)

type editGroupRequest struct {
	Description string `json:"description"`
	Location    string `json:"location"`
}

// HandleEditGroup handles PUT /groups/{name}. Both fields are replaced.
func (h *Handler) HandleEditGroup(w http.ResponseWriter, r *http.Request) {
	name := groupName(r)

	var req editGroupRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode edit group failed", err, "Invalid JSON body.")
		return
	}
	htmlsanitize.Fields(&req.Description, &req.Location)

	caller := auth.Caller(r)
	err := h.Reg.Groups().Update(caller, name, req.Description, req.Location)
	h.Audit.GroupUpdated(r.Context(), r, caller, name, err)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	h.persist(r.Context(), "updateGroup")

	g, err := h.Reg.Groups().Get(name)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, g)
}
