// internal/app/features/groups/groupdelete.go
package groups

import (
	"net/http"

	"github.com/dalemusser/converge/internal/app/system/auth"
)

// HandleDeleteGroup handles DELETE /groups/{name}. Groups that still hold
// meetings are refused with 409.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	name := groupName(r)
	caller := auth.Caller(r)

	err := h.Reg.Groups().Delete(caller, name)
	h.Audit.GroupDeleted(r.Context(), r, caller, name, err)
	if err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}
	h.persist(r.Context(), "deleteGroup")

	w.WriteHeader(http.StatusNoContent)
}
