// internal/app/features/groups/list.go
package groups

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

type listResponse struct {
	Groups []models.GroupInfo `json:"groups"`
	Count  int                `json:"count"`
}

// ServeGroupsList handles GET /groups[?q=]. Groups are returned in insertion
// order; q keeps only names containing it, ignoring case and diacritics.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	all := h.Reg.Groups().List()

	q := text.Fold(strings.TrimSpace(r.URL.Query().Get("q")))
	groups := all
	if q != "" {
		groups = make([]models.GroupInfo, 0, len(all))
		for _, g := range all {
			if strings.Contains(text.Fold(g.Name), q) {
				groups = append(groups, g)
			}
		}
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{Groups: groups, Count: len(groups)})
}
