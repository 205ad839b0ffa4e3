// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/store/audit"
	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/dalemusser/converge/internal/app/system/limits"
	"github.com/dalemusser/converge/internal/app/system/timeouts"
)

type listResponse struct {
	Events     []audit.Event `json:"events"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// parseFilter reads the list filters from the query string. Unparseable
// dates and pages are ignored rather than rejected.
func parseFilter(r *http.Request) (audit.QueryFilter, int) {
	q := r.URL.Query()

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:    strings.TrimSpace(q.Get("category")),
		EventType:   strings.TrimSpace(q.Get("event_type")),
		FailureKind: strings.TrimSpace(q.Get("failure_kind")),
		OnlyFailed:  q.Get("failed") == "true",
		Limit:       limits.AuditPageSize,
		Offset:      int64((page - 1) * limits.AuditPageSize),
	}
	if c, ok := q["caller"]; ok {
		caller := c[0]
		filter.Caller = &caller
	}
	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.StartTime = &t
		}
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}
	return filter, page
}

// ServeList handles GET /audit: recorded registry mutation attempts, newest
// first, filterable by category, event_type, caller, failure_kind, failed,
// start_date and end_date (YYYY-MM-DD).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if err := h.Guard.Authorize("listAudit", auth.Caller(r)); err != nil {
		h.ErrLog.RegistryError(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	filter, page := parseFilter(r)

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err)
		return
	}
	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err)
		return
	}
	totalPages := int((total + limits.AuditPageSize - 1) / limits.AuditPageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     events,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}
