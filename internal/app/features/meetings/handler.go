// internal/app/features/meetings/handler.go
package meetings

import (
	"context"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/features/shared"
	"github.com/dalemusser/converge/internal/app/registry"
	"github.com/dalemusser/converge/internal/app/system/auditlog"
	"github.com/dalemusser/converge/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the meetings feature.
type Handler struct {
	Reg     *registry.Registry
	Persist shared.Persister
	Audit   *auditlog.Logger
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a meetings Handler. persist and audit may be nil.
func NewHandler(reg *registry.Registry, persist shared.Persister, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Reg:     reg,
		Persist: persist,
		Audit:   audit,
		ErrLog:  errLog,
		Log:     logger,
	}
}

// meetingID parses the {id} URL parameter, answering 400 itself on failure.
func (h *Handler) meetingID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse meeting id failed", err, "Meeting id must be a non-negative integer.")
		return 0, false
	}
	return id, true
}

func (h *Handler) persist(ctx context.Context, op string) {
	if h.Persist == nil {
		return
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), h.Log, op)
	defer cancel()
	if err := h.Persist.Persist(ctx); err != nil {
		h.Log.Error("registry snapshot save failed", zap.String("op", op), zap.Error(err))
	}
}
