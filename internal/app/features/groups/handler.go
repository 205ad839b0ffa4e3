// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/features/shared"
	"github.com/dalemusser/converge/internal/app/registry"
	"github.com/dalemusser/converge/internal/app/system/auditlog"
	"github.com/dalemusser/converge/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	Reg     *registry.Registry
	Persist shared.Persister
	Audit   *auditlog.Logger
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a groups Handler. persist and audit may be nil.
func NewHandler(reg *registry.Registry, persist shared.Persister, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Reg:     reg,
		Persist: persist,
		Audit:   audit,
		ErrLog:  errLog,
		Log:     logger,
	}
}

// groupName returns the decoded {name} URL parameter. chi matches on the
// escaped path when one exists, so names containing '/' arrive escaped.
func groupName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if un, err := url.PathUnescape(name); err == nil {
		return un
	}
	return name
}

// persist writes the registry after a successful mutation. The in-memory
// registry stays authoritative; a failed save is logged and repaired by the
// next successful one, since every save writes the full state.
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
