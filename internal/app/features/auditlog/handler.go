// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/converge/internal/app/features/errors"
	"github.com/dalemusser/converge/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/converge/internal/app/store/audit"
	"go.uber.org/zap"
)

type Handler struct {
	Store  *audit.Store
	Guard  ownerpolicy.Guard
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an audit log feature handler. Only guard's owner may
// read the log.
func NewHandler(store *audit.Store, guard ownerpolicy.Guard, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Guard:  guard,
		Log:    logger,
		ErrLog: errLog,
	}
}
