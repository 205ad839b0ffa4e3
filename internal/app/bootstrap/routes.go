// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	auditlogfeature "github.com/dalemusser/converge/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/converge/internal/app/features/errors"
	groupsfeature "github.com/dalemusser/converge/internal/app/features/groups"
	healthfeature "github.com/dalemusser/converge/internal/app/features/health"
	meetingsfeature "github.com/dalemusser/converge/internal/app/features/meetings"
	"github.com/dalemusser/converge/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/converge/internal/app/store/audit"
	"github.com/dalemusser/converge/internal/app/system/auditlog"
	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/dalemusser/converge/internal/app/system/ratelimit"
	"github.com/dalemusser/converge/internal/app/system/requestid"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router. WAFFLE calls it after Startup has
// placed the registry in deps.Runtime.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.Runtime == nil || deps.Runtime.Registry == nil {
		return nil, fmt.Errorf("registry not initialised; Startup must run first")
	}
	rt := deps.Runtime

	codec, err := auth.NewCodec([]byte(appCfg.TokenKey), appCfg.TokenMaxAge)
	if err != nil {
		logger.Error("caller token codec init failed", zap.Error(err))
		return nil, err
	}

	auditStore := audit.New(deps.MongoDatabase)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Groups:   appCfg.AuditLog,
		Meetings: appCfg.AuditLog,
	})
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Forwarded client addresses are honoured only when a trusted proxy
	// sets them; otherwise RemoteAddr is the client.
	if appCfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	// Request IDs first so every later log line and audit event can carry one.
	r.Use(requestid.Middleware)
	// Caller identity from "Authorization: Bearer"; anonymous when absent.
	r.Use(auth.LoadCaller(codec, logger))
	r.Use(ratelimit.Writes(rt.WriteLimiter, logger))

	healthHandler := healthfeature.NewHandler(deps.MongoClient, rt.Registry, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	groupsHandler := groupsfeature.NewHandler(rt.Registry, rt.Persister, auditLog, errLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	meetingsHandler := meetingsfeature.NewHandler(rt.Registry, rt.Persister, auditLog, errLog, logger)
	r.Mount("/meetings", meetingsfeature.Routes(meetingsHandler))

	auditHandler := auditlogfeature.NewHandler(auditStore, ownerpolicy.New(rt.Registry.Owner()), errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler))

	return r, nil
}
