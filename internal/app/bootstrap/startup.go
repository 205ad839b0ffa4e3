// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/converge/internal/app/registry"
	"github.com/dalemusser/converge/internal/app/store/audit"
	snapshotstore "github.com/dalemusser/converge/internal/app/store/snapshots"
	"github.com/dalemusser/converge/internal/app/system/ratelimit"
	"github.com/dalemusser/converge/internal/app/system/timeouts"
	"github.com/dalemusser/converge/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ErrOwnerMismatch is returned when the stored registry belongs to a
// different owner than the one configured. Ownership is fixed at creation.
var ErrOwnerMismatch = errors.New("stored registry owner does not match owner_identity")

// Startup restores the registry from MongoDB, or creates an empty one owned
// by owner_identity on first run, then starts the background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	store := snapshotstore.New(deps.MongoDatabase, logger)
	reg, err := loadRegistry(ctx, store, appCfg.OwnerIdentity, logger)
	if err != nil {
		return err
	}

	deps.Runtime.Registry = reg
	deps.Runtime.Persister = snapshotstore.NewPersister(reg, store)

	if appCfg.WriteRateLimit > 0 {
		limiter := ratelimit.New(appCfg.WriteRateLimit, appCfg.WriteRateWindow)
		sweepCtx, stop := context.WithCancel(context.Background())
		go limiter.RunSweeper(sweepCtx)
		deps.Runtime.WriteLimiter = limiter
		deps.Runtime.stopSweeper = stop
	}

	if appCfg.AuditRetention > 0 && appCfg.AuditLog != "off" && appCfg.AuditLog != "log" {
		w := workers.NewAuditRetention(audit.New(deps.MongoDatabase), logger,
			appCfg.AuditRetentionInterval, appCfg.AuditRetention)
		w.Start()
		deps.Runtime.AuditRetention = w
	}
	return nil
}

func loadRegistry(ctx context.Context, store *snapshotstore.Store, owner string, logger *zap.Logger) (*registry.Registry, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "load registry snapshot")
	defer cancel()

	snap, found, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry snapshot: %w", err)
	}
	if !found {
		logger.Info("no stored registry; starting empty", zap.String("owner", owner))
		reg := registry.New(owner, registry.WithLogger(logger))
		// Save right away so the owner is fixed from the first start, not the
		// first mutation.
		if err := store.Save(ctx, reg.Snapshot()); err != nil {
			return nil, fmt.Errorf("save new registry: %w", err)
		}
		return reg, nil
	}
	if snap.Owner != owner {
		logger.Error("registry owner mismatch",
			zap.String("stored_owner", snap.Owner),
			zap.String("configured_owner", owner))
		return nil, ErrOwnerMismatch
	}

	reg, err := registry.Restore(snap, registry.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("restore registry: %w", err)
	}
	logger.Info("registry restored",
		zap.Int("groups", len(snap.Groups)),
		zap.Int("meetings", len(snap.Meetings)),
		zap.Uint64("next_meeting_id", snap.NextMeetingID),
		zap.Time("saved_at", snap.SavedAt))
	return reg, nil
}
