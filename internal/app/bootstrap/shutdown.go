// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background workers, writes a final registry snapshot and
// disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if rt := deps.Runtime; rt != nil {
		if rt.AuditRetention != nil {
			rt.AuditRetention.Stop()
		}
		if rt.stopSweeper != nil {
			rt.stopSweeper()
		}
		if rt.Persister != nil {
			if err := rt.Persister.Persist(ctx); err != nil {
				logger.Error("final registry snapshot failed", zap.Error(err))
			}
		}
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
