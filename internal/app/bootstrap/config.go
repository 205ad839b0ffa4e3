// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "converge", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size"},

	{Name: "owner_identity", Default: "", Desc: "Identity allowed to mutate groups and meetings (required)"},
	{Name: "token_key", Default: "", Desc: "Caller token signing key, at least 32 bytes (required)"},
	{Name: "token_max_age", Default: "0s", Desc: "Caller token lifetime (0s = no expiry)"},

	{Name: "audit_log", Default: "all", Desc: "Registry audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "Delete audit events older than this (0s = keep forever)"},
	{Name: "audit_retention_interval", Default: "1h", Desc: "How often old audit events are pruned"},

	{Name: "write_rate_limit", Default: 60, Desc: "Mutating requests allowed per client IP per window (0 = unlimited)"},
	{Name: "write_rate_window", Default: "1m", Desc: "Window for write_rate_limit"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Trust X-Forwarded-For/X-Real-IP (enable only behind a proxy that sets them)"},

	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for snapshot saves and audit queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for startup work (indexes, snapshot load)"},
}

func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CONVERGE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		OwnerIdentity: appValues.String("owner_identity"),
		TokenKey:      appValues.String("token_key"),
		TokenMaxAge:   appValues.Duration("token_max_age", 0),

		AuditLog:               appValues.String("audit_log"),
		AuditRetention:         appValues.Duration("audit_retention", 90*24*time.Hour),
		AuditRetentionInterval: appValues.Duration("audit_retention_interval", time.Hour),

		WriteRateLimit:  appValues.Int("write_rate_limit"),
		WriteRateWindow: appValues.Duration("write_rate_window", time.Minute),

		TrustProxyHeaders: appValues.Bool("trust_proxy_headers"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if appCfg.OwnerIdentity == "" {
		return fmt.Errorf("owner_identity must be set")
	}
	if len(appCfg.TokenKey) < auth.MinKeyLength {
		return fmt.Errorf("token_key must be at least %d bytes, got %d", auth.MinKeyLength, len(appCfg.TokenKey))
	}
	switch appCfg.AuditLog {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("audit_log must be one of all, db, log, off; got %q", appCfg.AuditLog)
	}
	if appCfg.TokenMaxAge < 0 {
		return fmt.Errorf("token_max_age must not be negative")
	}
	if appCfg.AuditRetention < 0 {
		return fmt.Errorf("audit_retention must not be negative")
	}
	if appCfg.AuditRetention > 0 && appCfg.AuditRetentionInterval <= 0 {
		return fmt.Errorf("audit_retention_interval must be positive when audit_retention is set")
	}
	if appCfg.WriteRateLimit < 0 {
		return fmt.Errorf("write_rate_limit must not be negative")
	}
	if appCfg.WriteRateLimit > 0 && appCfg.WriteRateWindow <= 0 {
		return fmt.Errorf("write_rate_window must be positive when write_rate_limit is set")
	}
	return nil
}
