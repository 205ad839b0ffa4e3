// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds converge-specific configuration loaded by LoadConfig.
type AppConfig struct {
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	OwnerIdentity string        // the only identity allowed to mutate the registry
	TokenKey      string        // securecookie hash key for caller tokens (>= 32 bytes)
	TokenMaxAge   time.Duration // 0 means caller tokens never expire

	AuditLog               string        // "all", "db", "log" or "off"
	AuditRetention         time.Duration // 0 keeps audit events forever
	AuditRetentionInterval time.Duration

	WriteRateLimit  int // mutating requests per client IP per window; 0 disables
	WriteRateWindow time.Duration

	TrustProxyHeaders bool // take the client IP from X-Forwarded-For / X-Real-IP

	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
