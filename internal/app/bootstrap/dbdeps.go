// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/converge/internal/app/registry"
	snapshotstore "github.com/dalemusser/converge/internal/app/store/snapshots"
	"github.com/dalemusser/converge/internal/app/system/ratelimit"
	"github.com/dalemusser/converge/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps bundles the backends shared by every hook after ConnectDB.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Runtime is allocated by ConnectDB and filled in by Startup. Hooks
	// receive DBDeps by value, so state they share lives behind this pointer.
	Runtime *Runtime
}

// Runtime holds the live registry, its persistence and background workers.
type Runtime struct {
	Registry  *registry.Registry
	Persister *snapshotstore.Persister

	WriteLimiter   *ratelimit.Limiter      // nil when write_rate_limit is 0
	AuditRetention *workers.AuditRetention // nil when audit_retention is 0
	stopSweeper    context.CancelFunc
}
