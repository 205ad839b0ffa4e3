package bootstrap

import (
	"net/http"
	"strings"
	"testing"
	"time"

	snapshotstore "github.com/dalemusser/converge/internal/app/store/snapshots"
	"github.com/dalemusser/converge/internal/app/system/auth"
	"github.com/dalemusser/converge/internal/app/system/ratelimit"
	"github.com/dalemusser/converge/internal/app/system/requestid"
	"github.com/dalemusser/converge/internal/testutil"
)

func TestBuildHandler_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validConfig()
	store := snapshotstore.New(db, testLogger())
	f := testutil.NewFixtures(t)
	deps := DBDeps{
		MongoClient:   db.Client(),
		MongoDatabase: db,
		Runtime: &Runtime{
			Registry:  f.Reg,
			Persister: snapshotstore.NewPersister(f.Reg, store),
		},
	}

	h, err := BuildHandler(nil, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	codec, err := auth.NewCodec([]byte(cfg.TokenKey), 0)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	ownerToken, _ := codec.Encode(testutil.Owner)

	// anonymous write is denied
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewRequest(t, "POST", "/groups", map[string]string{"name": "G"}))
	rec.AssertStatus(t, http.StatusForbidden)
	if rec.Header().Get(requestid.Header) == "" {
		t.Error("expected X-Request-ID on response")
	}

	// owner write succeeds and is persisted
	req := testutil.NewRequest(t, "POST", "/groups", map[string]string{"name": "G"})
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	rec = testutil.NewRecorder()
	h.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	snap, found, err := store.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if len(snap.Groups) != 1 || snap.Groups[0].Name != "G" {
		t.Errorf("expected persisted group G, got %+v", snap.Groups)
	}

	// reads are open
	rec = testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewRequest(t, "GET", "/groups/G", nil))
	rec.AssertStatus(t, http.StatusOK)

	// audit is owner-only and recorded both attempts
	req = testutil.NewRequest(t, "GET", "/audit", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	rec = testutil.NewRecorder()
	h.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"total":2`)

	// unknown routes answer JSON 404
	rec = testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewRequest(t, "GET", "/nope", nil))
	rec.AssertStatus(t, http.StatusNotFound)
	if !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Content-Type: got %q", rec.Header().Get("Content-Type"))
	}
}

func TestBuildHandler_RequiresRegistry(t *testing.T) {
	if _, err := BuildHandler(nil, validConfig(), DBDeps{}, testLogger()); err == nil {
		t.Error("expected error when Startup has not populated the registry")
	}
}

func TestBuildHandler_WriteRateLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db, Runtime: &Runtime{
		Registry:     f.Reg,
		WriteLimiter: ratelimit.New(1, time.Minute),
	}}
	h, err := BuildHandler(nil, validConfig(), deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	for i, want := range []int{http.StatusForbidden, http.StatusTooManyRequests} {
		rec := testutil.NewRecorder()
		h.ServeHTTP(rec, testutil.NewRequest(t, "DELETE", "/groups/G", nil))
		if rec.Code != want {
			t.Fatalf("request %d: got %d, want %d", i, rec.Code, want)
		}
	}

	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewRequest(t, "GET", "/groups", nil))
	rec.AssertStatus(t, http.StatusOK)
}
