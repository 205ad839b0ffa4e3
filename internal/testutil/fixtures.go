package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/converge/internal/app/registry"
	"github.com/go-chi/chi/v5"
)

// Identities used across registry and handler tests.
const (
	Owner    = "owner"
	Intruder = "intruder"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call a handler method directly.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures seeds a registry owned by Owner.
type Fixtures struct {
	t   *testing.T
	Reg *registry.Registry
}

// NewFixtures creates an empty registry owned by Owner.
func NewFixtures(t *testing.T) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, Reg: registry.New(Owner)}
}

// CreateGroup adds a group with placeholder description and location.
func (f *Fixtures) CreateGroup(name string) {
	f.t.Helper()
	if err := f.Reg.Groups().Add(Owner, name, "Test Description", "Test Location"); err != nil {
		f.t.Fatalf("failed to create test group %q: %v", name, err)
	}
}

// CreateMeeting adds a meeting to groupName and returns its id.
func (f *Fixtures) CreateMeeting(groupName, title string) uint64 {
	f.t.Helper()
	id, err := f.Reg.Meetings().Add(Owner, groupName, title, "Test Description", "Test Location", 1700000000)
	if err != nil {
		f.t.Fatalf("failed to create test meeting in %q: %v", groupName, err)
	}
	return id
}

// GroupExists reports whether name is an active group.
func (f *Fixtures) GroupExists(name string) bool {
	_, err := f.Reg.Groups().Get(name)
	return err == nil
}
