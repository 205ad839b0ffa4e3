package snapshotstore_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dalemusser/converge/internal/app/registry"
	snapshotstore "github.com/dalemusser/converge/internal/app/store/snapshots"
	"github.com/dalemusser/converge/internal/app/system/indexes"
	"github.com/dalemusser/converge/internal/domain/models"
	"github.com/dalemusser/converge/internal/testutil"
	"go.uber.org/zap"
)

func seededRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	f := testutil.NewFixtures(t)
	f.CreateGroup("A")
	f.CreateGroup("B")
	f.CreateGroup("C")
	f.CreateMeeting("A", "one")
	id := f.CreateMeeting("B", "two")
	f.CreateMeeting("A", "three")
	if err := f.Reg.Meetings().Delete(testutil.Owner, id); err != nil {
		t.Fatalf("deleteMeeting failed: %v", err)
	}
	if err := f.Reg.Groups().Delete(testutil.Owner, "B"); err != nil {
		t.Fatalf("deleteGroup failed: %v", err)
	}
	return f.Reg
}

func TestStore_Load_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := snapshotstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if found {
		t.Error("expected found=false on an empty database")
	}
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := snapshotstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reg := seededRegistry(t)
	want := reg.Snapshot()

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !found {
		t.Fatal("expected found=true after Save")
	}

	if got.Owner != want.Owner || got.NextMeetingID != want.NextMeetingID {
		t.Errorf("header: got owner=%q next=%d, want owner=%q next=%d",
			got.Owner, got.NextMeetingID, want.Owner, want.NextMeetingID)
	}
	if !reflect.DeepEqual(got.Groups, want.Groups) {
		t.Errorf("groups: got %+v, want %+v", got.Groups, want.Groups)
	}
	if !reflect.DeepEqual(got.Meetings, want.Meetings) {
		t.Errorf("meetings: got %+v, want %+v", got.Meetings, want.Meetings)
	}

	restored, err := registry.Restore(got)
	if err != nil {
		t.Fatalf("Restore of loaded snapshot failed: %v", err)
	}
	if restored.Meetings().Count() != reg.Meetings().Count() {
		t.Errorf("meetingCount: got %d, want %d", restored.Meetings().Count(), reg.Meetings().Count())
	}
}

func TestStore_Save_ReplacesPrevious(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := snapshotstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, seededRegistry(t).Snapshot()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	empty := registry.New(testutil.Owner).Snapshot()
	if err := store.Save(ctx, empty); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, _, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Groups) != 0 || len(got.Meetings) != 0 || got.NextMeetingID != 0 {
		t.Errorf("expected empty registry after overwrite, got %+v", got)
	}
}

func TestStore_Save_DuplicateGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := snapshotstore.New(db, zap.NewNop())

	snap := models.Snapshot{
		Owner:  testutil.Owner,
		Groups: []models.Group{{Name: "dup"}, {Name: "dup"}},
	}
	if err := store.Save(ctx, snap); !errors.Is(err, snapshotstore.ErrDuplicateGroupName) {
		t.Errorf("expected ErrDuplicateGroupName, got %v", err)
	}
}

func TestPersister_Persist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := snapshotstore.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t)
	p := snapshotstore.NewPersister(f.Reg, store)

	f.CreateGroup("A")
	if err := p.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	f.CreateMeeting("A", "kickoff")
	if err := p.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	got, found, err := store.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if len(got.Groups) != 1 || len(got.Meetings) != 1 || got.NextMeetingID != 1 {
		t.Errorf("unexpected persisted state: %+v", got)
	}
}

func TestPersister_Nil(t *testing.T) {
	var p *snapshotstore.Persister
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := p.Persist(ctx); err != nil {
		t.Errorf("nil Persister should be a no-op, got %v", err)
	}
}
