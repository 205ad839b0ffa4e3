package registry_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/dalemusser/converge/internal/app/registry"
	"github.com/dalemusser/converge/internal/app/system/regerr"
	"github.com/dalemusser/converge/internal/domain/models"
)

func TestSnapshot_RestoreRoundTrip(t *testing.T) {
	reg := registry.New(owner)
	for _, g := range []string{"A", "B", "C"} {
		if err := reg.Groups().Add(owner, g, g+" desc", g+" loc"); err != nil {
			t.Fatalf("addGroup failed: %v", err)
		}
	}
	for _, g := range []string{"A", "A", "C", "A"} {
		if _, err := reg.Meetings().Add(owner, g, "t", "d", "l", 7); err != nil {
			t.Fatalf("addMeeting failed: %v", err)
		}
	}
	if err := reg.Meetings().Delete(owner, 0); err != nil {
		t.Fatalf("deleteMeeting failed: %v", err)
	}
	if err := reg.Groups().Delete(owner, "B"); err != nil {
		t.Fatalf("deleteGroup failed: %v", err)
	}

	restored, err := registry.Restore(reg.Snapshot())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.Owner() != owner {
		t.Errorf("Owner = %q, want %q", restored.Owner(), owner)
	}
	if !reflect.DeepEqual(restored.Groups().List(), reg.Groups().List()) {
		t.Errorf("groups differ:\n got %+v\nwant %+v", restored.Groups().List(), reg.Groups().List())
	}
	if !reflect.DeepEqual(restored.Meetings().List(), reg.Meetings().List()) {
		t.Errorf("meetings differ:\n got %+v\nwant %+v", restored.Meetings().List(), reg.Meetings().List())
	}
	if restored.Meetings().Count() != 4 {
		t.Errorf("meetingCount = %d, want 4", restored.Meetings().Count())
	}

	// The deleted id stays consumed and the next id continues the sequence.
	if _, err := restored.Meetings().Get(0); !errors.Is(err, regerr.ErrInvalidMeeting) {
		t.Errorf("expected ErrInvalidMeeting for id 0, got %v", err)
	}
	id, err := restored.Meetings().Add(owner, "C", "t", "d", "l", 1)
	if err != nil {
		t.Fatalf("addMeeting after restore failed: %v", err)
	}
	if id != 4 {
		t.Errorf("next id after restore = %d, want 4", id)
	}

	// The restored registry is still owner-gated.
	if err := restored.Groups().Add(intruder, "X", "d", "l"); !errors.Is(err, regerr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	reg := newSeededRegistry(t)

	snap := reg.Snapshot()
	snap.Groups[0].MeetingIDs[0] = 99
	snap.Groups[0].Description = "changed"

	if id, _ := reg.Meetings().GroupMeetingAt(defaultGroupName, 0); id != 0 {
		t.Errorf("snapshot edit leaked into membership: %d", id)
	}
	if g, _ := reg.Groups().Get(defaultGroupName); g.Description != defaultGroupDescription {
		t.Errorf("snapshot edit leaked into group: %q", g.Description)
	}
}

func TestRestore_RejectsCorruptSnapshots(t *testing.T) {
	group := func(name string, ids ...uint64) models.Group {
		return models.Group{Name: name, MeetingIDs: ids}
	}
	meeting := func(id uint64, groupName string) models.Meeting {
		return models.Meeting{ID: id, GroupName: groupName, Active: true}
	}

	tests := []struct {
		name string
		snap models.Snapshot
	}{
		{
			name: "duplicate group",
			snap: models.Snapshot{Groups: []models.Group{group("A"), group("A")}},
		},
		{
			name: "meeting at or above counter",
			snap: models.Snapshot{
				NextMeetingID: 1,
				Groups:        []models.Group{group("A", 1)},
				Meetings:      []models.Meeting{meeting(1, "A")},
			},
		},
		{
			name: "duplicate meeting",
			snap: models.Snapshot{
				NextMeetingID: 1,
				Groups:        []models.Group{group("A", 0)},
				Meetings:      []models.Meeting{meeting(0, "A"), meeting(0, "A")},
			},
		},
		{
			name: "membership lists unknown meeting",
			snap: models.Snapshot{
				NextMeetingID: 2,
				Groups:        []models.Group{group("A", 0, 1)},
				Meetings:      []models.Meeting{meeting(0, "A")},
			},
		},
		{
			name: "membership lists another group's meeting",
			snap: models.Snapshot{
				NextMeetingID: 1,
				Groups:        []models.Group{group("A", 0), group("B")},
				Meetings:      []models.Meeting{meeting(0, "B")},
			},
		},
		{
			name: "meeting listed twice",
			snap: models.Snapshot{
				NextMeetingID: 1,
				Groups:        []models.Group{group("A", 0, 0)},
				Meetings:      []models.Meeting{meeting(0, "A")},
			},
		},
		{
			name: "meeting missing from membership",
			snap: models.Snapshot{
				NextMeetingID: 1,
				Groups:        []models.Group{group("A")},
				Meetings:      []models.Meeting{meeting(0, "A")},
			},
		},
		{
			name: "exhausted counter",
			snap: models.Snapshot{NextMeetingID: math.MaxUint64},
		},
		{
			name: "meeting of unknown group",
			snap: models.Snapshot{
				NextMeetingID: 1,
				Meetings:      []models.Meeting{meeting(0, "Gone")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := registry.Restore(tt.snap)
			if !errors.Is(err, regerr.ErrCorruptSnapshot) {
				t.Errorf("expected ErrCorruptSnapshot, got %v", err)
			}
			if reg != nil {
				t.Error("expected no registry for a corrupt snapshot")
			}
		})
	}
}

func TestRestore_EmptySnapshot(t *testing.T) {
	reg, err := registry.Restore(models.Snapshot{Owner: owner})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if len(reg.Groups().List()) != 0 || len(reg.Meetings().List()) != 0 {
		t.Error("expected empty registry")
	}
	if reg.Meetings().Count() != 0 {
		t.Errorf("meetingCount = %d, want 0", reg.Meetings().Count())
	}
}

func TestRestore_LargeCounterWithFewMeetings(t *testing.T) {
	const next = uint64(1) << 62
	reg, err := registry.Restore(models.Snapshot{
		Owner:         owner,
		NextMeetingID: next,
		Groups:        []models.Group{{Name: "A", MeetingIDs: []uint64{next - 1}}},
		Meetings:      []models.Meeting{{ID: next - 1, GroupName: "A", Title: "last", Active: true}},
	})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := reg.Meetings().Count(); got != next {
		t.Errorf("meetingCount = %d, want %d", got, next)
	}
	if _, err := reg.Meetings().Get(0); !errors.Is(err, regerr.ErrInvalidMeeting) {
		t.Errorf("Get(0): expected ErrInvalidMeeting, got %v", err)
	}

	id, err := reg.Meetings().Add(owner, "A", "new", "", "", 0)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id != next {
		t.Errorf("new id = %d, want %d", id, next)
	}
	if got := len(reg.Meetings().List()); got != 2 {
		t.Errorf("expected 2 active meetings, got %d", got)
	}
}
