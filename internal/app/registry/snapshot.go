package registry

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/dalemusser/converge/internal/app/system/regerr"
	"github.com/dalemusser/converge/internal/domain/models"
)

// Snapshot returns a deep copy of the registry state. The copy shares no
// memory with the registry.
func (r *Registry) Snapshot() models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := models.Snapshot{
		Owner:         r.guard.Owner(),
		NextMeetingID: r.meetings.next,
		Groups:        make([]models.Group, 0, len(r.groups.order)),
		Meetings:      []models.Meeting{},
		SavedAt:       time.Now().UTC(),
	}
	for _, name := range r.groups.order {
		g := r.groups.byName[name].group
		g.MeetingIDs = slices.Clone(g.MeetingIDs)
		if g.MeetingIDs == nil {
			g.MeetingIDs = []uint64{}
		}
		snap.Groups = append(snap.Groups, g)
	}
	for _, id := range slices.Sorted(maps.Keys(r.meetings.byID)) {
		if m := r.meetings.byID[id]; m.Active {
			snap.Meetings = append(snap.Meetings, *m)
		}
	}
	return snap
}

// Restore builds a registry from snap. The snapshot is checked against the
// registry invariants first; any violation returns an error wrapping
// regerr.ErrCorruptSnapshot and no registry.
func Restore(snap models.Snapshot, opts ...Option) (*Registry, error) {
	r := New(snap.Owner, opts...)

	if snap.NextMeetingID == math.MaxUint64 {
		return nil, corrupt("meeting counter %d leaves no ids to issue", snap.NextMeetingID)
	}
	r.meetings.next = snap.NextMeetingID
	for _, m := range snap.Meetings {
		if m.ID >= snap.NextMeetingID {
			return nil, corrupt("meeting %d is not below the counter %d", m.ID, snap.NextMeetingID)
		}
		if _, dup := r.meetings.byID[m.ID]; dup {
			return nil, corrupt("meeting %d appears twice", m.ID)
		}
		m.Active = true
		r.meetings.byID[m.ID] = &m
	}

	claimed := make(map[uint64]bool, len(snap.Meetings))
	for _, g := range snap.Groups {
		if _, dup := r.groups.byName[g.Name]; dup {
			return nil, corrupt("group %q appears twice", g.Name)
		}
		for _, id := range g.MeetingIDs {
			m, ok := r.meetings.byID[id]
			if !ok {
				return nil, corrupt("group %q lists unknown meeting %d", g.Name, id)
			}
			if m.GroupName != g.Name {
				return nil, corrupt("group %q lists meeting %d of group %q", g.Name, id, m.GroupName)
			}
			if claimed[id] {
				return nil, corrupt("meeting %d is listed more than once", id)
			}
			claimed[id] = true
		}
		g.MeetingIDs = slices.Clone(g.MeetingIDs)
		if g.MeetingIDs == nil {
			g.MeetingIDs = []uint64{}
		}
		r.groups.insert(g)
	}
	for _, m := range snap.Meetings {
		if !claimed[m.ID] {
			return nil, corrupt("meeting %d is missing from group %q", m.ID, m.GroupName)
		}
	}

	return r, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", regerr.ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}
