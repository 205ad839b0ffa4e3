package registry

import (
	"slices"

	"github.com/dalemusser/converge/internal/app/system/regerr"
	"github.com/dalemusser/converge/internal/domain/models"
	"go.uber.org/zap"
)

// GroupStore holds the active groups keyed by name.
//
// Deleting a group removes it outright: its name may be used again by a later
// Add, and the new group starts with no meetings.
type GroupStore struct {
	r      *Registry
	order  []string // active names in insertion order
	byName map[string]*groupEntry
}

type groupEntry struct {
	group models.Group
}

// Add creates a group. It fails with GroupExists if name is already active.
func (s *GroupStore) Add(caller, name, description, location string) error {
	const op = "addGroup"
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	if err := s.r.authorize(op, caller); err != nil {
		return err
	}
	if _, ok := s.byName[name]; ok {
		return regerr.New(regerr.GroupExists, op, name)
	}

	s.insert(models.Group{
		Name:        name,
		Description: description,
		Location:    location,
		MeetingIDs:  []uint64{},
	})
	s.r.log.Debug("group added", zap.String("name", name))
	return nil
}

// Update overwrites the description and location of an active group.
// The name and the meeting list are left alone.
func (s *GroupStore) Update(caller, name, description, location string) error {
	const op = "updateGroup"
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	if err := s.r.authorize(op, caller); err != nil {
		return err
	}
	e, err := s.lookup(op, name)
	if err != nil {
		return err
	}

	e.group.Description = description
	e.group.Location = location
	s.r.log.Debug("group updated", zap.String("name", name))
	return nil
}

// Delete removes an active group. A group that still has meetings fails with
// GroupNotEmpty; its meetings must be deleted first.
func (s *GroupStore) Delete(caller, name string) error {
	const op = "deleteGroup"
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	if err := s.r.authorize(op, caller); err != nil {
		return err
	}
	e, err := s.lookup(op, name)
	if err != nil {
		return err
	}
	if len(e.group.MeetingIDs) > 0 {
		return regerr.New(regerr.GroupNotEmpty, op, name)
	}

	delete(s.byName, name)
	if i := slices.Index(s.order, name); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.r.log.Debug("group deleted", zap.String("name", name))
	return nil
}

// Get returns the active group called name.
func (s *GroupStore) Get(name string) (models.GroupInfo, error) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	e, err := s.lookup("getGroup", name)
	if err != nil {
		return models.GroupInfo{}, err
	}
	return e.group.Info(), nil
}

// List returns every active group in the order it was added. Each call builds
// a fresh slice, so callers may keep or modify it.
func (s *GroupStore) List() []models.GroupInfo {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	out := make([]models.GroupInfo, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name].group.Info())
	}
	return out
}

// MeetingCount returns how many meetings currently belong to the group.
func (s *GroupStore) MeetingCount(name string) (int, error) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	e, err := s.lookup("groupMeetingCount", name)
	if err != nil {
		return 0, err
	}
	return len(e.group.MeetingIDs), nil
}

// The helpers below assume s.r.mu is held.

func (s *GroupStore) insert(g models.Group) {
	s.byName[g.Name] = &groupEntry{group: g}
	s.order = append(s.order, g.Name)
}

func (s *GroupStore) lookup(op, name string) (*groupEntry, error) {
	e, ok := s.byName[name]
	if !ok {
		return nil, regerr.New(regerr.InvalidGroup, op, name)
	}
	return e, nil
}

// appendMeeting adds id to the end of the group's meeting list.
func (s *GroupStore) appendMeeting(name string, id uint64) error {
	e, err := s.lookup("incrementMeetingCount", name)
	if err != nil {
		return err
	}
	e.group.MeetingIDs = append(e.group.MeetingIDs, id)
	return nil
}

// removeMeeting drops id from the group's meeting list by moving the last id
// into its slot and truncating.
func (s *GroupStore) removeMeeting(name string, id uint64) error {
	e, err := s.lookup("decrementMeetingCount", name)
	if err != nil {
		return err
	}
	e.group.MeetingIDs = swapRemove(e.group.MeetingIDs, id)
	return nil
}

func swapRemove(ids []uint64, id uint64) []uint64 {
	for i, v := range ids {
		if v == id {
			last := len(ids) - 1
			ids[i] = ids[last]
			return ids[:last]
		}
	}
	return ids
}
