package registry

import (
	"maps"
	"slices"
	"strconv"

	"github.com/dalemusser/converge/internal/app/system/regerr"
	"github.com/dalemusser/converge/internal/domain/models"
	"go.uber.org/zap"
)

// MeetingStore holds every meeting ever created, indexed by id.
//
// Ids are handed out from a counter that starts at 0 and only grows. A deleted
// meeting keeps its record (marked inactive) and its id is never issued again.
type MeetingStore struct {
	r    *Registry
	byID map[uint64]*models.Meeting
	next uint64
}

// Add creates a meeting in groupName and returns its id. It fails with
// InvalidGroup if the group does not exist, in which case no id is consumed.
func (s *MeetingStore) Add(caller, groupName, title, description, location string, date int64) (uint64, error) {
	const op = "addMeeting"
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	if err := s.r.authorize(op, caller); err != nil {
		return 0, err
	}
	if _, err := s.r.groups.lookup(op, groupName); err != nil {
		return 0, err
	}

	id := s.next
	if err := s.r.groups.appendMeeting(groupName, id); err != nil {
		return 0, err
	}
	s.next++
	s.byID[id] = &models.Meeting{
		ID:          id,
		GroupName:   groupName,
		Title:       title,
		Description: description,
		Location:    location,
		Date:        date,
		Active:      true,
	}
	s.r.log.Debug("meeting added",
		zap.Uint64("id", id),
		zap.String("group", groupName))
	return id, nil
}

// Update overwrites the title, description, location and date of an active
// meeting. The id and group never change.
func (s *MeetingStore) Update(caller string, id uint64, title, description, location string, date int64) error {
	const op = "updateMeeting"
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	if err := s.r.authorize(op, caller); err != nil {
		return err
	}
	m, err := s.lookup(op, id)
	if err != nil {
		return err
	}

	m.Title = title
	m.Description = description
	m.Location = location
	m.Date = date
	s.r.log.Debug("meeting updated", zap.Uint64("id", id))
	return nil
}

// Delete deactivates a meeting and removes it from its group's meeting list.
// Removal swaps the group's last meeting id into the freed position, so
// GroupMeetingAt indices shift after a delete.
func (s *MeetingStore) Delete(caller string, id uint64) error {
	const op = "deleteMeeting"
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	if err := s.r.authorize(op, caller); err != nil {
		return err
	}
	m, err := s.lookup(op, id)
	if err != nil {
		return err
	}
	if err := s.r.groups.removeMeeting(m.GroupName, id); err != nil {
		return err
	}

	m.Active = false
	s.r.log.Debug("meeting deleted",
		zap.Uint64("id", id),
		zap.String("group", m.GroupName))
	return nil
}

// Get returns the active meeting with id.
func (s *MeetingStore) Get(id uint64) (models.MeetingInfo, error) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	m, err := s.lookup("getMeeting", id)
	if err != nil {
		return models.MeetingInfo{}, err
	}
	return m.Info(), nil
}

// List returns every active meeting across all groups in ascending id order.
func (s *MeetingStore) List() []models.MeetingInfo {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	out := make([]models.MeetingInfo, 0, len(s.byID))
	for _, id := range slices.Sorted(maps.Keys(s.byID)) {
		if m := s.byID[id]; m.Active {
			out = append(out, m.Info())
		}
	}
	return out
}

// GroupMeetingAt returns the id stored at position index of the group's
// meeting list.
//
// The list is compacted by swap-and-truncate when a meeting is deleted, so the
// id found at a given index is not stable across deletions. Callers that need
// every meeting of a group should walk indices 0..MeetingCount-1 without
// interleaving deletes.
func (s *MeetingStore) GroupMeetingAt(groupName string, index uint64) (uint64, error) {
	const op = "getGroupMeetingAtIndex"
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	e, err := s.r.groups.lookup(op, groupName)
	if err != nil {
		return 0, err
	}
	if index >= uint64(len(e.group.MeetingIDs)) {
		return 0, regerr.New(regerr.IndexOutOfRange, op, strconv.FormatUint(index, 10))
	}
	return e.group.MeetingIDs[index], nil
}

// Count returns the id the next meeting will receive, which is also the number
// of meetings ever added. It never decreases.
func (s *MeetingStore) Count() uint64 {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	return s.next
}

// lookup returns the active meeting with id. Callers must hold s.r.mu.
func (s *MeetingStore) lookup(op string, id uint64) (*models.Meeting, error) {
	m, ok := s.byID[id]
	if !ok || !m.Active {
		return nil, regerr.New(regerr.InvalidMeeting, op, strconv.FormatUint(id, 10))
	}
	return m, nil
}
