// internal/domain/models/group.go
package models

// Group is a named collection of meetings.
//
// NOTE:
//   - Name is the key and never changes after creation.
//   - MeetingIDs is the membership list. Removal swaps the last id into the
//     vacated slot, so positions are not stable across deletions.
type Group struct {
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description" json:"description"`
	Location    string   `bson:"location" json:"location"`
	MeetingIDs  []uint64 `bson:"meeting_ids" json:"meeting_ids"`
}

// GroupInfo is the read-only view of a Group returned to callers.
type GroupInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// Info returns the caller-facing view of g.
func (g Group) Info() GroupInfo {
	return GroupInfo{
		Name:        g.Name,
		Description: g.Description,
		Location:    g.Location,
	}
}
