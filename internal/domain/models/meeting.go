// internal/domain/models/meeting.go
package models

// Meeting belongs to exactly one Group, referenced by name.
//
// ID comes from the registry counter and is never reassigned, even after the
// meeting is deleted. Deleted meetings keep their record with Active=false.
type Meeting struct {
	ID          uint64 `bson:"_id" json:"id"`
	GroupName   string `bson:"group_name" json:"group_name"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Location    string `bson:"location" json:"location"`
	Date        int64  `bson:"date" json:"date"` // Unix seconds
	Active      bool   `bson:"active" json:"active"`
}

// MeetingInfo is the read-only view of a Meeting returned to callers.
type MeetingInfo struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        int64  `json:"date"`
}

// Info returns the caller-facing view of m.
func (m Meeting) Info() MeetingInfo {
	return MeetingInfo{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		Date:        m.Date,
	}
}
