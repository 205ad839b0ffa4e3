// internal/domain/models/snapshot.go
package models

import "time"

// Snapshot is the serialisable state of a registry.
//
// Groups are listed in insertion order. Meetings holds only active meetings;
// NextMeetingID carries the counter so ids of deleted meetings stay consumed.
type Snapshot struct {
	Owner         string    `bson:"owner" json:"owner"`
	NextMeetingID uint64    `bson:"next_meeting_id" json:"next_meeting_id"`
	Groups        []Group   `bson:"-" json:"groups"`
	Meetings      []Meeting `bson:"-" json:"meetings"`
	SavedAt       time.Time `bson:"saved_at" json:"saved_at"`
}
