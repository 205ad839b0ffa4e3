// internal/app/store/snapshots/snapshotstore.go
package snapshotstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dalemusser/converge/internal/app/registry"
	"github.com/dalemusser/converge/internal/app/system/txn"
	"github.com/dalemusser/converge/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// stateID is the _id of the single registry_state document.
const stateID = "registry"

// ErrDuplicateGroupName is returned when a snapshot lists the same group twice.
var ErrDuplicateGroupName = errors.New("snapshot contains a duplicate group name")

// Store persists registry snapshots across three collections:
// registry_state (owner and meeting counter), groups and meetings.
type Store struct {
	client   *mongo.Client
	state    *mongo.Collection
	groups   *mongo.Collection
	meetings *mongo.Collection
	log      *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		client:   db.Client(),
		state:    db.Collection("registry_state"),
		groups:   db.Collection("groups"),
		meetings: db.Collection("meetings"),
		log:      log,
	}
}

type stateDoc struct {
	ID              string `bson:"_id"`
	models.Snapshot `bson:",inline"`
}

// groupDoc keeps the group's position so Load can restore insertion order.
type groupDoc struct {
	Seq          int `bson:"seq"`
	models.Group `bson:",inline"`
}

// Save replaces the stored registry with snap. The three collections are
// written in one transaction where the deployment supports it.
func (s *Store) Save(ctx context.Context, snap models.Snapshot) error {
	groups := make([]interface{}, len(snap.Groups))
	for i, g := range snap.Groups {
		if g.MeetingIDs == nil {
			g.MeetingIDs = []uint64{}
		}
		groups[i] = groupDoc{Seq: i, Group: g}
	}
	meetings := make([]interface{}, len(snap.Meetings))
	for i, m := range snap.Meetings {
		meetings[i] = m
	}

	err := txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		_, err := s.state.ReplaceOne(ctx,
			bson.M{"_id": stateID},
			stateDoc{ID: stateID, Snapshot: snap},
			options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("write registry_state: %w", err)
		}

		if _, err := s.groups.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear groups: %w", err)
		}
		if len(groups) > 0 {
			if _, err := s.groups.InsertMany(ctx, groups); err != nil {
				if wafflemongo.IsDup(err) {
					return ErrDuplicateGroupName
				}
				return fmt.Errorf("write groups: %w", err)
			}
		}

		if _, err := s.meetings.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear meetings: %w", err)
		}
		if len(meetings) > 0 {
			if _, err := s.meetings.InsertMany(ctx, meetings); err != nil {
				return fmt.Errorf("write meetings: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("registry snapshot saved",
		zap.Int("groups", len(snap.Groups)),
		zap.Int("meetings", len(snap.Meetings)),
		zap.Uint64("next_meeting_id", snap.NextMeetingID))
	return nil
}

// Load reads the stored snapshot. found is false when nothing has been
// saved yet.
func (s *Store) Load(ctx context.Context) (snap models.Snapshot, found bool, err error) {
	var st stateDoc
	err = s.state.FindOne(ctx, bson.M{"_id": stateID}).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		return models.Snapshot{}, false, err
	}
	snap = st.Snapshot

	gcur, err := s.groups.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return models.Snapshot{}, false, err
	}
	var gdocs []groupDoc
	if err := gcur.All(ctx, &gdocs); err != nil {
		return models.Snapshot{}, false, err
	}
	snap.Groups = make([]models.Group, len(gdocs))
	for i, d := range gdocs {
		snap.Groups[i] = d.Group
	}

	mcur, err := s.meetings.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return models.Snapshot{}, false, err
	}
	snap.Meetings = []models.Meeting{}
	if err := mcur.All(ctx, &snap.Meetings); err != nil {
		return models.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Persister writes the live registry to a Store after each mutation.
// Snapshots are taken and saved under one lock, so a slower save can never
// overwrite a newer one.
type Persister struct {
	mu    sync.Mutex
	reg   *registry.Registry
	store *Store
}

func NewPersister(reg *registry.Registry, store *Store) *Persister {
	return &Persister{reg: reg, store: store}
}

// Persist saves the registry's current state. A nil Persister is a no-op.
func (p *Persister) Persist(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Save(ctx, p.reg.Snapshot())
}
