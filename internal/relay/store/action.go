package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertAction stores the pending cross-device request, replacing any prior
// pending action for the same wkIdentity. At most one action is outstanding
// per identity; the latest request supersedes earlier ones.
func (s *Store) UpsertAction(ctx context.Context, rec *ActionRecord) (*ActionRecord, error) {
	now := s.clock.Now().UTC()
	rec.CreatedAt = now
	rec.ExpireAt = now.Add(s.actionTTL)

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	_, err := s.action().UpdateOne(ctx,
		bson.M{"wkIdentity": rec.WkIdentity},
		bson.M{"$set": rec},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert action record")
	}

	return rec, nil
}

// GetActionByWkIdentity returns the pending action for an identity,
// projecting only the public-safe fields.
func (s *Store) GetActionByWkIdentity(ctx context.Context, wkIdentity string) (*ActionRecord, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var rec ActionRecord
	err := s.action().FindOne(ctx,
		bson.M{"wkIdentity": wkIdentity},
		options.FindOne().SetProjection(bson.M{"_id": 0}),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "failed to get action record")
	}

	return &rec, nil
}
