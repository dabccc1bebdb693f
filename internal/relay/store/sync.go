package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertSync stores the pairing handshake record, replacing any prior record
// for the same walletIdentity.
func (s *Store) UpsertSync(ctx context.Context, rec *SyncRecord) (*SyncRecord, error) {
	now := s.clock.Now().UTC()
	rec.CreatedAt = now
	rec.ExpireAt = now.Add(s.syncTTL)

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	_, err := s.sync().UpdateOne(ctx,
		bson.M{"walletIdentity": rec.WalletIdentity},
		bson.M{"$set": rec},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert sync record")
	}

	return rec, nil
}

// GetSyncByWalletIdentity returns the live pairing record for a wallet
// identity, projecting only the public-safe fields.
func (s *Store) GetSyncByWalletIdentity(ctx context.Context, walletIdentity string) (*SyncRecord, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var rec SyncRecord
	err := s.sync().FindOne(ctx,
		bson.M{"walletIdentity": walletIdentity},
		options.FindOne().SetProjection(bson.M{"_id": 0}),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, errors.Wrap(err, "failed to get sync record")
	}

	return &rec, nil
}
