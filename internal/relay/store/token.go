package store

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type tokenWriteOp int

const (
	tokenWriteInsert tokenWriteOp = iota
	tokenWriteNoop
	tokenWriteRejectCap
)

// decideTokenWrite applies the per-identity invariants to an incoming token:
// an identical registration is idempotent, and the install cap bounds how
// many records one identity may accumulate.
func decideTokenWrite(existing []TokenRecord, incoming TokenRecord, cap int) (tokenWriteOp, *TokenRecord) {
	for i := range existing {
		if existing[i].KeyToken == incoming.KeyToken && existing[i].WalletToken == incoming.WalletToken {
			return tokenWriteNoop, &existing[i]
		}
	}

	if len(existing) >= cap {
		return tokenWriteRejectCap, nil
	}

	return tokenWriteInsert, nil
}

// UpsertToken registers a push token for an identity. An identical record is
// returned as-is without writing; a keyToken found attached to more than one
// record is treated as corrupted and every record sharing it is purged
// before the new one is stored.
func (s *Store) UpsertToken(ctx context.Context, rec *TokenRecord) (*TokenRecord, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.token().Find(ctx,
		bson.M{"wkIdentity": rec.WkIdentity},
		options.Find().SetProjection(bson.M{"_id": 0}).SetLimit(int64(s.tokenCap)+1),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list token records")
	}

	var existing []TokenRecord
	if err := cursor.All(ctx, &existing); err != nil {
		return nil, errors.Wrap(err, "failed to decode token records")
	}

	op, found := decideTokenWrite(existing, *rec, s.tokenCap)
	switch op {
	case tokenWriteNoop:
		return found, nil
	case tokenWriteRejectCap:
		return nil, ErrTokenCapExceeded
	}

	if rec.KeyToken != "" {
		count, err := s.token().CountDocuments(ctx, bson.M{"keyToken": rec.KeyToken})
		if err != nil {
			return nil, errors.Wrap(err, "failed to count keyToken records")
		}

		if count > 1 {
			res, err := s.token().DeleteMany(ctx, bson.M{"keyToken": rec.KeyToken})
			if err != nil {
				return nil, errors.Wrap(err, "failed to purge duplicated keyToken records")
			}
			util.LogFromContext(ctx).Warn().
				Int64("purged", res.DeletedCount).
				Msg("Purged token records sharing a duplicated keyToken")
		}
	}

	rec.CreatedAt = s.clock.Now().UTC()

	if _, err := s.token().InsertOne(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "failed to insert token record")
	}

	return rec, nil
}

// GetTokensByWkIdentity returns all registered tokens for an identity.
func (s *Store) GetTokensByWkIdentity(ctx context.Context, wkIdentity string) ([]TokenRecord, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.token().Find(ctx,
		bson.M{"wkIdentity": wkIdentity},
		options.Find().SetProjection(bson.M{"_id": 0}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list token records")
	}

	var records []TokenRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode token records")
	}

	return records, nil
}

// DeleteKeyToken removes the single record carrying a key token the push
// provider reported invalid.
func (s *Store) DeleteKeyToken(ctx context.Context, wkIdentity, keyToken string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if _, err := s.token().DeleteMany(ctx, bson.M{"wkIdentity": wkIdentity, "keyToken": keyToken}); err != nil {
		return errors.Wrap(err, "failed to delete token record")
	}

	return nil
}
