package mongodb

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names owned by the record store.
const (
	CollectionSync   = "sync"
	CollectionAction = "action"
	CollectionToken  = "token"
)

// Connect establishes the client connection and verifies it with a ping.
func Connect(ctx context.Context, cfg config.Mongo) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "failed to ping mongodb")
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the TTL and lookup indexes the record store relies
// on. Sync and Action documents vanish at their expireAt; Token documents
// are persistent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ttlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expireAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}

	if _, err := db.Collection(CollectionSync).Indexes().CreateMany(ctx, []mongo.IndexModel{
		ttlIndex,
		{Keys: bson.D{{Key: "walletIdentity", Value: 1}}},
	}); err != nil {
		return errors.Wrap(err, "failed to create sync indexes")
	}

	if _, err := db.Collection(CollectionAction).Indexes().CreateMany(ctx, []mongo.IndexModel{
		ttlIndex,
		{Keys: bson.D{{Key: "wkIdentity", Value: 1}}},
	}); err != nil {
		return errors.Wrap(err, "failed to create action indexes")
	}

	if _, err := db.Collection(CollectionToken).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "wkIdentity", Value: 1}}},
		{Keys: bson.D{{Key: "keyToken", Value: 1}}},
	}); err != nil {
		return errors.Wrap(err, "failed to create token indexes")
	}

	log.Info().Msg("Ensured mongodb indexes")

	return nil
}
