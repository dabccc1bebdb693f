package store

import (
	"context"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/mongodb"
	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNoRecord is returned when no live record exists for an identity.
	ErrNoRecord = errors.New("no record found")
	// ErrTokenCapExceeded rejects registrations past the per-identity cap.
	ErrTokenCapExceeded = errors.New("token limit reached for identity")
)

// Store owns the three persisted relay collections. All mutating operations
// are single atomic upserts so the at-most-one-pending-record-per-identity
// invariant holds under concurrent posts; last writer wins.
type Store struct {
	db        *mongo.Database
	clock     time2.Clock
	syncTTL   time.Duration
	actionTTL time.Duration
	tokenCap  int
	opTimeout time.Duration
}

func New(db *mongo.Database, clock time2.Clock, relayCfg config.Relay, mongoCfg config.Mongo) *Store {
	return &Store{
		db:        db,
		clock:     clock,
		syncTTL:   relayCfg.SyncTTL,
		actionTTL: relayCfg.ActionTTL,
		tokenCap:  relayCfg.MaxTokensPerIdentity,
		opTimeout: mongoCfg.OpTimeout,
	}
}

func (s *Store) sync() *mongo.Collection {
	return s.db.Collection(mongodb.CollectionSync)
}

func (s *Store) action() *mongo.Collection {
	return s.db.Collection(mongodb.CollectionAction)
}

func (s *Store) token() *mongo.Collection {
	return s.db.Collection(mongodb.CollectionToken)
}

// opContext bounds a store round trip so connection loss surfaces as a
// retryable internal failure instead of hanging the request.
func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}
