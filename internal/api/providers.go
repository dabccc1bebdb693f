package api

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/decoder"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/hooks"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/metrics"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/mongodb"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/push"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/push/provider"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/dropbox/godropbox/time2"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

func NewClock() time2.Clock {
	return time2.DefaultClock
}

func NewMongoDatabaseProvider(cfg config.Server) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	return mongodb.Connect(ctx, cfg.Mongo)
}

func NewReplayGuardProvider(cfg config.Server, clock time2.Clock) *auth.ReplayGuard {
	return auth.NewReplayGuard(cfg.Auth, clock)
}

func NewAuthenticatorProvider(cfg config.Server, guard *auth.ReplayGuard, clock time2.Clock) *auth.Authenticator {
	return auth.NewAuthenticator(cfg.Auth, guard, clock)
}

func NewWkSignValidatorProvider(cfg config.Server, clock time2.Clock) *auth.WkSignValidator {
	return auth.NewWkSignValidator(cfg.WkSign, clock)
}

func NewStoreProvider(cfg config.Server, db *mongo.Database, clock time2.Clock) *store.Store {
	return store.New(db, clock, cfg.Relay, cfg.Mongo)
}

func NewRelayServiceProvider(cfg config.Server, authenticator *auth.Authenticator, recordStore *store.Store, h hooks.Hooks, m *metrics.Service) *relay.Service {
	return relay.NewService(auth.ParsePolicy(cfg.Auth.SocketJoinPolicy), authenticator, recordStore, h, m)
}

func NewMetricsProvider() *metrics.Service {
	return metrics.New()
}

func NewDecoderProvider() decoder.TransactionDecoder {
	return decoder.NewNoop()
}

func NewHooksProvider() hooks.Hooks {
	return hooks.NewNoop()
}

// NewPushProvider assembles the push fan-out with every provider enabled in
// the config. A service without providers is valid and sends nothing.
func NewPushProvider(cfg config.Server, recordStore *store.Store, dec decoder.TransactionDecoder, m *metrics.Service) (*push.Service, error) {
	svc := push.New(recordStore, dec, m)

	if cfg.Push.UseFCMProvider {
		fcm, err := provider.NewFCM(cfg.Push)
		if err != nil {
			return nil, err
		}
		svc.RegisterProvider(fcm)
	}

	if cfg.Push.UseMockProvider {
		log.Warn().Msg("Initializing mock push provider")
		svc.RegisterProvider(provider.NewMock(provider.TypeFCM))
	}

	return svc, nil
}
