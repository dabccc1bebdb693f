//go:build wireinject

//go:generate wire

package api

import (
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/mongo"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewClock,
	NewReplayGuardProvider,
	NewAuthenticatorProvider,
	NewWkSignValidatorProvider,
	NewStoreProvider,
	NewRelayServiceProvider,
	NewPushProvider,
	NewDecoderProvider,
	NewHooksProvider,
	NewMetricsProvider,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewMongoDatabaseProvider)
	return new(Server), nil
}

// InitNewServerWithDB returns a new Server instance with the given database.
// All the other components are initialized via go wire according to the
// configuration.
func InitNewServerWithDB(
	_ config.Server,
	_ *mongo.Database,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
