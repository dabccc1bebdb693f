package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service bundles the relay prometheus collectors.
type Service struct {
	Registry *prometheus.Registry

	VerificationsTotal  *prometheus.CounterVec
	ReplaysRejected     prometheus.Counter
	SocketJoinsTotal    *prometheus.CounterVec
	SocketLeavesTotal   *prometheus.CounterVec
	ActionsRelayedTotal *prometheus.CounterVec
	PushSendsTotal      *prometheus.CounterVec
}

// New registers the relay collectors on a fresh registry.
func New() *Service {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Service{
		Registry: registry,
		VerificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_identity_verifications_total",
			Help: "Identity verifications by scheme and outcome.",
		}, []string{"scheme", "outcome"}),
		ReplaysRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_replays_rejected_total",
			Help: "Nonces rejected by the replay guard.",
		}),
		SocketJoinsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_socket_joins_total",
			Help: "Socket room joins by channel and outcome.",
		}, []string{"channel", "outcome"}),
		SocketLeavesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_socket_leaves_total",
			Help: "Socket room leaves by channel.",
		}, []string{"channel"}),
		ActionsRelayedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_actions_relayed_total",
			Help: "Action records emitted to rooms by channel and action type.",
		}, []string{"channel", "action"}),
		PushSendsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_push_sends_total",
			Help: "Push notification sends by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}
}
