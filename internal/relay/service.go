package relay

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/hooks"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/metrics"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/pkg/errors"
)

const (
	minIdentityLen = 10
	maxIdentityLen = 500
)

var (
	errInvalidJoinIdentity = errors.New("join identity is malformed")
)

// ActionSource provides the pending action replayed on key-side joins.
type ActionSource interface {
	GetActionByWkIdentity(ctx context.Context, wkIdentity string) (*store.ActionRecord, error)
}

// Service owns both relay channels and the join/leave/emit protocol.
type Service struct {
	policy        auth.Policy
	authenticator *auth.Authenticator
	actions       ActionSource
	hooks         hooks.Hooks
	metrics       *metrics.Service

	keyHub    *Hub
	walletHub *Hub
}

func NewService(policy auth.Policy, authenticator *auth.Authenticator, actions ActionSource, h hooks.Hooks, m *metrics.Service) *Service {
	return &Service{
		policy:        policy,
		authenticator: authenticator,
		actions:       actions,
		hooks:         h,
		metrics:       m,
		keyHub:        NewHub(ChannelKey),
		walletHub:     NewHub(ChannelWallet),
	}
}

// Hub returns the hub backing a channel.
func (s *Service) Hub(channel Channel) *Hub {
	if channel == ChannelKey {
		return s.keyHub
	}

	return s.walletHub
}

// JoinData is the payload of a join or leave event.
type JoinData struct {
	WkIdentity    string `json:"wkIdentity"`
	Signature     string `json:"signature,omitempty"`
	Message       string `json:"message,omitempty"`
	PublicKey     string `json:"publicKey,omitempty"`
	WitnessScript string `json:"witnessScript,omitempty"`
}

func (d JoinData) authFields() auth.Fields {
	return auth.Fields{
		Signature:     d.Signature,
		Message:       d.Message,
		PublicKey:     d.PublicKey,
		WitnessScript: d.WitnessScript,
	}
}

// HandleJoin places the client in the room named by the join identity. Joins
// carrying auth fields are verified; joins without them are accepted only
// under the optional policy (legacy clients). A failed join emits an error
// event and reports failure so the caller disconnects the socket.
func (s *Service) HandleJoin(ctx context.Context, channel Channel, client *Client, data JoinData) error {
	log := util.LogFromContext(ctx)
	hub := s.Hub(channel)

	if len(data.WkIdentity) < minIdentityLen || len(data.WkIdentity) > maxIdentityLen {
		s.rejectJoin(channel, client)
		return errInvalidJoinIdentity
	}

	fields := data.authFields()
	authenticated := false

	switch {
	case fields.Present():
		verified, err := s.authenticator.Verify(fields, data.WkIdentity)
		if err != nil {
			log.Warn().Err(err).Str("channel", string(channel)).Msg("Socket join verification failed")
			s.rejectJoin(channel, client)
			return err
		}
		if verified.Payload.Action != auth.ActionJoin {
			err := auth.NewError(auth.ReasonInvalidAction)
			log.Warn().Err(err).Str("channel", string(channel)).Msg("Socket join signed for a different action")
			s.rejectJoin(channel, client)
			return err
		}
		authenticated = true
	case s.policy == auth.PolicyRequired:
		err := auth.NewError(auth.ReasonInvalidSignature)
		log.Warn().Err(err).Str("channel", string(channel)).Msg("Rejecting unauthenticated socket join")
		s.rejectJoin(channel, client)
		return err
	default:
		// Transitional compatibility: unauthenticated joins pass until
		// all clients sign them.
		log.Debug().Str("channel", string(channel)).Msg("Accepting unauthenticated socket join")
	}

	hub.Join(data.WkIdentity, client)
	s.metrics.SocketJoinsTotal.WithLabelValues(string(channel), "ok").Inc()
	s.hooks.OnSocketJoin(ctx, string(channel), data.WkIdentity, authenticated)

	if channel == ChannelKey {
		s.replayPendingAction(ctx, client, data.WkIdentity)
	}

	return nil
}

// HandleLeave removes the client from the room. No auth required.
func (s *Service) HandleLeave(ctx context.Context, channel Channel, client *Client, data JoinData) {
	if data.WkIdentity == "" {
		return
	}

	s.Hub(channel).Leave(data.WkIdentity, client)
	s.metrics.SocketLeavesTotal.WithLabelValues(string(channel)).Inc()
}

// RelayAction emits a freshly stored action to the channel that consumes its
// action type; unknown types go to both channels.
func (s *Service) RelayAction(ctx context.Context, rec *store.ActionRecord) {
	ev := Event{Event: rec.Action, Data: rec}

	known := false
	if IsKeyConsumable(rec.Action) {
		known = true
		delivered := s.keyHub.Emit(rec.WkIdentity, ev)
		s.metrics.ActionsRelayedTotal.WithLabelValues(string(ChannelKey), rec.Action).Inc()
		util.LogFromContext(ctx).Debug().Str("action", rec.Action).Int("delivered", delivered).Msg("Relayed action to key channel")
	}
	if IsWalletConsumable(rec.Action) {
		known = true
		delivered := s.walletHub.Emit(rec.WkIdentity, ev)
		s.metrics.ActionsRelayedTotal.WithLabelValues(string(ChannelWallet), rec.Action).Inc()
		util.LogFromContext(ctx).Debug().Str("action", rec.Action).Int("delivered", delivered).Msg("Relayed action to wallet channel")
	}

	if !known {
		s.keyHub.Emit(rec.WkIdentity, ev)
		s.walletHub.Emit(rec.WkIdentity, ev)
	}
}

// replayPendingAction re-delivers the outstanding action to a key-side join
// so the key app catches up on anything posted while it was offline.
func (s *Service) replayPendingAction(ctx context.Context, client *Client, wkIdentity string) {
	log := util.LogFromContext(ctx)

	rec, err := s.actions.GetActionByWkIdentity(ctx, wkIdentity)
	if err != nil {
		if !errors.Is(err, store.ErrNoRecord) {
			log.Warn().Err(err).Msg("Failed to load pending action for join replay")
		}
		return
	}

	if !IsKeyConsumable(rec.Action) {
		return
	}

	if rec = s.hooks.FilterActionForKey(ctx, rec); rec == nil {
		return
	}

	client.SendEvent(Event{Event: rec.Action, Data: rec})
}

// rejectJoin emits the generic error event synchronously, so the frame is on
// the wire before the caller disconnects the socket. The reason stays in the
// logs; the client must re-join with a freshly signed payload, the failed one
// can never succeed again once its nonce is burnt.
func (s *Service) rejectJoin(channel Channel, client *Client) {
	s.metrics.SocketJoinsTotal.WithLabelValues(string(channel), "rejected").Inc()
	client.SendEventNow(Event{Event: EventError, Data: "join rejected"})
}
