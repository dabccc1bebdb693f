package relay

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/bitcoin"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/hooks"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/metrics"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeActionSource serves a single canned pending action.
type fakeActionSource struct {
	rec *store.ActionRecord
}

func (f *fakeActionSource) GetActionByWkIdentity(ctx context.Context, wkIdentity string) (*store.ActionRecord, error) {
	if f.rec == nil || f.rec.WkIdentity != wkIdentity {
		return nil, store.ErrNoRecord
	}

	return f.rec, nil
}

func newTestService(t *testing.T, policy auth.Policy, actions ActionSource) *Service {
	t.Helper()

	cfg := config.Auth{
		MessagePrefix:     bitcoin.DefaultMessagePrefix,
		MaxTimestampDrift: 10 * time.Minute,
		NonceTTL:          10 * time.Minute,
		NonceCapacity:     1000,
		NonceSweep:        10 * time.Minute,
	}
	clock := time2.NewMockClock(time.Now())
	authenticator := auth.NewAuthenticator(cfg, auth.NewReplayGuard(cfg, clock), clock)

	if actions == nil {
		actions = &fakeActionSource{}
	}

	return NewService(policy, authenticator, actions, hooks.NewNoop(), metrics.New())
}

// signedJoinData builds join data signed by a fresh key, returning the data
// and the identity it authorizes.
func signedJoinData(t *testing.T) (JoinData, string) {
	t.Helper()

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	pubKeyHex := hex.EncodeToString(priv.PubKey().SerializeCompressed())
	identity, err := bitcoin.DeriveP2PKH(pubKeyHex, bitcoin.NetworkMainnet)
	require.NoError(t, err)

	nonce := make([]byte, 32)
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	envelope, err := json.Marshal(map[string]interface{}{
		"timestamp": time.Now().UnixMilli(),
		"action":    "join",
		"identity":  identity,
		"nonce":     hex.EncodeToString(nonce),
	})
	require.NoError(t, err)

	signature, err := bitcoin.SignMessage(string(envelope), priv, bitcoin.DefaultMessagePrefix)
	require.NoError(t, err)

	return JoinData{
		WkIdentity: identity,
		Signature:  signature,
		Message:    string(envelope),
		PublicKey:  pubKeyHex,
	}, identity
}

func TestHandleJoinLegacyUnauthenticated(t *testing.T) {
	s := newTestService(t, auth.PolicyOptional, nil)
	client := NewClient(nil)

	data := JoinData{WkIdentity: "legacy-identity-1234"}
	require.NoError(t, s.HandleJoin(context.Background(), ChannelWallet, client, data))

	// The room is named exactly by the identity.
	assert.Equal(t, 1, s.Hub(ChannelWallet).RoomSize("legacy-identity-1234"))
}

func TestHandleJoinRequiredPolicyRejectsUnauthenticated(t *testing.T) {
	s := newTestService(t, auth.PolicyRequired, nil)
	client := NewClient(nil)

	err := s.HandleJoin(context.Background(), ChannelWallet, client, JoinData{WkIdentity: "legacy-identity-1234"})
	require.Error(t, err)
	assert.Equal(t, 0, s.Hub(ChannelWallet).RoomSize("legacy-identity-1234"))

	// The client got the generic error event before disconnect.
	select {
	case frame := <-client.send:
		var ev Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		assert.Equal(t, EventError, ev.Event)
	default:
		t.Fatal("expected an error event")
	}
}

func TestHandleJoinAuthenticated(t *testing.T) {
	s := newTestService(t, auth.PolicyRequired, nil)
	client := NewClient(nil)

	data, identity := signedJoinData(t)
	require.NoError(t, s.HandleJoin(context.Background(), ChannelKey, client, data))
	assert.Equal(t, 1, s.Hub(ChannelKey).RoomSize(identity))
}

func TestHandleJoinRejectsReplayedJoin(t *testing.T) {
	s := newTestService(t, auth.PolicyRequired, nil)

	data, identity := signedJoinData(t)
	require.NoError(t, s.HandleJoin(context.Background(), ChannelKey, NewClient(nil), data))

	// The same signed join cannot be used twice, its nonce is burnt.
	err := s.HandleJoin(context.Background(), ChannelKey, NewClient(nil), data)
	require.Error(t, err)
	assert.Equal(t, 1, s.Hub(ChannelKey).RoomSize(identity))
}

func TestHandleJoinRejectsWrongActionEnvelope(t *testing.T) {
	s := newTestService(t, auth.PolicyRequired, nil)
	client := NewClient(nil)

	// Envelope signed for a non-join action.
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pubKeyHex := hex.EncodeToString(priv.PubKey().SerializeCompressed())
	identity, err := bitcoin.DeriveP2PKH(pubKeyHex, bitcoin.NetworkMainnet)
	require.NoError(t, err)

	nonce := make([]byte, 32)
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	envelope, err := json.Marshal(map[string]interface{}{
		"timestamp": time.Now().UnixMilli(),
		"action":    "sync",
		"identity":  identity,
		"nonce":     hex.EncodeToString(nonce),
	})
	require.NoError(t, err)

	signature, err := bitcoin.SignMessage(string(envelope), priv, bitcoin.DefaultMessagePrefix)
	require.NoError(t, err)

	data := JoinData{
		WkIdentity: identity,
		Signature:  signature,
		Message:    string(envelope),
		PublicKey:  pubKeyHex,
	}

	err = s.HandleJoin(context.Background(), ChannelKey, client, data)
	require.Error(t, err)
	reason, _ := auth.ReasonOf(err)
	assert.Equal(t, auth.ReasonInvalidAction, reason)
}

func TestHandleJoinRejectsShortIdentity(t *testing.T) {
	s := newTestService(t, auth.PolicyOptional, nil)

	err := s.HandleJoin(context.Background(), ChannelKey, NewClient(nil), JoinData{WkIdentity: "short"})
	require.Error(t, err)
}

func TestHandleJoinReplaysPendingKeyAction(t *testing.T) {
	pending := &store.ActionRecord{
		WkIdentity: "legacy-identity-1234",
		Action:     "tx",
		Payload:    "rawtx",
	}
	s := newTestService(t, auth.PolicyOptional, &fakeActionSource{rec: pending})

	client := NewClient(nil)
	require.NoError(t, s.HandleJoin(context.Background(), ChannelKey, client, JoinData{WkIdentity: "legacy-identity-1234"}))

	select {
	case frame := <-client.send:
		var ev Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		assert.Equal(t, "tx", ev.Event)
	default:
		t.Fatal("expected the pending action to be replayed")
	}
}

func TestHandleJoinDoesNotReplayWalletActions(t *testing.T) {
	pending := &store.ActionRecord{
		WkIdentity: "legacy-identity-1234",
		Action:     "txid",
		Payload:    "abc",
	}
	s := newTestService(t, auth.PolicyOptional, &fakeActionSource{rec: pending})

	client := NewClient(nil)
	require.NoError(t, s.HandleJoin(context.Background(), ChannelKey, client, JoinData{WkIdentity: "legacy-identity-1234"}))

	select {
	case <-client.send:
		t.Fatal("wallet-consumable actions must not be replayed to the key channel")
	default:
	}
}

func TestRelayActionRoutesByConsumer(t *testing.T) {
	s := newTestService(t, auth.PolicyOptional, nil)

	keyClient := NewClient(nil)
	walletClient := NewClient(nil)
	s.Hub(ChannelKey).Join("legacy-identity-1234", keyClient)
	s.Hub(ChannelWallet).Join("legacy-identity-1234", walletClient)

	s.RelayAction(context.Background(), &store.ActionRecord{WkIdentity: "legacy-identity-1234", Action: "tx", Payload: "raw"})

	select {
	case <-keyClient.send:
	default:
		t.Fatal("key channel should receive tx actions")
	}
	select {
	case <-walletClient.send:
		t.Fatal("wallet channel should not receive tx actions")
	default:
	}

	s.RelayAction(context.Background(), &store.ActionRecord{WkIdentity: "legacy-identity-1234", Action: "txid", Payload: "id"})

	select {
	case <-walletClient.send:
	default:
		t.Fatal("wallet channel should receive txid actions")
	}
}

func TestHandleLeave(t *testing.T) {
	s := newTestService(t, auth.PolicyOptional, nil)
	client := NewClient(nil)

	require.NoError(t, s.HandleJoin(context.Background(), ChannelWallet, client, JoinData{WkIdentity: "legacy-identity-1234"}))
	s.HandleLeave(context.Background(), ChannelWallet, client, JoinData{WkIdentity: "legacy-identity-1234"})

	assert.Equal(t, 0, s.Hub(ChannelWallet).RoomSize("legacy-identity-1234"))
}
