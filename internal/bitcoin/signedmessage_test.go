package bitcoin_test

import (
	"encoding/hex"
	"testing"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/bitcoin"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureWIF = "L1TnU2zbNaAqMoVh65Cyvmcjzbrj41Gs9iTLcWbpJCMynXuap6UN"

func TestSignAndVerifyMessage(t *testing.T) {
	wif, err := btcutil.DecodeWIF(fixtureWIF)
	require.NoError(t, err)

	assert.Equal(t, fixturePubKey, hex.EncodeToString(wif.PrivKey.PubKey().SerializeCompressed()))

	message := `{"timestamp":1700000000000,"action":"sync","identity":"abc","nonce":"00"}`

	signature, err := bitcoin.SignMessage(message, wif.PrivKey, bitcoin.DefaultMessagePrefix)
	require.NoError(t, err)

	assert.True(t, bitcoin.VerifySignedMessage(message, signature, fixtureAddress, bitcoin.NetworkMainnet, bitcoin.DefaultMessagePrefix))
}

func TestVerifySignedMessageRejectsTampering(t *testing.T) {
	wif, err := btcutil.DecodeWIF(fixtureWIF)
	require.NoError(t, err)

	message := "hello relay"
	signature, err := bitcoin.SignMessage(message, wif.PrivKey, bitcoin.DefaultMessagePrefix)
	require.NoError(t, err)

	// Message changed after signing.
	assert.False(t, bitcoin.VerifySignedMessage("hello relay!", signature, fixtureAddress, bitcoin.NetworkMainnet, bitcoin.DefaultMessagePrefix))

	// Signature over the message but checked against another address.
	assert.False(t, bitcoin.VerifySignedMessage(message, signature, "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", bitcoin.NetworkMainnet, bitcoin.DefaultMessagePrefix))

	// Garbage signatures fail without error.
	assert.False(t, bitcoin.VerifySignedMessage(message, "not base64!!!", fixtureAddress, bitcoin.NetworkMainnet, bitcoin.DefaultMessagePrefix))
	assert.False(t, bitcoin.VerifySignedMessage(message, "", fixtureAddress, bitcoin.NetworkMainnet, bitcoin.DefaultMessagePrefix))
	assert.False(t, bitcoin.VerifySignedMessage(message, "aGVsbG8=", fixtureAddress, bitcoin.NetworkMainnet, bitcoin.DefaultMessagePrefix))
}

func TestVerifySignedMessageUsesPrefix(t *testing.T) {
	wif, err := btcutil.DecodeWIF(fixtureWIF)
	require.NoError(t, err)

	message := "prefixed message"
	signature, err := bitcoin.SignMessage(message, wif.PrivKey, "Custom Prefix:\n")
	require.NoError(t, err)

	assert.True(t, bitcoin.VerifySignedMessage(message, signature, fixtureAddress, bitcoin.NetworkMainnet, "Custom Prefix:\n"))
	assert.False(t, bitcoin.VerifySignedMessage(message, signature, fixtureAddress, bitcoin.NetworkMainnet, bitcoin.DefaultMessagePrefix))
}
