package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideTokenWrite(t *testing.T) {
	existing := []TokenRecord{
		{WkIdentity: "id", KeyToken: "key-1"},
		{WkIdentity: "id", KeyToken: "key-2", WalletToken: "wallet-2"},
	}

	t.Run("new token inserts", func(t *testing.T) {
		op, found := decideTokenWrite(existing, TokenRecord{WkIdentity: "id", KeyToken: "key-3"}, 10)
		assert.Equal(t, tokenWriteInsert, op)
		assert.Nil(t, found)
	})

	t.Run("identical registration is a noop", func(t *testing.T) {
		op, found := decideTokenWrite(existing, TokenRecord{WkIdentity: "id", KeyToken: "key-2", WalletToken: "wallet-2"}, 10)
		assert.Equal(t, tokenWriteNoop, op)
		require.NotNil(t, found)
		assert.Equal(t, "key-2", found.KeyToken)
	})

	t.Run("same keyToken different walletToken inserts", func(t *testing.T) {
		op, _ := decideTokenWrite(existing, TokenRecord{WkIdentity: "id", KeyToken: "key-2", WalletToken: "wallet-other"}, 10)
		assert.Equal(t, tokenWriteInsert, op)
	})

	t.Run("cap rejects", func(t *testing.T) {
		op, _ := decideTokenWrite(existing, TokenRecord{WkIdentity: "id", KeyToken: "key-3"}, 2)
		assert.Equal(t, tokenWriteRejectCap, op)
	})

	t.Run("cap does not block idempotent registration", func(t *testing.T) {
		op, _ := decideTokenWrite(existing, TokenRecord{WkIdentity: "id", KeyToken: "key-1"}, 2)
		assert.Equal(t, tokenWriteNoop, op)
	})

	t.Run("empty existing inserts", func(t *testing.T) {
		op, _ := decideTokenWrite(nil, TokenRecord{WkIdentity: "id", KeyToken: "key-1"}, 1)
		assert.Equal(t, tokenWriteInsert, op)
	})
}
