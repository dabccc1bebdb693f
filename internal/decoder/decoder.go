// Package decoder defines the transaction-decoding collaborator. Decoding is
// only used to build human-readable push notification text; it never gates
// authentication or storage.
package decoder

import "github.com/pkg/errors"

// ErrDecodingFailed is the sentinel a decoder returns for payloads it cannot
// interpret. Callers fall back to generic notification text.
var ErrDecodingFailed = errors.New("transaction payload could not be decoded")

// DecodedTransaction is the human-readable summary of a transaction payload.
type DecodedTransaction struct {
	Receiver    string
	Amount      string
	TokenSymbol string
	Sender      string
	Fee         string
	Token       string
	Data        string
}

// TransactionDecoder turns a raw chain-specific payload into a displayable
// summary.
type TransactionDecoder interface {
	Decode(rawPayload string, chain string) (*DecodedTransaction, error)
}

// Noop is the default decoder: every payload is undecodable.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (d *Noop) Decode(rawPayload string, chain string) (*DecodedTransaction, error) {
	return nil, ErrDecodingFailed
}
