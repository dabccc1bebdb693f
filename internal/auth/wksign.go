package auth

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/dropbox/godropbox/time2"
)

// wk-sign challenges are plaintext strings, hex-encoded on the wire: a
// 13-digit millisecond timestamp followed by at least 32 characters of
// randomness.
const (
	wkSignTimestampDigits = 13
	wkSignMinRandomChars  = 32
	wkSignMinLen          = 45
	wkSignMaxLen          = 500
)

// Timestamp sanity bounds: [2020-01-01, 2100-01-01) in unix milliseconds.
const (
	wkSignMinTimestampMs = 1577836800000
	wkSignMaxTimestampMs = 4102444800000
)

// WkSignValidator authenticates one-shot origin-bound signing requests. It
// is independent of the signed-payload envelope scheme but shares its
// timestamp-window philosophy: staleness is bounded in both directions.
type WkSignValidator struct {
	clock         time2.Clock
	maxAge        time.Duration
	maxClockAhead time.Duration
}

func NewWkSignValidator(cfg config.WkSign, clock time2.Clock) *WkSignValidator {
	return &WkSignValidator{
		clock:         clock,
		maxAge:        cfg.MaxAge,
		maxClockAhead: cfg.MaxClockAhead,
	}
}

// ValidateMessage checks the shape and freshness of a hex-encoded wk-sign
// challenge.
func (v *WkSignValidator) ValidateMessage(hexMessage string) error {
	raw, err := hex.DecodeString(hexMessage)
	if err != nil {
		return NewErrorWithCause(ReasonMalformedSignMessage, err)
	}

	message := string(raw)
	if len(message) < wkSignMinLen || len(message) > wkSignMaxLen {
		return NewError(ReasonMalformedSignMessage)
	}
	if len(message) < wkSignTimestampDigits+wkSignMinRandomChars {
		return NewError(ReasonMalformedSignMessage)
	}

	timestampMs, err := strconv.ParseInt(message[:wkSignTimestampDigits], 10, 64)
	if err != nil {
		return NewErrorWithCause(ReasonMalformedSignMessage, err)
	}

	if timestampMs < wkSignMinTimestampMs || timestampMs >= wkSignMaxTimestampMs {
		return NewError(ReasonMalformedSignMessage)
	}

	nowMs := v.clock.Now().UnixMilli()

	if nowMs-timestampMs > v.maxAge.Milliseconds() {
		return NewError(ReasonSignMessageExpired)
	}

	if timestampMs-nowMs > v.maxClockAhead.Milliseconds() {
		return NewError(ReasonSignMessageFromFuture)
	}

	return nil
}
