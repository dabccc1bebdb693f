package auth_test

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWkSignValidator(t *testing.T) (*auth.WkSignValidator, *time2.MockClock) {
	t.Helper()

	clock := time2.NewMockClock(time.Now())

	return auth.NewWkSignValidator(config.WkSign{
		MaxAge:        15 * time.Minute,
		MaxClockAhead: 5 * time.Minute,
	}, clock), clock
}

func wkSignChallenge(timestampMs int64) string {
	plaintext := fmt.Sprintf("%013d%s", timestampMs, strings.Repeat("r", 32))
	return hex.EncodeToString([]byte(plaintext))
}

func TestValidateMessage(t *testing.T) {
	v, clock := newTestWkSignValidator(t)

	require.NoError(t, v.ValidateMessage(wkSignChallenge(clock.Now().UnixMilli())))

	// A few minutes old is fine.
	require.NoError(t, v.ValidateMessage(wkSignChallenge(clock.Now().Add(-14*time.Minute).UnixMilli())))

	// Slightly ahead of server time is tolerated.
	require.NoError(t, v.ValidateMessage(wkSignChallenge(clock.Now().Add(4*time.Minute).UnixMilli())))
}

func TestValidateMessageRejectsStale(t *testing.T) {
	v, clock := newTestWkSignValidator(t)

	err := v.ValidateMessage(wkSignChallenge(clock.Now().Add(-16 * time.Minute).UnixMilli()))
	require.Error(t, err)
	reason, _ := auth.ReasonOf(err)
	assert.Equal(t, auth.ReasonSignMessageExpired, reason)
}

func TestValidateMessageRejectsFuture(t *testing.T) {
	v, clock := newTestWkSignValidator(t)

	err := v.ValidateMessage(wkSignChallenge(clock.Now().Add(6 * time.Minute).UnixMilli()))
	require.Error(t, err)
	reason, _ := auth.ReasonOf(err)
	assert.Equal(t, auth.ReasonSignMessageFromFuture, reason)
}

func TestValidateMessageRejectsMalformed(t *testing.T) {
	v, clock := newTestWkSignValidator(t)

	nowMs := clock.Now().UnixMilli()

	tests := []struct {
		name    string
		message string
	}{
		{"not hex", "zzzz"},
		{"empty", ""},
		{"too short", hex.EncodeToString([]byte(fmt.Sprintf("%013d%s", nowMs, "short")))},
		{"too long", hex.EncodeToString([]byte(fmt.Sprintf("%013d%s", nowMs, strings.Repeat("r", 600))))},
		{"no timestamp", hex.EncodeToString([]byte(strings.Repeat("x", 50)))},
		{"timestamp before 2020", wkSignChallenge(1500000000000)},
		{"timestamp after 2100", hex.EncodeToString([]byte("9999999999999" + strings.Repeat("r", 32)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateMessage(tt.message)
			require.Error(t, err)
			reason, _ := auth.ReasonOf(err)
			assert.Equal(t, auth.ReasonMalformedSignMessage, reason)
		})
	}
}
