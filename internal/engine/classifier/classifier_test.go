package classifier

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/progression-engine/internal/domain/model"
)

func notification(rawCategory string, payload []byte) model.Notification {
	return model.Notification{
		Chain:       model.ChainAvalanche,
		Emitter:     "0xDEX",
		RawCategory: rawCategory,
		Subject:     "0xPlayer",
		Payload:     payload,
		BlockHeight: 1042,
		ObservedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestClassifySignatureMapping(t *testing.T) {
	c := New()

	tests := []struct {
		raw     string
		payload string
		want    model.EventCategory
	}{
		{"SwapExecuted", `{"amount_in":500,"amount_out":480}`, model.CategorySwap},
		{"TokenSwap", `{"amount_in":500}`, model.CategorySwap},
		{"TokensStaked", `{"amount":1000,"validator":"v1"}`, model.CategoryStake},
		{"Transfer", `{"amount":250,"token":"USDC"}`, model.CategoryTransfer},
		{"VoteCast", `{"proposal_id":7,"weight":3}`, model.CategoryVote},
		{"BridgeTransfer", `{"amount":900,"destination_chain":"base"}`, model.CategoryBridge},
		{"NFTMinted", `{"collection":"apes","token_id":12,"price":777}`, model.CategoryNFT},
		{"AssetSupplied", `{"amount":5000,"market":"usdc-main"}`, model.CategoryLend},
		{"LevelCompleted", `{"level_id":3,"score":8800}`, model.CategoryLevelComplete},
		{"HighScoreSet", `{"game":"runner","score":12000}`, model.CategoryHighScore},
		{"DailyLogin", `{"day":4}`, model.CategoryDailyLogin},
		{"PlayerLogin", `{"day":1}`, model.CategoryDailyLogin},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ev, err := c.Classify(notification(tt.raw, []byte(tt.payload)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Decoded.Category)
			assert.NotEmpty(t, ev.Fingerprint)
		})
	}
}

func TestClassifyUnknownSignature(t *testing.T) {
	c := New()

	_, err := c.Classify(notification("MysteryEvent", []byte(`{}`)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnclassifiable)
	assert.Contains(t, err.Error(), "MysteryEvent")
}

func TestClassifyMalformedPayload(t *testing.T) {
	c := New()

	_, err := c.Classify(notification("SwapExecuted", []byte(`{"amount_in":`)))
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, model.CategorySwap, decodeErr.Category)
	assert.NotErrorIs(t, err, ErrUnclassifiable)
}

func TestClassifyRejectsNonPositiveAmount(t *testing.T) {
	c := New()

	_, err := c.Classify(notification("Transfer", []byte(`{"amount":0,"token":"USDC"}`)))
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestClassifyMagnitudeProjection(t *testing.T) {
	c := New()

	ev, err := c.Classify(notification("SwapExecuted", []byte(`{"amount_in":500,"amount_out":480}`)))
	require.NoError(t, err)
	assert.Equal(t, int64(500), ev.Decoded.Magnitude)
	assert.Zero(t, ev.Decoded.Score)

	ev, err = c.Classify(notification("LevelCompleted", []byte(`{"level_id":3,"score":8800}`)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), ev.Decoded.Magnitude)
	assert.Equal(t, int64(8800), ev.Decoded.Score)
}

func TestClassifyFingerprintStable(t *testing.T) {
	c := New()

	a, err := c.Classify(notification("Transfer", []byte(`{"amount":250,"token":"USDC"}`)))
	require.NoError(t, err)

	// Payload re-encoding by a relay must not change the fingerprint.
	b, err := c.Classify(notification("Transfer", []byte(`{"token":"USDC","amount":250}`)))
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
}
