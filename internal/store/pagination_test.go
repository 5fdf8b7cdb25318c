package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name          string
		input         PaginationParams
		expectedLimit int
	}{
		{"valid parameters", PaginationParams{Limit: 20}, 20},
		{"zero limit defaults", PaginationParams{Limit: 0}, DefaultPageSize},
		{"negative limit defaults", PaginationParams{Limit: -10}, DefaultPageSize},
		{"limit over max is capped", PaginationParams{Limit: 5000}, MaxPageSize},
		{"limit exactly max stays", PaginationParams{Limit: MaxPageSize}, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.input
			params.Validate()
			assert.Equal(t, tt.expectedLimit, params.Limit)
		})
	}
}

func TestEncodeCursor(t *testing.T) {
	assert.Empty(t, EncodeCursor(""))
	assert.Equal(t, "dmlkZW86MDAx", EncodeCursor("video:001"))

	decoded, err := DecodeCursor("dmlkZW86MDAx")
	require.NoError(t, err)
	assert.Equal(t, "video:001", decoded)

	_, err = DecodeCursor("!!!not-base64")
	assert.Error(t, err)
}

func TestPosition_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 123456789, time.UTC)

	cursor := EncodePosition(Position{CreatedAt: at, ID: "vid-abc"})
	pos, err := DecodePosition(cursor)

	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.True(t, at.Equal(pos.CreatedAt))
	assert.Equal(t, "vid-abc", pos.ID)
}

func TestDecodePosition_Invalid(t *testing.T) {
	pos, err := DecodePosition("")
	require.NoError(t, err)
	assert.Nil(t, pos)

	_, err = DecodePosition(EncodeCursor("no-separator"))
	assert.Error(t, err)

	_, err = DecodePosition(EncodeCursor("yesterday|vid-1"))
	assert.Error(t, err)
}
