package przelewy24

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, "42:przelewy24:1700000000.000000", NewSessionID(42, "przelewy24", now))

	withMicros := time.Unix(1700000000, 250000*1000)
	assert.Equal(t, "7:przelewy24:1700000000.250000", NewSessionID(7, "przelewy24", withMicros))
}

func TestParseSessionID(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		id, err := ParseSessionID("42:somebackend:1234567890")
		require.NoError(t, err)
		assert.Equal(t, uint(42), id)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		id, err := ParseSessionID(NewSessionID(1001, "przelewy24", time.Now()))
		require.NoError(t, err)
		assert.Equal(t, uint(1001), id)
	})

	malformed := []string{
		"",
		"42",
		"abc:przelewy24:1",
		":przelewy24:1",
		"-1:przelewy24:1",
		"4 2:przelewy24:1",
	}
	for _, s := range malformed {
		t.Run("Malformed_"+s, func(t *testing.T) {
			_, err := ParseSessionID(s)
			assert.ErrorIs(t, err, errMalformedSession)
		})
	}
}
