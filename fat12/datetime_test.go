package fat12_test

import (
	"testing"
	"time"

	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeDate(t *testing.T) {
	raw := fat12.EncodeDate(2024, 3, 15)
	year, month, day := fat12.DecodeDate(raw)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 3, month)
	assert.Equal(t, 15, day)
}

func TestEncodeDecodeTime(t *testing.T) {
	raw := fat12.EncodeTime(13, 45, 30)
	hour, minute, second := fat12.DecodeTime(raw)
	assert.Equal(t, 13, hour)
	assert.Equal(t, 45, minute)
	assert.Equal(t, 30, second) // truncated to 2-second resolution
}

func TestEncodeDecodeTimestampRoundTrip(t *testing.T) {
	loc := time.UTC
	original := time.Date(2023, time.December, 25, 9, 0, 0, 0, loc)

	date, clock := fat12.EncodeTimestamp(original)
	decoded := fat12.DecodeTimestamp(date, clock, loc)

	assert.Equal(t, original, decoded)
}
