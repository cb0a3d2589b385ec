package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCreatedAtToken(t *testing.T) {
	// Standard time value
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCreatedAtToken(createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeCreatedAtToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decoded, "Created at time should match after decode")

	// Zero time value
	zeroTime := time.Time{}
	zeroToken := EncodeCreatedAtToken(zeroTime)
	decodedZero, err := DecodeCreatedAtToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, zeroTime, decodedZero, "Zero time should match after decode")

	// Current time value; use Equal to sidestep monotonic clock differences
	now := time.Now().UTC()
	nowToken := EncodeCreatedAtToken(now)
	decodedNow, err := DecodeCreatedAtToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeCreatedAtToken_Invalid(t *testing.T) {
	_, err := DecodeCreatedAtToken("not-base64!!")
	assert.Error(t, err, "Invalid base64 should return an error")

	// Valid base64 but not a timestamp
	_, err = DecodeCreatedAtToken("aGVsbG8gd29ybGQ=")
	assert.Error(t, err, "Non-timestamp payload should return an error")
}
