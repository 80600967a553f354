package payloads_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-maritime/keelson-go/payloads"
	"github.com/rise-maritime/keelson-go/subject"
)

func TestDecode_ByResolvedTypeName(t *testing.T) {
	sampledAt := time.Date(2024, 5, 2, 8, 30, 0, 250000000, time.UTC)
	original := &payloads.TimestampedFloat{Timestamp: sampledAt, Value: 42.5}

	data, err := original.Marshal()
	require.NoError(t, err)

	// The path a generic consumer takes: subject -> type name -> decoder.
	typeName, err := subject.Resolve("rudder_angle_deg")
	require.NoError(t, err)

	decoded, err := payloads.Decode(typeName, data)
	require.NoError(t, err)

	content, ok := decoded.(*payloads.TimestampedFloat)
	require.True(t, ok, "expected a TimestampedFloat, got %T", decoded)
	assert.Equal(t, 42.5, content.Value)
	assert.True(t, content.Timestamp.Equal(sampledAt))
}

func TestDecode_UnknownTypeName(t *testing.T) {
	_, err := payloads.Decode("acme.NotRegistered", nil)
	require.ErrorIs(t, err, payloads.ErrUnknownTypeName)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := payloads.Decode(payloads.TypeNameTimestampedFloat, []byte{0x0A})
	require.Error(t, err)
}

func TestTimestampedString_RoundTrip(t *testing.T) {
	original := &payloads.TimestampedString{
		Timestamp: time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC),
		Value:     "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47",
	}

	data, err := original.Marshal()
	require.NoError(t, err)

	var decoded payloads.TimestampedString
	require.NoError(t, decoded.Unmarshal(data))

	assert.Equal(t, original.Value, decoded.Value)
	assert.True(t, decoded.Timestamp.Equal(original.Timestamp))
}

func TestTimestampedBytes_RoundTrip(t *testing.T) {
	original := &payloads.TimestampedBytes{
		Timestamp: time.Now(),
		Value:     []byte{0x00, 0x01, 0xFF},
	}

	data, err := original.Marshal()
	require.NoError(t, err)

	var decoded payloads.TimestampedBytes
	require.NoError(t, decoded.Unmarshal(data))

	assert.Equal(t, original.Value, decoded.Value)
	assert.True(t, decoded.Timestamp.Equal(original.Timestamp))
}
