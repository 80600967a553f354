package keelson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keelson "github.com/rise-maritime/keelson-go"
)

func TestConstructPubSubKey(t *testing.T) {
	key := keelson.ConstructPubSubKey("realm", "boat-1", "rudder_angle_deg", "rudder-0")
	assert.Equal(t, "realm/@v0/boat-1/pubsub/rudder_angle_deg/rudder-0", key)
}

func TestConstructTargetedPubSubKey(t *testing.T) {
	key := keelson.ConstructTargetedPubSubKey("realm", "boat-1", "raw", "cam-0", "shore")
	assert.Equal(t, "realm/@v0/boat-1/pubsub/raw/cam-0/@target/shore", key)
}

func TestConstructRPCKey(t *testing.T) {
	key := keelson.ConstructRPCKey("realm", "boat-1", "set_rudder_angle", "autopilot")
	assert.Equal(t, "realm/@v0/boat-1/@rpc/set_rudder_angle/autopilot", key)
}

func TestParsePubSubKey(t *testing.T) {
	parsed, err := keelson.ParsePubSubKey("realm/@v0/boat-1/pubsub/raw/cam/axis-1")
	require.NoError(t, err)

	assert.Equal(t, keelson.PubSubKey{
		BasePath: "realm",
		EntityID: "boat-1",
		Subject:  "raw",
		SourceID: "cam/axis-1", // source ids may span several segments
	}, parsed)
}

func TestParsePubSubKey_Target(t *testing.T) {
	parsed, err := keelson.ParsePubSubKey("realm/@v0/boat-1/pubsub/raw/cam-0/@target/shore")
	require.NoError(t, err)

	assert.Equal(t, "cam-0", parsed.SourceID)
	assert.Equal(t, "shore", parsed.TargetID)
}

func TestParsePubSubKey_RoundTrip(t *testing.T) {
	key := "realm/@v0/boat-1/pubsub/raw/cam/axis-1/@target/shore"

	parsed, err := keelson.ParsePubSubKey(key)
	require.NoError(t, err)
	assert.Equal(t, key, parsed.String())
}

func TestParsePubSubKey_Malformed(t *testing.T) {
	cases := []string{
		"",
		"nope",
		"realm/@v1/boat-1/pubsub/raw/cam-0",
		"realm/@v0/boat-1/rpcish/raw/cam-0",
		"realm/@v0/boat-1/pubsub/raw",
		"realm/@v0/boat-1/pubsub//cam-0",
		"realm/@v0/boat-1/pubsub/raw/@target/shore/extra",
	}

	for _, key := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := keelson.ParsePubSubKey(key)
			require.ErrorIs(t, err, keelson.ErrMalformedKey)
		})
	}
}

func TestParseRPCKey(t *testing.T) {
	parsed, err := keelson.ParseRPCKey("realm/@v0/boat-1/@rpc/set_rudder_angle/autopilot")
	require.NoError(t, err)

	assert.Equal(t, keelson.RPCKey{
		BasePath:    "realm",
		EntityID:    "boat-1",
		Procedure:   "set_rudder_angle",
		ResponderID: "autopilot",
	}, parsed)
}

func TestParseRPCKey_Malformed(t *testing.T) {
	cases := []string{
		"realm/@v0/boat-1/pubsub/raw/cam-0",
		"realm/@v0/boat-1/@rpc/proc",
		"realm/@v0/boat-1/@rpc/proc/responder/extra",
	}

	for _, key := range cases {
		t.Run(key, func(t *testing.T) {
			_, err := keelson.ParseRPCKey(key)
			require.ErrorIs(t, err, keelson.ErrMalformedKey)
		})
	}
}

func TestSubjectFromPubSubKey(t *testing.T) {
	subj, err := keelson.SubjectFromPubSubKey("realm/@v0/boat-1/pubsub/rudder_angle_deg/rudder-0")
	require.NoError(t, err)
	assert.Equal(t, "rudder_angle_deg", subj)
}
