package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rise-maritime/keelson-go/transport"
)

func TestSubjectFor(t *testing.T) {
	cases := map[string]struct {
		keyExpr string
		want    string
	}{
		"concrete key": {
			keyExpr: "realm/@v0/boat-1/pubsub/raw/cam-0",
			want:    "keelson.realm.@v0.boat-1.pubsub.raw.cam-0",
		},
		"segment wildcard": {
			keyExpr: "realm/@v0/*/pubsub/raw/*",
			want:    "keelson.realm.@v0.*.pubsub.raw.*",
		},
		"tail wildcard": {
			keyExpr: "realm/@v0/boat-1/pubsub/**",
			want:    "keelson.realm.@v0.boat-1.pubsub.>",
		},
		"match everything": {
			keyExpr: "**",
			want:    "keelson.>",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, transport.SubjectFor("keelson", tc.keyExpr))
		})
	}
}

func TestKeyFor_InvertsSubjectFor(t *testing.T) {
	key := "realm/@v0/boat-1/pubsub/raw/cam-0"

	subject := transport.SubjectFor("keelson", key)
	assert.Equal(t, key, transport.KeyFor("keelson", subject))
}
