package subject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-maritime/keelson-go/subject"
)

func TestResolve_WellKnownTotality(t *testing.T) {
	reg := subject.Default()

	for _, tag := range reg.Tags() {
		typeName, err := reg.Resolve(tag)
		require.NoError(t, err, "tag %q should resolve", tag)
		assert.NotEmpty(t, typeName)
	}
}

func TestResolve_Exact(t *testing.T) {
	typeName, err := subject.Resolve("raw")
	require.NoError(t, err)
	assert.Equal(t, "keelson.primitives.TimestampedBytes", typeName)

	typeName, err = subject.Resolve("rudder_angle_deg")
	require.NoError(t, err)
	assert.Equal(t, "keelson.primitives.TimestampedFloat", typeName)
}

func TestResolve_Unknown(t *testing.T) {
	typeName, err := subject.Resolve("nonexistent-tag")
	require.ErrorIs(t, err, subject.ErrUnknownSubject)
	assert.Empty(t, typeName)
}

func TestIsWellKnown(t *testing.T) {
	assert.True(t, subject.IsWellKnown("raw"))
	assert.False(t, subject.IsWellKnown("nonexistent-tag"))
}

func TestNewRegistry_CopiesTable(t *testing.T) {
	table := map[string]string{"custom": "acme.Custom"}
	reg := subject.NewRegistry(table)

	// Mutating the source table after construction must not leak into the
	// registry.
	table["custom"] = "acme.Other"
	table["late"] = "acme.Late"

	typeName, err := reg.Resolve("custom")
	require.NoError(t, err)
	assert.Equal(t, "acme.Custom", typeName)

	_, err = reg.Resolve("late")
	require.ErrorIs(t, err, subject.ErrUnknownSubject)
}
