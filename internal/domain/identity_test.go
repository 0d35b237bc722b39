package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentity_Unique(t *testing.T) {
	a, b := NewIdentity(), NewIdentity()
	assert.False(t, a.Equal(b))
	assert.Equal(t, IdentityGenerated, a.Kind())
	assert.False(t, a.IsZero())
}

func TestNaturalKey(t *testing.T) {
	id, err := NaturalKey("L")
	require.NoError(t, err)
	assert.True(t, id.IsNatural())
	assert.Equal(t, "L", id.String())
	assert.True(t, id.Equal(MustNaturalKey("L")))

	_, err = NaturalKey("")
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = NaturalKey("slow walk")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestIdentityFor(t *testing.T) {
	assert.True(t, IdentityFor(KindMovementType, "G").IsNatural())
	assert.False(t, IdentityFor(KindTrack, "abc").IsNatural())
	assert.True(t, IdentityFor(KindTrack, "").IsZero())
}

func TestSameEntity(t *testing.T) {
	track := NewTrack("Track", "", nil)
	copyOfTrack := &Track{UUID: track.UUID, Name: "renamed"}
	assert.True(t, SameEntity(track, copyOfTrack))
	assert.False(t, SameEntity(track, NewTrack("Track", "", nil)))
	assert.False(t, SameEntity(track, &Training{UUID: track.UUID}))
}

func TestTrack_DurationAndAverageSpeed(t *testing.T) {
	start := time.UnixMilli(1645726800000)
	stop := time.UnixMilli(1645726860000)
	track := NewRecordedTrack("Test", "", start, stop, 140.0, nil)

	assert.Equal(t, int64(1), track.Duration())
	assert.InDelta(t, 8.4, track.AverageSpeed(), 1e-9)

	assert.Zero(t, NewTrack("Empty", "", nil).AverageSpeed())
}

func TestNewMovementType_DefaultColor(t *testing.T) {
	m, err := NewMovementType("Y", "Yoga", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMovementTypeColor, m.ColorKeyString)
	assert.True(t, m.ID().IsNatural())
}
