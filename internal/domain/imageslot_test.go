package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageSlot(t *testing.T) {
	slot, ok := ParseImageSlot("banner")
	assert.True(t, ok)
	assert.Equal(t, SlotBanner, slot)

	_, ok = ParseImageSlot("thumbnail")
	assert.False(t, ok)

	_, ok = ParseImageSlot("")
	assert.False(t, ok)
}

func TestParseEntityKind(t *testing.T) {
	kind, ok := ParseEntityKind("artist")
	assert.True(t, ok)
	assert.Equal(t, KindArtist, kind)

	kind, ok = ParseEntityKind("album")
	assert.True(t, ok)
	assert.Equal(t, KindAlbum, kind)

	_, ok = ParseEntityKind("label")
	assert.False(t, ok)

	_, ok = ParseEntityKind("")
	assert.False(t, ok)
}

func TestImageSlot_ValidFor(t *testing.T) {
	assert.True(t, SlotProfile.ValidFor(KindArtist))
	assert.True(t, SlotCover.ValidFor(KindAlbum))

	assert.False(t, SlotCover.ValidFor(KindArtist))
	assert.False(t, SlotProfile.ValidFor(KindAlbum))
	assert.False(t, ImageSlot("thumbnail").ValidFor(KindArtist))
}

func TestImageSlot_Descriptor(t *testing.T) {
	d, ok := SlotProfile.Descriptor()
	require.True(t, ok)
	assert.Equal(t, "profile.jpg", d.FileName)

	// Covers have no fixed name, it is derived from dimensions.
	d, ok = SlotCover.Descriptor()
	require.True(t, ok)
	assert.Empty(t, d.FileName)
}

func TestSlotsFor(t *testing.T) {
	assert.Equal(t, []ImageSlot{SlotProfile, SlotBackground, SlotBanner, SlotLogo}, SlotsFor(KindArtist))
	assert.Equal(t, []ImageSlot{SlotCover}, SlotsFor(KindAlbum))
}

func TestArtist_SlotAccessors(t *testing.T) {
	a := &Artist{ID: 7, Name: "Squarepusher"}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, slot := range SlotsFor(KindArtist) {
		require.True(t, a.SetSlotExternal(slot, "/ext/"+string(slot), "fanarttv", at))
		require.True(t, a.SetSlotLocal(slot, "/local/"+string(slot), at))

		state, ok := a.SlotState(slot)
		require.True(t, ok)
		assert.Equal(t, "/ext/"+string(slot), state.ExternalPath)
		assert.Equal(t, "fanarttv", state.ExternalSource)
		assert.Equal(t, "/local/"+string(slot), state.LocalPath)
		require.NotNil(t, state.ExternalUpdatedAt)
		assert.Equal(t, at, *state.ExternalUpdatedAt)
	}

	// Each slot is independent: clearing one leaves the others alone.
	require.True(t, a.ClearSlotExternal(SlotBanner))
	require.True(t, a.ClearSlotLocal(SlotBanner))

	state, _ := a.SlotState(SlotBanner)
	assert.Empty(t, state.ExternalPath)
	assert.Empty(t, state.LocalPath)
	assert.Nil(t, state.ExternalUpdatedAt)

	state, _ = a.SlotState(SlotProfile)
	assert.Equal(t, "/ext/profile", state.ExternalPath)
}

func TestArtist_RejectsCoverSlot(t *testing.T) {
	a := &Artist{ID: 7}

	assert.False(t, a.SetSlotExternal(SlotCover, "/x", "src", time.Now()))
	assert.False(t, a.SetSlotLocal(SlotCover, "/x", time.Now()))
	assert.False(t, a.ClearSlotExternal(SlotCover))
	assert.False(t, a.ClearSlotLocal(SlotCover))

	_, ok := a.SlotState(SlotCover)
	assert.False(t, ok)
}

func TestAlbum_SlotAccessors(t *testing.T) {
	al := &Album{ID: 31, Title: "Feed Me Weird Things"}
	at := time.Now()

	require.True(t, al.SetSlotExternal(SlotCover, "/assets/albums/31/cover-600x600.jpg", "coverartarchive", at))

	state, ok := al.SlotState(SlotCover)
	require.True(t, ok)
	assert.Equal(t, "/assets/albums/31/cover-600x600.jpg", state.ExternalPath)
	assert.Equal(t, "coverartarchive", state.ExternalSource)

	assert.False(t, al.SetSlotExternal(SlotProfile, "/x", "src", at))
	_, ok = al.SlotState(SlotProfile)
	assert.False(t, ok)
}
