package domain

import "time"

type EntityKind string

const (
	KindArtist EntityKind = "artist"
	KindAlbum  EntityKind = "album"
)

func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(s) {
	case KindArtist:
		return KindArtist, true
	case KindAlbum:
		return KindAlbum, true
	}
	return "", false
}

// ImageSlot is a named image role on a catalog entity. Artists carry
// profile/background/banner/logo, albums carry a single cover slot.
type ImageSlot string

const (
	SlotProfile    ImageSlot = "profile"
	SlotBackground ImageSlot = "background"
	SlotBanner     ImageSlot = "banner"
	SlotLogo       ImageSlot = "logo"
	SlotCover      ImageSlot = "cover"
)

// SlotDescriptor is the static description of one image slot. FileName is the
// fixed on-disk name for the slot's external image; an empty FileName means
// the name is derived from the image dimensions (album covers keep multiple
// resolutions side by side).
type SlotDescriptor struct {
	Kind     EntityKind
	FileName string
}

var slotDescriptors = map[ImageSlot]SlotDescriptor{
	SlotProfile:    {Kind: KindArtist, FileName: "profile.jpg"},
	SlotBackground: {Kind: KindArtist, FileName: "background.jpg"},
	SlotBanner:     {Kind: KindArtist, FileName: "banner.jpg"},
	SlotLogo:       {Kind: KindArtist, FileName: "logo.jpg"},
	SlotCover:      {Kind: KindAlbum, FileName: ""},
}

func ParseImageSlot(s string) (ImageSlot, bool) {
	slot := ImageSlot(s)
	if _, ok := slotDescriptors[slot]; !ok {
		return "", false
	}
	return slot, true
}

func (s ImageSlot) Descriptor() (SlotDescriptor, bool) {
	d, ok := slotDescriptors[s]
	return d, ok
}

func (s ImageSlot) ValidFor(kind EntityKind) bool {
	d, ok := slotDescriptors[s]
	return ok && d.Kind == kind
}

// SlotsFor returns the slots applicable to an entity kind, in display order.
func SlotsFor(kind EntityKind) []ImageSlot {
	if kind == KindAlbum {
		return []ImageSlot{SlotCover}
	}
	return []ImageSlot{SlotProfile, SlotBackground, SlotBanner, SlotLogo}
}

// SlotState is a snapshot of a single slot's image pointers on an entity.
type SlotState struct {
	ExternalPath      string
	ExternalSource    string
	ExternalUpdatedAt *time.Time
	LocalPath         string
	LocalUpdatedAt    *time.Time
}

// SlotCarrier is implemented by catalog entities that expose image slots.
// All mutations go through typed per-slot accessors so there is no
// string-keyed field access anywhere.
type SlotCarrier interface {
	EntityID() int64
	EntityName() string
	Kind() EntityKind
	SlotState(slot ImageSlot) (SlotState, bool)
	SetSlotExternal(slot ImageSlot, path, source string, at time.Time) bool
	ClearSlotExternal(slot ImageSlot) bool
	SetSlotLocal(slot ImageSlot, path string, at time.Time) bool
	ClearSlotLocal(slot ImageSlot) bool
}
