package domain

import "time"

type Album struct {
	ID       int64  `json:"id"`
	ArtistID int64  `json:"artist_id"`
	Title    string `json:"title"`
	// SourceDir is the directory holding the album's audio files. Set by the
	// library scanner, empty when the album has no files on disk.
	SourceDir string    `json:"source_dir,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ExternalCoverPath      string     `json:"external_cover_path,omitempty"`
	ExternalCoverSource    string     `json:"external_cover_source,omitempty"`
	ExternalCoverUpdatedAt *time.Time `json:"external_cover_updated_at,omitempty"`
	LocalCoverPath         string     `json:"local_cover_path,omitempty"`
	LocalCoverUpdatedAt    *time.Time `json:"local_cover_updated_at,omitempty"`
}

func (a *Album) EntityID() int64    { return a.ID }
func (a *Album) EntityName() string { return a.Title }
func (a *Album) Kind() EntityKind   { return KindAlbum }

func (a *Album) SlotState(slot ImageSlot) (SlotState, bool) {
	if slot != SlotCover {
		return SlotState{}, false
	}
	return SlotState{
		ExternalPath:      a.ExternalCoverPath,
		ExternalSource:    a.ExternalCoverSource,
		ExternalUpdatedAt: a.ExternalCoverUpdatedAt,
		LocalPath:         a.LocalCoverPath,
		LocalUpdatedAt:    a.LocalCoverUpdatedAt,
	}, true
}

func (a *Album) SetSlotExternal(slot ImageSlot, path, source string, at time.Time) bool {
	if slot != SlotCover {
		return false
	}
	a.ExternalCoverPath = path
	a.ExternalCoverSource = source
	a.ExternalCoverUpdatedAt = &at
	return true
}

func (a *Album) ClearSlotExternal(slot ImageSlot) bool {
	if slot != SlotCover {
		return false
	}
	a.ExternalCoverPath = ""
	a.ExternalCoverSource = ""
	a.ExternalCoverUpdatedAt = nil
	return true
}

func (a *Album) SetSlotLocal(slot ImageSlot, path string, at time.Time) bool {
	if slot != SlotCover {
		return false
	}
	a.LocalCoverPath = path
	a.LocalCoverUpdatedAt = &at
	return true
}

func (a *Album) ClearSlotLocal(slot ImageSlot) bool {
	if slot != SlotCover {
		return false
	}
	a.LocalCoverPath = ""
	a.LocalCoverUpdatedAt = nil
	return true
}
