package domain

import "time"

// CustomAsset is a user-uploaded image attached to an artist or album slot.
// For a given (ParentKind, ParentID, Slot) at most one asset is active.
type CustomAsset struct {
	ID         int64      `json:"id"`
	ParentKind EntityKind `json:"parent_kind"`
	ParentID   int64      `json:"parent_id"`
	Slot       ImageSlot  `json:"slot"`
	FilePath   string     `json:"file_path"`
	FileName   string     `json:"file_name"`
	FileSize   int64      `json:"file_size"`
	MimeType   string     `json:"mime_type"`
	IsActive   bool       `json:"is_active"`
	UploadedBy int64      `json:"uploaded_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
