package artwork

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"melodex/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const maxUploadSize = 10 << 20 // 10 MiB

var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadCustom validates and stores a user-provided image for an entity slot.
// The asset starts inactive; ApplyCustom selects it for display. Validation
// failures abort before anything touches disk.
func (s *Service) UploadCustom(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
	slot domain.ImageSlot,
	fileName string,
	fileSize int64,
	mimeType string,
	r io.Reader,
	uploadedBy int64,
) (*domain.CustomAsset, error) {
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported mime type %q", ErrInvalidInput, mimeType)
	}
	if fileSize <= 0 || fileSize > maxUploadSize {
		return nil, fmt.Errorf("%w: file size %d exceeds the %d byte limit", ErrInvalidInput, fileSize, maxUploadSize)
	}
	if !slot.ValidFor(kind) {
		return nil, fmt.Errorf("%w: slot %q is not valid for %s", ErrInvalidInput, slot, kind)
	}

	_, album, err := s.loadEntity(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	dir, err := s.paths.CustomDir(kind, id, album)
	if err != nil {
		return nil, err
	}

	storedName := uuid.NewString() + ext
	finalPath, err := s.fetcher.SaveUpload(dir, storedName, io.LimitReader(r, maxUploadSize))
	if err != nil {
		return nil, err
	}

	asset := &domain.CustomAsset{
		ParentKind: kind,
		ParentID:   id,
		Slot:       slot,
		FilePath:   finalPath,
		FileName:   fileName,
		FileSize:   fileSize,
		MimeType:   mimeType,
		IsActive:   false,
		UploadedBy: uploadedBy,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		// The row is the source of truth; without it, the stored file is
		// plain garbage for the reconciler to pick up later.
		if rmErr := removeFile(finalPath); rmErr != nil {
			log.Printf("artwork: removing upload after failed insert: %v", rmErr)
		}
		return nil, err
	}

	return asset, nil
}

// ApplyCustom makes the given asset the active one for its parent slot,
// deactivating every sibling in the same transaction, and mirrors it into
// the entity's local slot pointer so display logic has a single read path.
func (s *Service) ApplyCustom(ctx context.Context, assetID int64) (*ApplyResult, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	entity, album, err := s.loadEntity(ctx, asset.ParentKind, asset.ParentID)
	if err != nil {
		return nil, err
	}

	if err := s.assets.ActivateExclusive(ctx, asset); err != nil {
		return nil, mapConflict(err)
	}

	entity.SetSlotLocal(asset.Slot, asset.FilePath, time.Now())
	if err := s.saveEntity(ctx, asset.ParentKind, entity); err != nil {
		return nil, err
	}

	warnings := s.invalidate(ctx, asset.ParentKind, asset.ParentID, album)
	s.notif.NotifyImageChanged(asset.ParentKind, asset.ParentID, entity.EntityName(), asset.Slot)

	return &ApplyResult{Path: asset.FilePath, Warnings: warnings}, nil
}

// DeleteCustom removes the asset row and best-effort removes its file. When
// the deleted asset was active, the mirrored slot pointer is cleared too.
func (s *Service) DeleteCustom(ctx context.Context, assetID int64) (*ApplyResult, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if err := s.assets.Delete(ctx, assetID); err != nil {
		return nil, err
	}

	var warnings []string
	if err := removeFile(asset.FilePath); err != nil {
		w := fmt.Sprintf("removing custom asset file %s: %v", asset.FilePath, err)
		log.Printf("artwork: %s", w)
		warnings = append(warnings, w)
	}

	entity, album, err := s.loadEntity(ctx, asset.ParentKind, asset.ParentID)
	if err != nil {
		// The asset row is already gone, which is what defines deletion.
		return &ApplyResult{Warnings: warnings}, nil
	}

	if asset.IsActive {
		state, _ := entity.SlotState(asset.Slot)
		if state.LocalPath == asset.FilePath {
			entity.ClearSlotLocal(asset.Slot)
			if err := s.saveEntity(ctx, asset.ParentKind, entity); err != nil {
				return nil, err
			}
		}
	}

	warnings = append(warnings, s.invalidate(ctx, asset.ParentKind, asset.ParentID, album)...)
	s.notif.NotifyImageChanged(asset.ParentKind, asset.ParentID, entity.EntityName(), asset.Slot)

	return &ApplyResult{Warnings: warnings}, nil
}

// ListCustom returns the entity's uploaded assets for a slot, newest first.
func (s *Service) ListCustom(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
	slot domain.ImageSlot,
) ([]domain.CustomAsset, error) {
	if !slot.ValidFor(kind) {
		return nil, fmt.Errorf("%w: slot %q is not valid for %s", ErrInvalidInput, slot, kind)
	}
	return s.assets.ListByParent(ctx, kind, id, slot)
}

// DisplayImagePath resolves which file currently represents the slot:
// active custom asset first, then the external image, then the local one.
func (s *Service) DisplayImagePath(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
	slot domain.ImageSlot,
) (string, error) {
	entity, _, err := s.loadEntity(ctx, kind, id)
	if err != nil {
		return "", err
	}

	state, ok := entity.SlotState(slot)
	if !ok {
		return "", fmt.Errorf("%w: slot %q is not valid for %s", ErrInvalidInput, slot, kind)
	}

	active, err := s.assets.GetActive(ctx, kind, id, slot)
	if err != nil {
		return "", err
	}
	if active != nil {
		return active.FilePath, nil
	}
	if state.ExternalPath != "" {
		return state.ExternalPath, nil
	}
	if state.LocalPath != "" {
		return state.LocalPath, nil
	}
	return "", ErrNotFound
}

// mapConflict translates a postgres unique violation on the single-active
// index into the module's conflict error.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}
