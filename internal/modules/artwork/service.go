package artwork

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"melodex/internal/domain"

	"gorm.io/gorm"
)

// Service is the per-slot image state store. It applies external (provider)
// images and deletes slot images, keeping the database row, the filesystem
// and the caches consistent. The database write happens last and only after
// the file write fully succeeded; cache invalidation and realtime
// notification follow and are best-effort.
//
// The service does not serialize concurrent mutations of the same
// entity+slot; callers are expected to do that. Two concurrent applies race
// and the last database write wins.
type Service struct {
	artists ArtistRepository
	albums  AlbumRepository
	assets  CustomAssetRepository
	logs    EnrichmentLogRepository
	fetcher Downloader
	paths   *PathResolver
	cache   Invalidator
	notif   Notifier
}

func NewService(
	artists ArtistRepository,
	albums AlbumRepository,
	assets CustomAssetRepository,
	logs EnrichmentLogRepository,
	fetcher Downloader,
	paths *PathResolver,
	cache Invalidator,
	notif Notifier,
) *Service {
	return &Service{
		artists: artists,
		albums:  albums,
		assets:  assets,
		logs:    logs,
		fetcher: fetcher,
		paths:   paths,
		cache:   cache,
		notif:   notif,
	}
}

// ApplyResult reports the outcome of a mutation. Warnings collect soft
// failures (stale file cleanup, cache deletes) that did not abort the
// operation.
type ApplyResult struct {
	Path     string   `json:"path"`
	Warnings []string `json:"warnings,omitempty"`
}

// ApplyExternal downloads an image from a provider URL into the entity's
// asset directory and records it as the slot's external image.
//
// The old external file, if any, is deleted best-effort before the download.
// When replaceLocal is true (the default at the HTTP boundary) the slot's
// local pointer is cleared: external enrichment supersedes a locally sourced
// image unless the caller opts out.
func (s *Service) ApplyExternal(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
	slot domain.ImageSlot,
	sourceURL, provider string,
	replaceLocal bool,
) (*ApplyResult, error) {
	started := time.Now()

	res, err := s.applyExternal(ctx, kind, id, slot, sourceURL, provider, replaceLocal)
	s.writeEnrichmentLog(ctx, kind, id, slot, provider, replaceLocal, started, res, err)
	return res, err
}

func (s *Service) applyExternal(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
	slot domain.ImageSlot,
	sourceURL, provider string,
	replaceLocal bool,
) (*ApplyResult, error) {
	if sourceURL == "" || provider == "" {
		return nil, fmt.Errorf("%w: source url and provider are required", ErrInvalidInput)
	}

	entity, album, err := s.loadEntity(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	desc, ok := slot.Descriptor()
	if !ok || desc.Kind != kind {
		return nil, fmt.Errorf("%w: slot %q is not valid for %s", ErrInvalidInput, slot, kind)
	}

	state, _ := entity.SlotState(slot)

	var warnings []string

	// Stale file cleanup before the new download. Best-effort: a missing
	// file is a no-op, anything else is logged and collected.
	if state.ExternalPath != "" {
		if err := removeFile(state.ExternalPath); err != nil {
			w := fmt.Sprintf("removing old external file %s: %v", state.ExternalPath, err)
			log.Printf("artwork: %s", w)
			warnings = append(warnings, w)
		}
	}

	dir, err := s.paths.Resolve(kind, id, album)
	if err != nil {
		return nil, err
	}

	finalPath, err := s.fetcher.Download(ctx, sourceURL, dir, desc.FileName)
	if err != nil {
		return nil, err
	}

	// The row is mutated only now that the file is fully on disk. A failed
	// download never leaves a dangling pointer.
	entity.SetSlotExternal(slot, finalPath, provider, time.Now())
	if replaceLocal {
		entity.ClearSlotLocal(slot)
	}

	if err := s.saveEntity(ctx, kind, entity); err != nil {
		return nil, err
	}

	warnings = append(warnings, s.invalidate(ctx, kind, id, album)...)
	s.notif.NotifyImageChanged(kind, id, entity.EntityName(), slot)

	return &ApplyResult{Path: finalPath, Warnings: warnings}, nil
}

// DeleteImage clears a slot's external and local pointers and best-effort
// removes the files behind them. The database row defines existence; file
// removal failures become warnings.
func (s *Service) DeleteImage(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
	slot domain.ImageSlot,
) (*ApplyResult, error) {
	entity, album, err := s.loadEntity(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if !slot.ValidFor(kind) {
		return nil, fmt.Errorf("%w: slot %q is not valid for %s", ErrInvalidInput, slot, kind)
	}

	state, _ := entity.SlotState(slot)

	var warnings []string
	for _, path := range []string{state.ExternalPath, state.LocalPath} {
		if path == "" {
			continue
		}
		if err := removeFile(path); err != nil {
			w := fmt.Sprintf("removing %s: %v", path, err)
			log.Printf("artwork: %s", w)
			warnings = append(warnings, w)
		}
	}

	entity.ClearSlotExternal(slot)
	entity.ClearSlotLocal(slot)

	if err := s.saveEntity(ctx, kind, entity); err != nil {
		return nil, err
	}

	warnings = append(warnings, s.invalidate(ctx, kind, id, album)...)
	s.notif.NotifyImageChanged(kind, id, entity.EntityName(), slot)

	return &ApplyResult{Warnings: warnings}, nil
}

func (s *Service) loadEntity(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
) (domain.SlotCarrier, *domain.Album, error) {
	switch kind {
	case domain.KindArtist:
		artist, err := s.artists.GetByID(ctx, id)
		if err != nil {
			return nil, nil, mapNotFound(err)
		}
		return artist, nil, nil
	case domain.KindAlbum:
		album, err := s.albums.GetByID(ctx, id)
		if err != nil {
			return nil, nil, mapNotFound(err)
		}
		return album, album, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, kind)
}

func (s *Service) saveEntity(ctx context.Context, kind domain.EntityKind, entity domain.SlotCarrier) error {
	switch e := entity.(type) {
	case *domain.Artist:
		return s.artists.Save(ctx, e)
	case *domain.Album:
		return s.albums.Save(ctx, e)
	}
	return fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, kind)
}

// invalidate runs the ordered cache invalidation and logs each warning.
func (s *Service) invalidate(ctx context.Context, kind domain.EntityKind, id int64, album *domain.Album) []string {
	var parentArtistID int64
	if album != nil {
		parentArtistID = album.ArtistID
	}

	warnings := s.cache.Invalidate(ctx, kind, id, parentArtistID)
	for _, w := range warnings {
		log.Printf("artwork: cache invalidation: %s", w)
	}
	return warnings
}

func (s *Service) writeEnrichmentLog(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
	slot domain.ImageSlot,
	provider string,
	replaceLocal bool,
	started time.Time,
	res *ApplyResult,
	applyErr error,
) {
	entry := &domain.EnrichmentLog{
		EntityKind: kind,
		EntityID:   id,
		Provider:   provider,
		DurationMS: time.Since(started).Milliseconds(),
	}

	switch {
	case applyErr != nil:
		entry.Status = domain.EnrichmentError
		entry.ErrorMessage = applyErr.Error()
	case res != nil && len(res.Warnings) > 0:
		entry.Status = domain.EnrichmentPartial
		entry.FieldsUpdated = updatedFields(slot, replaceLocal)
		entry.ErrorMessage = strings.Join(res.Warnings, "; ")
	default:
		entry.Status = domain.EnrichmentSuccess
		entry.FieldsUpdated = updatedFields(slot, replaceLocal)
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		log.Printf("artwork: writing enrichment log for %s %d: %v", kind, id, err)
	}
}

func updatedFields(slot domain.ImageSlot, replaceLocal bool) string {
	fields := []string{string(slot) + ".external"}
	if replaceLocal {
		fields = append(fields, string(slot)+".local")
	}
	return strings.Join(fields, ",")
}

// removeFile deletes path; a file that is already gone is a no-op.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
