package reconcile

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"melodex/internal/domain"
)

type ArtistRepository interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

type AlbumRepository interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

type CustomAssetRepository interface {
	ListInactive(ctx context.Context) ([]domain.CustomAsset, error)
	Delete(ctx context.Context, id int64) error
}

// PathResolver narrows the artwork path resolver to what the reconciler
// scans.
type PathResolver interface {
	KindRoot(kind domain.EntityKind) string
}

// Report summarizes one reconciliation run. In dry-run mode FilesRemoved
// counts what an apply run would remove.
type Report struct {
	Kind            domain.EntityKind `json:"kind"`
	DryRun          bool              `json:"dry_run"`
	FilesRemoved    int               `json:"files_removed"`
	SpaceFreedBytes int64             `json:"space_freed_bytes"`
	OrphanedPaths   []string          `json:"orphaned_paths"`
	InactiveAssets  int               `json:"inactive_assets_removed"`
	Errors          []string          `json:"errors,omitempty"`
	DurationMS      int64             `json:"duration_ms"`
}

// Service compares the asset directories on disk against the entities known
// to the database and removes directories that no longer belong to anything.
type Service struct {
	artists ArtistRepository
	albums  AlbumRepository
	assets  CustomAssetRepository
	paths   PathResolver
}

func NewService(
	artists ArtistRepository,
	albums AlbumRepository,
	assets CustomAssetRepository,
	paths PathResolver,
) *Service {
	return &Service{
		artists: artists,
		albums:  albums,
		assets:  assets,
		paths:   paths,
	}
}

// Reconcile scans the storage root for the given kind. With dryRun (the
// default at every boundary) it only reports; in apply mode it removes each
// orphaned directory, collecting per-directory failures without stopping,
// and then runs a second sweep deleting custom asset rows already marked
// inactive.
func (s *Service) Reconcile(ctx context.Context, kind domain.EntityKind, dryRun bool) (*Report, error) {
	started := time.Now()
	report := &Report{Kind: kind, DryRun: dryRun, OrphanedPaths: []string{}}

	known, err := s.knownIDs(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("listing %s ids: %w", kind, err)
	}

	root := s.paths.KindRoot(kind)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing stored yet for this kind.
			report.DurationMS = time.Since(started).Milliseconds()
			return report, nil
		}
		return nil, fmt.Errorf("reading storage root %s: %w", root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil {
			// Directories that do not look like entity ids are someone
			// else's problem; leave them alone.
			continue
		}
		if _, ok := known[id]; ok {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		files, size, err := measureDir(dir)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("measuring %s: %v", dir, err))
			continue
		}

		report.OrphanedPaths = append(report.OrphanedPaths, dir)
		report.FilesRemoved += files
		report.SpaceFreedBytes += size

		if dryRun {
			continue
		}

		if err := os.RemoveAll(dir); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("removing %s: %v", dir, err))
		}
	}

	if !dryRun {
		s.sweepInactiveAssets(ctx, report)
	}

	report.DurationMS = time.Since(started).Milliseconds()
	return report, nil
}

func (s *Service) knownIDs(ctx context.Context, kind domain.EntityKind) (map[int64]struct{}, error) {
	var (
		ids []int64
		err error
	)
	switch kind {
	case domain.KindArtist:
		ids, err = s.artists.ListIDs(ctx)
	case domain.KindAlbum:
		ids, err = s.albums.ListIDs(ctx)
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	known := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known, nil
}

// sweepInactiveAssets is the second reconciliation pass: custom asset rows
// that are inactive get deleted, their files removed best-effort.
func (s *Service) sweepInactiveAssets(ctx context.Context, report *Report) {
	assets, err := s.assets.ListInactive(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("listing inactive custom assets: %v", err))
		return
	}

	for _, asset := range assets {
		if err := s.assets.Delete(ctx, asset.ID); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("deleting custom asset %d: %v", asset.ID, err))
			continue
		}
		report.InactiveAssets++

		if err := os.Remove(asset.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("reconcile: removing custom asset file %s: %v", asset.FilePath, err)
		}
	}
}

// measureDir counts the files in dir and sums their sizes.
func measureDir(dir string) (int, int64, error) {
	var (
		files int
		size  int64
	)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files++
		size += info.Size()
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return files, size, nil
}
