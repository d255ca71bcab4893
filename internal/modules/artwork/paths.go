package artwork

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"melodex/internal/domain"
)

// PathResolver computes per-entity asset directories under a single storage
// root. Identical inputs always resolve to the same directory; the directory
// is created lazily on first use and the resolver has no other side effects.
type PathResolver struct {
	Root string

	// CoverAlongsideAudio stores album covers next to the album's audio
	// files instead of under the storage root, for albums that have a
	// source directory on disk.
	CoverAlongsideAudio bool
}

func NewPathResolver(root string, coverAlongsideAudio bool) *PathResolver {
	return &PathResolver{Root: root, CoverAlongsideAudio: coverAlongsideAudio}
}

// Resolve returns the asset directory for an entity. album may be nil for
// artists; for albums it supplies the source-directory policy input.
func (p *PathResolver) Resolve(kind domain.EntityKind, id int64, album *domain.Album) (string, error) {
	dir, err := p.dirFor(kind, id, album)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return dir, nil
}

// CustomDir returns the subdirectory holding user uploads for an entity.
func (p *PathResolver) CustomDir(kind domain.EntityKind, id int64, album *domain.Album) (string, error) {
	dir, err := p.Resolve(kind, id, album)
	if err != nil {
		return "", err
	}
	custom := filepath.Join(dir, "custom")
	if err := os.MkdirAll(custom, 0o755); err != nil {
		return "", fmt.Errorf("create custom asset dir %s: %w", custom, err)
	}
	return custom, nil
}

// KindRoot returns the directory that contains all per-entity directories of
// one kind. The reconciler scans it for orphans.
func (p *PathResolver) KindRoot(kind domain.EntityKind) string {
	return filepath.Join(p.Root, string(kind)+"s")
}

func (p *PathResolver) dirFor(kind domain.EntityKind, id int64, album *domain.Album) (string, error) {
	switch kind {
	case domain.KindArtist:
		return filepath.Join(p.KindRoot(domain.KindArtist), strconv.FormatInt(id, 10)), nil
	case domain.KindAlbum:
		if p.CoverAlongsideAudio && album != nil && album.SourceDir != "" {
			return album.SourceDir, nil
		}
		return filepath.Join(p.KindRoot(domain.KindAlbum), strconv.FormatInt(id, 10)), nil
	}
	return "", fmt.Errorf("%w: unknown entity kind %q", ErrInvalidInput, kind)
}
