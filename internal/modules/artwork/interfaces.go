package artwork

import (
	"context"
	"io"

	"melodex/internal/domain"
)

type ArtistRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Artist, error)
	Save(ctx context.Context, a *domain.Artist) error
}

type AlbumRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Album, error)
	Save(ctx context.Context, a *domain.Album) error
}

type CustomAssetRepository interface {
	Create(ctx context.Context, a *domain.CustomAsset) error
	GetByID(ctx context.Context, id int64) (*domain.CustomAsset, error)
	ListByParent(ctx context.Context, kind domain.EntityKind, parentID int64, slot domain.ImageSlot) ([]domain.CustomAsset, error)
	ActivateExclusive(ctx context.Context, a *domain.CustomAsset) error
	GetActive(ctx context.Context, kind domain.EntityKind, parentID int64, slot domain.ImageSlot) (*domain.CustomAsset, error)
	Delete(ctx context.Context, id int64) error
}

type EnrichmentLogRepository interface {
	Create(ctx context.Context, e *domain.EnrichmentLog) error
}

// Downloader is the acquisition capability the service depends on.
// Implemented by Fetcher.
type Downloader interface {
	Download(ctx context.Context, sourceURL, destDir, finalName string) (string, error)
	SaveUpload(destDir, finalName string, r io.Reader) (string, error)
}

// Invalidator drops cache entries after a successful mutation. It is
// best-effort: failures come back as warnings, never as errors.
// parentArtistID is non-zero for albums so the artist key cascades.
type Invalidator interface {
	Invalidate(ctx context.Context, kind domain.EntityKind, id int64, parentArtistID int64) []string
}

// Notifier fans an advisory asset-change event out to realtime clients.
type Notifier interface {
	NotifyImageChanged(kind domain.EntityKind, id int64, name string, slot domain.ImageSlot)
}
