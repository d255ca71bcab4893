package repository

import (
	"context"
	"time"

	"melodex/internal/domain"

	"gorm.io/gorm"
)

type ArtistRepository struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

type artistModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	ExternalProfilePath      *string    `gorm:"column:external_profile_path"`
	ExternalProfileSource    *string    `gorm:"column:external_profile_source"`
	ExternalProfileUpdatedAt *time.Time `gorm:"column:external_profile_updated_at"`
	LocalProfilePath         *string    `gorm:"column:local_profile_path"`
	LocalProfileUpdatedAt    *time.Time `gorm:"column:local_profile_updated_at"`

	ExternalBackgroundPath      *string    `gorm:"column:external_background_path"`
	ExternalBackgroundSource    *string    `gorm:"column:external_background_source"`
	ExternalBackgroundUpdatedAt *time.Time `gorm:"column:external_background_updated_at"`
	LocalBackgroundPath         *string    `gorm:"column:local_background_path"`
	LocalBackgroundUpdatedAt    *time.Time `gorm:"column:local_background_updated_at"`

	ExternalBannerPath      *string    `gorm:"column:external_banner_path"`
	ExternalBannerSource    *string    `gorm:"column:external_banner_source"`
	ExternalBannerUpdatedAt *time.Time `gorm:"column:external_banner_updated_at"`
	LocalBannerPath         *string    `gorm:"column:local_banner_path"`
	LocalBannerUpdatedAt    *time.Time `gorm:"column:local_banner_updated_at"`

	ExternalLogoPath      *string    `gorm:"column:external_logo_path"`
	ExternalLogoSource    *string    `gorm:"column:external_logo_source"`
	ExternalLogoUpdatedAt *time.Time `gorm:"column:external_logo_updated_at"`
	LocalLogoPath         *string    `gorm:"column:local_logo_path"`
	LocalLogoUpdatedAt    *time.Time `gorm:"column:local_logo_updated_at"`
}

func (artistModel) TableName() string { return "artists" }

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func toDomainArtist(m artistModel) *domain.Artist {
	return &domain.Artist{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,

		ExternalProfilePath:      strOrEmpty(m.ExternalProfilePath),
		ExternalProfileSource:    strOrEmpty(m.ExternalProfileSource),
		ExternalProfileUpdatedAt: m.ExternalProfileUpdatedAt,
		LocalProfilePath:         strOrEmpty(m.LocalProfilePath),
		LocalProfileUpdatedAt:    m.LocalProfileUpdatedAt,

		ExternalBackgroundPath:      strOrEmpty(m.ExternalBackgroundPath),
		ExternalBackgroundSource:    strOrEmpty(m.ExternalBackgroundSource),
		ExternalBackgroundUpdatedAt: m.ExternalBackgroundUpdatedAt,
		LocalBackgroundPath:         strOrEmpty(m.LocalBackgroundPath),
		LocalBackgroundUpdatedAt:    m.LocalBackgroundUpdatedAt,

		ExternalBannerPath:      strOrEmpty(m.ExternalBannerPath),
		ExternalBannerSource:    strOrEmpty(m.ExternalBannerSource),
		ExternalBannerUpdatedAt: m.ExternalBannerUpdatedAt,
		LocalBannerPath:         strOrEmpty(m.LocalBannerPath),
		LocalBannerUpdatedAt:    m.LocalBannerUpdatedAt,

		ExternalLogoPath:      strOrEmpty(m.ExternalLogoPath),
		ExternalLogoSource:    strOrEmpty(m.ExternalLogoSource),
		ExternalLogoUpdatedAt: m.ExternalLogoUpdatedAt,
		LocalLogoPath:         strOrEmpty(m.LocalLogoPath),
		LocalLogoUpdatedAt:    m.LocalLogoUpdatedAt,
	}
}

func toArtistModel(a *domain.Artist) artistModel {
	return artistModel{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,

		ExternalProfilePath:      strOrNil(a.ExternalProfilePath),
		ExternalProfileSource:    strOrNil(a.ExternalProfileSource),
		ExternalProfileUpdatedAt: a.ExternalProfileUpdatedAt,
		LocalProfilePath:         strOrNil(a.LocalProfilePath),
		LocalProfileUpdatedAt:    a.LocalProfileUpdatedAt,

		ExternalBackgroundPath:      strOrNil(a.ExternalBackgroundPath),
		ExternalBackgroundSource:    strOrNil(a.ExternalBackgroundSource),
		ExternalBackgroundUpdatedAt: a.ExternalBackgroundUpdatedAt,
		LocalBackgroundPath:         strOrNil(a.LocalBackgroundPath),
		LocalBackgroundUpdatedAt:    a.LocalBackgroundUpdatedAt,

		ExternalBannerPath:      strOrNil(a.ExternalBannerPath),
		ExternalBannerSource:    strOrNil(a.ExternalBannerSource),
		ExternalBannerUpdatedAt: a.ExternalBannerUpdatedAt,
		LocalBannerPath:         strOrNil(a.LocalBannerPath),
		LocalBannerUpdatedAt:    a.LocalBannerUpdatedAt,

		ExternalLogoPath:      strOrNil(a.ExternalLogoPath),
		ExternalLogoSource:    strOrNil(a.ExternalLogoSource),
		ExternalLogoUpdatedAt: a.ExternalLogoUpdatedAt,
		LocalLogoPath:         strOrNil(a.LocalLogoPath),
		LocalLogoUpdatedAt:    a.LocalLogoUpdatedAt,
	}
}

func (r *ArtistRepository) GetByID(ctx context.Context, id int64) (*domain.Artist, error) {
	var m artistModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainArtist(m), nil
}

// Save persists all columns of the artist row, image slot pointers included.
func (r *ArtistRepository) Save(ctx context.Context, a *domain.Artist) error {
	m := toArtistModel(a)
	m.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ArtistRepository) Create(ctx context.Context, a *domain.Artist) error {
	m := toArtistModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	return nil
}

// ListIDs returns the ids of every known artist. Used by the reconciler to
// detect orphaned asset directories.
func (r *ArtistRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&artistModel{}).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
