package repository

import (
	"context"
	"time"

	"melodex/internal/domain"

	"gorm.io/gorm"
)

type AlbumRepository struct {
	db *gorm.DB
}

func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

type albumModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ArtistID  int64     `gorm:"column:artist_id;index"`
	Title     string    `gorm:"column:title"`
	SourceDir *string   `gorm:"column:source_dir"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	ExternalCoverPath      *string    `gorm:"column:external_cover_path"`
	ExternalCoverSource    *string    `gorm:"column:external_cover_source"`
	ExternalCoverUpdatedAt *time.Time `gorm:"column:external_cover_updated_at"`
	LocalCoverPath         *string    `gorm:"column:local_cover_path"`
	LocalCoverUpdatedAt    *time.Time `gorm:"column:local_cover_updated_at"`
}

func (albumModel) TableName() string { return "albums" }

func toDomainAlbum(m albumModel) *domain.Album {
	return &domain.Album{
		ID:        m.ID,
		ArtistID:  m.ArtistID,
		Title:     m.Title,
		SourceDir: strOrEmpty(m.SourceDir),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,

		ExternalCoverPath:      strOrEmpty(m.ExternalCoverPath),
		ExternalCoverSource:    strOrEmpty(m.ExternalCoverSource),
		ExternalCoverUpdatedAt: m.ExternalCoverUpdatedAt,
		LocalCoverPath:         strOrEmpty(m.LocalCoverPath),
		LocalCoverUpdatedAt:    m.LocalCoverUpdatedAt,
	}
}

func toAlbumModel(a *domain.Album) albumModel {
	return albumModel{
		ID:        a.ID,
		ArtistID:  a.ArtistID,
		Title:     a.Title,
		SourceDir: strOrNil(a.SourceDir),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,

		ExternalCoverPath:      strOrNil(a.ExternalCoverPath),
		ExternalCoverSource:    strOrNil(a.ExternalCoverSource),
		ExternalCoverUpdatedAt: a.ExternalCoverUpdatedAt,
		LocalCoverPath:         strOrNil(a.LocalCoverPath),
		LocalCoverUpdatedAt:    a.LocalCoverUpdatedAt,
	}
}

func (r *AlbumRepository) GetByID(ctx context.Context, id int64) (*domain.Album, error) {
	var m albumModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainAlbum(m), nil
}

func (r *AlbumRepository) Save(ctx context.Context, a *domain.Album) error {
	m := toAlbumModel(a)
	m.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AlbumRepository) Create(ctx context.Context, a *domain.Album) error {
	m := toAlbumModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	return nil
}

func (r *AlbumRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&albumModel{}).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
