package repository

import (
	"context"
	"time"

	"melodex/internal/domain"

	"gorm.io/gorm"
)

type CustomAssetRepository struct {
	db *gorm.DB
}

func NewCustomAssetRepository(db *gorm.DB) *CustomAssetRepository {
	return &CustomAssetRepository{db: db}
}

type customAssetModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	ParentKind string    `gorm:"column:parent_kind;index:idx_custom_assets_parent"`
	ParentID   int64     `gorm:"column:parent_id;index:idx_custom_assets_parent"`
	Slot       string    `gorm:"column:slot;index:idx_custom_assets_parent"`
	FilePath   string    `gorm:"column:file_path"`
	FileName   string    `gorm:"column:file_name"`
	FileSize   int64     `gorm:"column:file_size"`
	MimeType   string    `gorm:"column:mime_type"`
	IsActive   bool      `gorm:"column:is_active"`
	UploadedBy int64     `gorm:"column:uploaded_by"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (customAssetModel) TableName() string { return "custom_assets" }

func toDomainCustomAsset(m customAssetModel) *domain.CustomAsset {
	return &domain.CustomAsset{
		ID:         m.ID,
		ParentKind: domain.EntityKind(m.ParentKind),
		ParentID:   m.ParentID,
		Slot:       domain.ImageSlot(m.Slot),
		FilePath:   m.FilePath,
		FileName:   m.FileName,
		FileSize:   m.FileSize,
		MimeType:   m.MimeType,
		IsActive:   m.IsActive,
		UploadedBy: m.UploadedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toCustomAssetModel(a *domain.CustomAsset) customAssetModel {
	return customAssetModel{
		ID:         a.ID,
		ParentKind: string(a.ParentKind),
		ParentID:   a.ParentID,
		Slot:       string(a.Slot),
		FilePath:   a.FilePath,
		FileName:   a.FileName,
		FileSize:   a.FileSize,
		MimeType:   a.MimeType,
		IsActive:   a.IsActive,
		UploadedBy: a.UploadedBy,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (r *CustomAssetRepository) Create(ctx context.Context, a *domain.CustomAsset) error {
	m := toCustomAssetModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CustomAssetRepository) GetByID(ctx context.Context, id int64) (*domain.CustomAsset, error) {
	var m customAssetModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainCustomAsset(m), nil
}

// ListByParent returns all assets for a parent entity slot, newest first.
func (r *CustomAssetRepository) ListByParent(
	ctx context.Context,
	kind domain.EntityKind,
	parentID int64,
	slot domain.ImageSlot,
) ([]domain.CustomAsset, error) {
	var models []customAssetModel
	err := r.db.WithContext(ctx).
		Where("parent_kind = ? AND parent_id = ? AND slot = ?", string(kind), parentID, string(slot)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	assets := make([]domain.CustomAsset, 0, len(models))
	for _, m := range models {
		assets = append(assets, *toDomainCustomAsset(m))
	}
	return assets, nil
}

// ActivateExclusive flips the target asset to active and every sibling of the
// same (parent_kind, parent_id, slot) to inactive inside one transaction, so
// readers never observe two active rows.
func (r *CustomAssetRepository) ActivateExclusive(ctx context.Context, a *domain.CustomAsset) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&customAssetModel{}).
			Where("parent_kind = ? AND parent_id = ? AND slot = ? AND is_active = ?",
				string(a.ParentKind), a.ParentID, string(a.Slot), true).
			Updates(map[string]interface{}{"is_active": false, "updated_at": now}).Error
		if err != nil {
			return err
		}

		return tx.Model(&customAssetModel{}).
			Where("id = ?", a.ID).
			Updates(map[string]interface{}{"is_active": true, "updated_at": now}).Error
	})
}

// GetActive returns the active asset for a parent slot, or nil when none is.
func (r *CustomAssetRepository) GetActive(
	ctx context.Context,
	kind domain.EntityKind,
	parentID int64,
	slot domain.ImageSlot,
) (*domain.CustomAsset, error) {
	var m customAssetModel
	err := r.db.WithContext(ctx).
		Where("parent_kind = ? AND parent_id = ? AND slot = ? AND is_active = ?",
			string(kind), parentID, string(slot), true).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toDomainCustomAsset(m), nil
}

func (r *CustomAssetRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&customAssetModel{}, id).Error
}

// ListInactive returns every asset with is_active=false. The reconciler uses
// it as the second cleanup sweep.
func (r *CustomAssetRepository) ListInactive(ctx context.Context) ([]domain.CustomAsset, error) {
	var models []customAssetModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", false).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	assets := make([]domain.CustomAsset, 0, len(models))
	for _, m := range models {
		assets = append(assets, *toDomainCustomAsset(m))
	}
	return assets, nil
}
