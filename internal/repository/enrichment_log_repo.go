package repository

import (
	"context"
	"time"

	"melodex/internal/domain"

	"gorm.io/gorm"
)

type EnrichmentLogRepository struct {
	db *gorm.DB
}

func NewEnrichmentLogRepository(db *gorm.DB) *EnrichmentLogRepository {
	return &EnrichmentLogRepository{db: db}
}

type enrichmentLogModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	EntityKind    string    `gorm:"column:entity_kind;index"`
	EntityID      int64     `gorm:"column:entity_id;index"`
	Provider      string    `gorm:"column:provider"`
	Status        string    `gorm:"column:status"`
	FieldsUpdated string    `gorm:"column:fields_updated"`
	ErrorMessage  *string   `gorm:"column:error_message"`
	DurationMS    int64     `gorm:"column:duration_ms"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (enrichmentLogModel) TableName() string { return "enrichment_logs" }

// Create appends one audit row. Rows are never updated or deleted here;
// retention cleanup lives elsewhere.
func (r *EnrichmentLogRepository) Create(ctx context.Context, e *domain.EnrichmentLog) error {
	m := enrichmentLogModel{
		EntityKind:    string(e.EntityKind),
		EntityID:      e.EntityID,
		Provider:      e.Provider,
		Status:        string(e.Status),
		FieldsUpdated: e.FieldsUpdated,
		ErrorMessage:  strOrNil(e.ErrorMessage),
		DurationMS:    e.DurationMS,
		CreatedAt:     e.CreatedAt,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	return nil
}

// ListByEntity returns the audit trail for one entity, newest first.
func (r *EnrichmentLogRepository) ListByEntity(
	ctx context.Context,
	kind domain.EntityKind,
	entityID int64,
	limit int,
) ([]domain.EnrichmentLog, error) {
	var models []enrichmentLogModel
	q := r.db.WithContext(ctx).
		Where("entity_kind = ? AND entity_id = ?", string(kind), entityID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	logs := make([]domain.EnrichmentLog, 0, len(models))
	for _, m := range models {
		logs = append(logs, domain.EnrichmentLog{
			ID:            m.ID,
			EntityKind:    domain.EntityKind(m.EntityKind),
			EntityID:      m.EntityID,
			Provider:      m.Provider,
			Status:        domain.EnrichmentStatus(m.Status),
			FieldsUpdated: m.FieldsUpdated,
			ErrorMessage:  strOrEmpty(m.ErrorMessage),
			DurationMS:    m.DurationMS,
			CreatedAt:     m.CreatedAt,
		})
	}
	return logs, nil
}
