package domain

import "time"

type EnrichmentStatus string

const (
	EnrichmentSuccess EnrichmentStatus = "success"
	EnrichmentPartial EnrichmentStatus = "partial"
	EnrichmentError   EnrichmentStatus = "error"
)

// EnrichmentLog is an append-only audit record written after every external
// image apply attempt. Rows are never updated.
type EnrichmentLog struct {
	ID            int64            `json:"id"`
	EntityKind    EntityKind       `json:"entity_kind"`
	EntityID      int64            `json:"entity_id"`
	Provider      string           `json:"provider"`
	Status        EnrichmentStatus `json:"status"`
	FieldsUpdated string           `json:"fields_updated"`
	ErrorMessage  string           `json:"error_message,omitempty"`
	DurationMS    int64            `json:"duration_ms"`
	CreatedAt     time.Time        `json:"created_at"`
}
