package cache

import (
	"context"
	"fmt"

	"melodex/internal/domain"
)

// Invalidator runs the ordered, best-effort cache invalidation after a
// successful artwork mutation: first the process-local image cache, then the
// distributed cache keys. A failed remote delete leaves the entry to expire
// naturally; the database stays the only source of truth, so failures are
// returned as warnings and never abort the caller.
type Invalidator struct {
	images *ImageCache
	remote CacheService
}

func NewInvalidator(images *ImageCache, remote CacheService) *Invalidator {
	return &Invalidator{images: images, remote: remote}
}

// EntityKey is the distributed cache key embedding an entity's fields.
func EntityKey(kind domain.EntityKind, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// Invalidate drops the entity's cached state everywhere. For albums,
// parentArtistID cascades the invalidation to the artist key, whose cached
// payload embeds album fields.
func (iv *Invalidator) Invalidate(
	ctx context.Context,
	kind domain.EntityKind,
	id int64,
	parentArtistID int64,
) []string {
	iv.images.PurgeEntity(kind, id)

	keys := []string{EntityKey(kind, id)}
	if kind == domain.KindAlbum && parentArtistID != 0 {
		iv.images.PurgeEntity(domain.KindArtist, parentArtistID)
		keys = append(keys, EntityKey(domain.KindArtist, parentArtistID))
	}

	var warnings []string
	for _, key := range keys {
		if err := iv.remote.Delete(ctx, key); err != nil {
			warnings = append(warnings, fmt.Sprintf("deleting distributed cache key %s: %v", key, err))
		}
	}
	return warnings
}
