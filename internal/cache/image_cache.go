package cache

import (
	"fmt"

	"melodex/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ImageCache is the process-local cache of served image bytes, keyed per
// entity slot. Dropping an entry cannot meaningfully fail, which is why it
// is the first step of every invalidation.
type ImageCache struct {
	entries *lru.Cache[string, []byte]
}

func NewImageCache(size int) (*ImageCache, error) {
	if size <= 0 {
		size = 512
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &ImageCache{entries: entries}, nil
}

func imageKey(kind domain.EntityKind, id int64, slot domain.ImageSlot) string {
	return fmt.Sprintf("%s:%d:%s", kind, id, slot)
}

func (c *ImageCache) Get(kind domain.EntityKind, id int64, slot domain.ImageSlot) ([]byte, bool) {
	return c.entries.Get(imageKey(kind, id, slot))
}

func (c *ImageCache) Put(kind domain.EntityKind, id int64, slot domain.ImageSlot, data []byte) {
	c.entries.Add(imageKey(kind, id, slot), data)
}

// PurgeEntity drops every slot entry the entity may have.
func (c *ImageCache) PurgeEntity(kind domain.EntityKind, id int64) {
	for _, slot := range domain.SlotsFor(kind) {
		c.entries.Remove(imageKey(kind, id, slot))
	}
}

func (c *ImageCache) Len() int {
	return c.entries.Len()
}
