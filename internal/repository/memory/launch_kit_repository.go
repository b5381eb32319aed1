package memory

import (
	"sort"
	"time"

	"marketforge-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// StoredKit is a generated kit plus whether a document grounded it.
type StoredKit struct {
	Kit          *entity.LaunchKit
	UsedDocument bool
}

// LaunchKitRepository keeps recently generated kits so clients can fetch
// them again without paying for another pipeline run.
type LaunchKitRepository struct {
	cache *cache.Cache
}

func NewLaunchKitRepository(ttl time.Duration) *LaunchKitRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &LaunchKitRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *LaunchKitRepository) Save(kit *entity.LaunchKit, usedDocument bool) {
	r.cache.Set(kit.ID.String(), &StoredKit{Kit: kit, UsedDocument: usedDocument}, cache.DefaultExpiration)
}

func (r *LaunchKitRepository) Get(id uuid.UUID) (*StoredKit, bool) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*StoredKit), true
	}
	return nil, false
}

// Recent returns up to limit unexpired kits, newest first.
func (r *LaunchKitRepository) Recent(limit int) []*StoredKit {
	items := r.cache.Items()
	out := make([]*StoredKit, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(*StoredKit))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Kit.GeneratedAt.After(out[j].Kit.GeneratedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *LaunchKitRepository) Count() int {
	return r.cache.ItemCount()
}
