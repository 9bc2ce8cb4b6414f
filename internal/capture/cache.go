package capture

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// PrizeCache fronts the prize repository with a TTL'd LRU. Prize definitions
// change rarely (admin tooling) while hot prizes are read on every attempt,
// so a short TTL keeps edits visible without hammering the database.
type PrizeCache struct {
	repo  repository.Prize
	cache *expirable.LRU[uuid.UUID, *domain.Prize]
}

// NewPrizeCache creates a PrizeCache holding up to size prizes for ttl.
func NewPrizeCache(repo repository.Prize, size int, ttl time.Duration) *PrizeCache {
	return &PrizeCache{
		repo:  repo,
		cache: expirable.NewLRU[uuid.UUID, *domain.Prize](size, nil, ttl),
	}
}

// GetPrize returns the cached prize or loads it through the repository.
// Lookup misses (ErrPrizeNotFound) are not cached; a prize created moments
// later should be capturable immediately.
func (c *PrizeCache) GetPrize(ctx context.Context, id uuid.UUID) (*domain.Prize, error) {
	if prize, ok := c.cache.Get(id); ok {
		return prize, nil
	}

	prize, err := c.repo.GetPrize(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, prize)
	return prize, nil
}

// Invalidate drops a prize from the cache.
func (c *PrizeCache) Invalidate(id uuid.UUID) {
	c.cache.Remove(id)
}
