package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"hotelapi/internal/model"
	"hotelapi/internal/repository"
)

// EmployeeCache decorates an EmployeeRepository with an expiring LRU.
// Only successful lookups are cached, so a newly hired employee is visible immediately.
type EmployeeCache struct {
	inner repository.EmployeeRepository
	lru   *expirable.LRU[int, model.Employee]
}

// NewEmployeeCache wraps inner. A size <= 0 returns inner unchanged.
func NewEmployeeCache(inner repository.EmployeeRepository, size int, ttl time.Duration) repository.EmployeeRepository {
	if size <= 0 {
		return inner
	}
	return &EmployeeCache{
		inner: inner,
		lru:   expirable.NewLRU[int, model.Employee](size, nil, ttl),
	}
}

var _ repository.EmployeeRepository = (*EmployeeCache)(nil)

// FindByID serves from cache when possible and falls back to the wrapped repository.
func (c *EmployeeCache) FindByID(ctx context.Context, id int) (*model.Employee, error) {
	if e, ok := c.lru.Get(id); ok {
		return &e, nil
	}
	e, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.lru.Add(id, *e)
	return e, nil
}

// Purge drops every cached employee.
func (c *EmployeeCache) Purge() {
	c.lru.Purge()
}
