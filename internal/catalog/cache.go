package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SohithNarnavaram/BeautyHub/internal/metrics"
	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

func searchCacheKey(f models.SearchFilters) string {
	home := "any"
	if f.HomeVisit != nil {
		home = fmt.Sprintf("%t", *f.HomeVisit)
	}
	return fmt.Sprintf("beautyhub:search:%s:%s:%s:%s:%.1f:%.0f",
		f.City, f.Service, f.Gender, home, f.MinRating, f.MaxPrice)
}

func (c *Catalog) readSearchCache(ctx context.Context, f models.SearchFilters) ([]models.Vendor, bool) {
	if c.rdb == nil || c.cacheTTL <= 0 {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, searchCacheKey(f)).Result()
	if err != nil {
		metrics.IncSearchCache("miss")
		return nil, false
	}
	var vendors []models.Vendor
	if err := json.Unmarshal([]byte(val), &vendors); err != nil {
		metrics.IncSearchCache("miss")
		return nil, false
	}
	metrics.IncSearchCache("hit")
	return vendors, true
}

func (c *Catalog) writeSearchCache(ctx context.Context, f models.SearchFilters, vendors []models.Vendor) {
	if c.rdb == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(vendors)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, searchCacheKey(f), data, c.cacheTTL).Err()
}
