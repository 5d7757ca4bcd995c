// Package catalog is the read-only vendor data source: an in-memory
// registry of vendors, their services, and their products, seeded from
// a YAML file.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/SohithNarnavaram/BeautyHub/internal/latency"
	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

// Operation names for the latency simulator.
const (
	OpSearchVendors = "search_vendors"
	OpGetVendor     = "get_vendor"
	OpListVendors   = "list_vendors"
	OpListProducts  = "list_products"
)

// ErrVendorNotFound is returned for unknown vendor ids.
var ErrVendorNotFound = errors.New("vendor not found")

// Catalog holds the marketplace's vendors.
type Catalog struct {
	mu      sync.RWMutex
	vendors []models.Vendor
	byID    map[string]*models.Vendor

	sim    *latency.Simulator
	logger zerolog.Logger

	rdb      *redis.Client
	cacheTTL time.Duration
}

// New creates a catalog over the given vendors. sim may be nil for
// immediate resolution.
func New(vendors []models.Vendor, sim *latency.Simulator, logger zerolog.Logger) *Catalog {
	c := &Catalog{
		sim:    sim,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
	c.replace(vendors)
	return c
}

// UseRedisCache configures optional Redis caching for search results.
func (c *Catalog) UseRedisCache(client *redis.Client, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rdb = client
	c.cacheTTL = ttl
}

// replace swaps the vendor set atomically. Used by initial load and by
// hot reload.
func (c *Catalog) replace(vendors []models.Vendor) {
	byID := make(map[string]*models.Vendor, len(vendors))
	for i := range vendors {
		byID[vendors[i].ID] = &vendors[i]
	}

	c.mu.Lock()
	c.vendors = vendors
	c.byID = byID
	c.mu.Unlock()
}

// GetVendor returns the vendor with the given id.
func (c *Catalog) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	if err := c.sim.Wait(ctx, OpGetVendor); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVendorNotFound, id)
	}
	copied := *v
	return &copied, nil
}

// ListVendors returns all vendors.
func (c *Catalog) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	if err := c.sim.Wait(ctx, OpListVendors); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Vendor(nil), c.vendors...), nil
}

// Search returns vendors matching the filters, in catalog order.
func (c *Catalog) Search(ctx context.Context, filters models.SearchFilters) ([]models.Vendor, error) {
	if err := c.sim.Wait(ctx, OpSearchVendors); err != nil {
		return nil, err
	}

	if cached, ok := c.readSearchCache(ctx, filters); ok {
		return cached, nil
	}

	c.mu.RLock()
	var results []models.Vendor
	for _, v := range c.vendors {
		if matches(&v, filters) {
			results = append(results, v)
		}
	}
	c.mu.RUnlock()

	c.writeSearchCache(ctx, filters, results)
	return results, nil
}

func matches(v *models.Vendor, f models.SearchFilters) bool {
	if f.City != "" && !strings.EqualFold(v.City, f.City) {
		return false
	}
	if f.Service != "" {
		found := false
		needle := strings.ToLower(f.Service)
		for _, s := range v.Services {
			if strings.Contains(strings.ToLower(s.Name), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Gender != "" && v.Gender != f.Gender && v.Gender != models.GenderUnisex {
		return false
	}
	if f.HomeVisit != nil && v.HomeVisit != *f.HomeVisit {
		return false
	}
	if f.MinRating > 0 && v.Rating < f.MinRating {
		return false
	}
	if f.MaxPrice > 0 {
		found := false
		for _, s := range v.Services {
			if s.Price <= f.MaxPrice {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// VendorProducts returns the products sold by one vendor.
func (c *Catalog) VendorProducts(ctx context.Context, vendorID string) ([]models.Product, error) {
	if err := c.sim.Wait(ctx, OpListProducts); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.byID[vendorID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVendorNotFound, vendorID)
	}
	return append([]models.Product(nil), v.Products...), nil
}

// AllProducts returns every product across vendors, grouped by vendor
// in catalog order.
func (c *Catalog) AllProducts(ctx context.Context) ([]models.Product, error) {
	if err := c.sim.Wait(ctx, OpListProducts); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var products []models.Product
	for _, v := range c.vendors {
		products = append(products, v.Products...)
	}
	return products, nil
}
