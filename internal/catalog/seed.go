package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

type seedFile struct {
	Vendors []models.Vendor `yaml:"vendors"`
}

// LoadVendors parses a vendor seed file.
func LoadVendors(path string) ([]models.Vendor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vendor seed: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse vendor seed: %w", err)
	}
	if len(seed.Vendors) == 0 {
		return nil, fmt.Errorf("vendor seed %s contains no vendors", path)
	}
	return seed.Vendors, nil
}

// Watch reloads the vendor seed when the file's mtime advances and swaps
// the catalog's vendor set. It performs an initial load before entering
// the watch loop.
func (c *Catalog) Watch(ctx context.Context, path string, interval time.Duration) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	vendors, err := LoadVendors(path)
	if err != nil {
		return err
	}
	c.replace(vendors)

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil {
					continue // transient errors
				}
				if !info.ModTime().After(lastMod) {
					continue
				}
				vendors, err := LoadVendors(path)
				if err != nil {
					c.logger.Warn().Err(err).Str("path", path).Msg("vendor seed reload failed, keeping previous set")
					continue
				}
				lastMod = info.ModTime()
				c.replace(vendors)
				c.logger.Info().Int("vendors", len(vendors)).Msg("vendor seed reloaded")
			}
		}
	}()

	return nil
}
