package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/snacktap/internal/score"
)

// CatalogFile is the YAML layout of a custom item catalog.
type CatalogFile struct {
	Default *int         `yaml:"default"`
	Items   []score.Item `yaml:"items"`
}

// LoadCatalog reads a YAML catalog. A missing file yields the built-in catalog.
// fallback is used when the file does not set a default value.
func LoadCatalog(path string, fallback int) (*score.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return score.NewCatalog(score.DefaultCatalog().Items(), fallback), nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("catalog %s has no items", path)
	}
	for _, it := range file.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("catalog %s: item with empty id", path)
		}
		if it.Value < 0 {
			return nil, fmt.Errorf("catalog %s: item %q has negative value", path, it.ID)
		}
	}
	def := fallback
	if file.Default != nil {
		def = *file.Default
	}
	return score.NewCatalog(file.Items, def), nil
}
