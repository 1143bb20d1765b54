package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xavierca1/lead-insights/internal/entity"
)

//go:embed seed.yaml
var seedYAML []byte

// Catalog is the fixed lead and data-source content the dashboard serves.
type Catalog struct {
	Leads       []entity.Lead       `yaml:"leads"`
	DataSources []entity.DataSource `yaml:"dataSources"`
}

// Default returns the embedded sample catalog.
func Default() (Catalog, error) {
	return Load(bytes.NewReader(seedYAML))
}

func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML catalog and validates every record.
func Load(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Leads))
	for i, l := range c.Leads {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("lead %d: %w", i, err)
		}
		if seen[l.ID] {
			return fmt.Errorf("lead %d: duplicate id %q", i, l.ID)
		}
		seen[l.ID] = true
	}

	seen = make(map[string]bool, len(c.DataSources))
	for i, d := range c.DataSources {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("data source %d: %w", i, err)
		}
		if seen[d.ID] {
			return fmt.Errorf("data source %d: duplicate id %q", i, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
