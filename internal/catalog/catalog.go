// Package catalog lists the materials whose phonon dispersions can be
// compared, and the band files each computational method produced for them.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RMahshie/phonon-explorer/internal/phonon"
)

var (
	ErrNotFound        = errors.New("material not found")
	ErrNothingSelected = errors.New("no datasets selected")
)

// Material is one monolayer or bilayer and its band files, reference method
// first.
type Material struct {
	Slug     string           `yaml:"slug" json:"slug"`
	Name     string           `yaml:"name" json:"name"`
	Group    string           `yaml:"group" json:"group"`
	Figure   string           `yaml:"figure,omitempty" json:"figure,omitempty"`
	Datasets []phonon.Dataset `yaml:"datasets" json:"datasets"`
}

// Select keeps the datasets whose label is in labels, in catalog order. An
// empty labels slice selects everything.
func (m *Material) Select(labels []string) ([]phonon.Dataset, error) {
	if len(labels) == 0 {
		if len(m.Datasets) == 0 {
			return nil, fmt.Errorf("%s: %w", m.Slug, ErrNothingSelected)
		}
		return append([]phonon.Dataset(nil), m.Datasets...), nil
	}
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	var out []phonon.Dataset
	for _, ds := range m.Datasets {
		if want[ds.Label] {
			out = append(out, ds)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", m.Slug, ErrNothingSelected)
	}
	return out, nil
}

// Catalog is an ordered, read-only set of materials.
type Catalog struct {
	materials []Material
	bySlug    map[string]int
}

type catalogFile struct {
	Materials []Material `yaml:"materials"`
}

// Load reads a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Materials)
}

// New builds a catalog, rejecting blank or duplicate slugs.
func New(materials []Material) (*Catalog, error) {
	c := &Catalog{
		materials: materials,
		bySlug:    make(map[string]int, len(materials)),
	}
	for i, m := range materials {
		if m.Slug == "" {
			return nil, fmt.Errorf("material %d (%q) has no slug", i, m.Name)
		}
		if _, dup := c.bySlug[m.Slug]; dup {
			return nil, fmt.Errorf("duplicate material slug %q", m.Slug)
		}
		c.bySlug[m.Slug] = i
	}
	return c, nil
}

// List returns the materials in catalog order.
func (c *Catalog) List() []Material {
	return append([]Material(nil), c.materials...)
}

// Get returns the material with the given slug.
func (c *Catalog) Get(slug string) (*Material, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("%s: %w", slug, ErrNotFound)
	}
	m := c.materials[i]
	return &m, nil
}

// Labels returns every method label in first-seen order.
func (c *Catalog) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range c.materials {
		for _, ds := range m.Datasets {
			if ds.Label != "" && !seen[ds.Label] {
				seen[ds.Label] = true
				out = append(out, ds.Label)
			}
		}
	}
	return out
}
