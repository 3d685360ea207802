package models

import (
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
	"gopkg.in/yaml.v3"
)

// TestType identifies one scoring domain (e.g. dominant-intelligence).
// Algorithm selects the scoring strategy registered under that slug.
type TestType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Algorithm   string `json:"algorithm"`
	// MaxScore is the raw ceiling the normalizer divides against.
	MaxScore   float64        `json:"maxScore"`
	Categories pq.StringArray `gorm:"type:text[]" json:"categories"`
	IsActive   bool           `json:"isActive"`
	CreatedAt  time.Time      `json:"-"`
	UpdatedAt  time.Time      `json:"-"`
}

// Option is one selectable answer. For forced-choice tests (DISC, VARK) the
// option carries the category its selection contributes to; for scale tests
// it carries the numeric score.
type Option struct {
	Value    string  `json:"value" yaml:"value"`
	Label    string  `json:"label" yaml:"label"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	Score    float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

type Question struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	TestTypeID uint      `gorm:"index" json:"-"`
	TestType   TestType  `json:"-"`
	// Code is the stable client-facing question identifier.
	Code       string    `gorm:"uniqueIndex" json:"id"`
	Text       string    `json:"text"`
	Category   string    `json:"category"`
	Weight     float64   `json:"weight"`
	OrderIndex int       `json:"orderIndex"`
	Options    []Option  `gorm:"type:jsonb;serializer:json" json:"options"`
	IsActive   bool      `json:"-"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// OptionByValue returns the option matching the submitted value, or nil.
func (q *Question) OptionByValue(value string) *Option {
	for i := range q.Options {
		if q.Options[i].Value == value {
			return &q.Options[i]
		}
	}
	return nil
}

// Configuration is a named, ordered bundle of test types completed in one
// session. Configurations referenced by sessions are only ever deactivated,
// never edited in place.
type Configuration struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	Slug        string              `gorm:"uniqueIndex" json:"slug"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	IsActive    bool                `json:"isActive"`
	Tests       []ConfigurationTest `gorm:"foreignKey:ConfigurationID" json:"tests"`
	CreatedAt   time.Time           `json:"-"`
	UpdatedAt   time.Time           `json:"-"`
}

type ConfigurationTest struct {
	ID              uint     `gorm:"primaryKey" json:"-"`
	ConfigurationID uint     `gorm:"index" json:"-"`
	TestTypeID      uint     `json:"-"`
	TestType        TestType `json:"testType"`
	SequenceOrder   int      `json:"sequenceOrder"`
	IsRequired      bool     `json:"isRequired"`
}

// Catalog file structures, loaded from config/catalog.yaml at startup and
// seeded into the database.

type CatalogFile struct {
	TestTypes      []CatalogTestType      `yaml:"test_types"`
	Configurations []CatalogConfiguration `yaml:"configurations"`
}

type CatalogTestType struct {
	Slug        string            `yaml:"slug"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Algorithm   string            `yaml:"algorithm"`
	MaxScore    float64           `yaml:"max_score"`
	Categories  []string          `yaml:"categories"`
	Questions   []CatalogQuestion `yaml:"questions"`
}

type CatalogQuestion struct {
	ID       string   `yaml:"id"`
	Text     string   `yaml:"text"`
	Category string   `yaml:"category"`
	Weight   float64  `yaml:"weight"`
	Order    int      `yaml:"order"`
	Options  []Option `yaml:"options"`
}

type CatalogConfiguration struct {
	Slug        string                      `yaml:"slug"`
	Name        string                      `yaml:"name"`
	Description string                      `yaml:"description"`
	Tests       []CatalogConfigurationEntry `yaml:"tests"`
}

type CatalogConfigurationEntry struct {
	TestType string `yaml:"test_type"`
	Order    int    `yaml:"order"`
	Required bool   `yaml:"required"`
}

// LoadCatalog reads and parses the catalog YAML file.
func LoadCatalog(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog CatalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *CatalogFile) validate() error {
	types := make(map[string]bool, len(c.TestTypes))
	for _, tt := range c.TestTypes {
		if tt.Slug == "" {
			return fmt.Errorf("catalog: test type with empty slug")
		}
		if types[tt.Slug] {
			return fmt.Errorf("catalog: duplicate test type slug %q", tt.Slug)
		}
		types[tt.Slug] = true
	}
	for _, cfg := range c.Configurations {
		if len(cfg.Tests) == 0 {
			return fmt.Errorf("catalog: configuration %q has no tests", cfg.Slug)
		}
		for _, entry := range cfg.Tests {
			if !types[entry.TestType] {
				return fmt.Errorf("catalog: configuration %q references unknown test type %q", cfg.Slug, entry.TestType)
			}
		}
	}
	return nil
}
