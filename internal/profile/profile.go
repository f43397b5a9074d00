// Package profile holds the read-only user profile snapshot that matching
// draws candidate values from. The snapshot is maintained by an external
// collaborator; this package only decodes, indexes, and hot-reloads it.
package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Field is a single named attribute of the user profile. Values are ordered
// most-preferred first.
type Field struct {
	Key         string    `yaml:"key" json:"key"`
	Values      []string  `yaml:"values" json:"values"`
	SourceCount int       `yaml:"source_count" json:"sourceCount"`
	Confidence  int       `yaml:"confidence" json:"confidence"` // 0-100
	LastUpdated time.Time `yaml:"last_updated" json:"lastUpdated"`
}

// PreferredValue returns the most-preferred value, or "" when empty.
func (f Field) PreferredValue() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

// snapshot is the on-disk shape of a profile file.
type snapshot struct {
	Fields []Field `yaml:"fields"`
}

// Load decodes a profile snapshot from a YAML file.
func Load(path string) ([]Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return snap.Fields, nil
}

// Index maps profile keys to their preferred value, skipping fields with no
// usable value. Built once per matching pass.
func Index(fields []Field) map[string]string {
	idx := make(map[string]string, len(fields))
	for _, f := range fields {
		if v := f.PreferredValue(); v != "" {
			if _, taken := idx[f.Key]; !taken {
				idx[f.Key] = v
			}
		}
	}
	return idx
}
