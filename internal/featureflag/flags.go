// Package featureflag buckets anonymous visitors into experiment variants.
// Assignment is a pure function of the flag configuration and the visitor id,
// so it is reproducible across processes and restarts.
package featureflag

import (
	"fmt"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

type Variant struct {
	ID      string         `json:"id" yaml:"id"`
	Weight  float64        `json:"weight" yaml:"weight"`
	Payload map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
}

type Flag struct {
	ID                string    `json:"id" yaml:"id"`
	Description       string    `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled           bool      `json:"enabled" yaml:"enabled"`
	RolloutPercentage int       `json:"rollout_percentage" yaml:"rollout_percentage"`
	Variants          []Variant `json:"variants" yaml:"variants"`
}

func (f Flag) validate() error {
	if f.ID == "" {
		return fmt.Errorf("flag id is required")
	}
	if f.RolloutPercentage < 0 || f.RolloutPercentage > 100 {
		return fmt.Errorf("flag %q: rollout_percentage must be within 0-100", f.ID)
	}
	if len(f.Variants) == 0 {
		return fmt.Errorf("flag %q: at least one variant is required", f.ID)
	}
	for _, v := range f.Variants {
		if v.ID == "" {
			return fmt.Errorf("flag %q: variant id is required", f.ID)
		}
		if v.Weight < 0 {
			return fmt.Errorf("flag %q: variant %q has a negative weight", f.ID, v.ID)
		}
	}
	return nil
}

type Assigner struct {
	flags map[string]Flag
}

func NewAssigner(flags []Flag) (*Assigner, error) {
	a := &Assigner{flags: make(map[string]Flag, len(flags))}
	for _, f := range flags {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, dup := a.flags[f.ID]; dup {
			return nil, fmt.Errorf("duplicate flag %q", f.ID)
		}
		a.flags[f.ID] = f
	}
	return a, nil
}

// LoadFile reads a YAML document with a top-level `feature_flags` list.
func LoadFile(path string) (*Assigner, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flags file: %w", err)
	}
	var doc struct {
		FeatureFlags []Flag `yaml:"feature_flags"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse flags file: %w", err)
	}
	return NewAssigner(doc.FeatureFlags)
}

// Bucket maps a visitor id to [0,100).
func Bucket(visitorID string) int {
	return int(xxhash.Sum64String(visitorID) % 100)
}

// GetVariant returns nil when the flag is unknown, disabled, or the visitor
// falls outside the rollout.
func (a *Assigner) GetVariant(flagID, visitorID string) *Variant {
	f, ok := a.flags[flagID]
	if !ok || !f.Enabled {
		return nil
	}

	h := Bucket(visitorID)
	if h >= f.RolloutPercentage {
		return nil
	}

	normalized := float64(h) / 100
	cumulative := 0.0
	for i := range f.Variants {
		cumulative += f.Variants[i].Weight / 100
		if cumulative >= normalized {
			v := f.Variants[i]
			return &v
		}
	}

	v := f.Variants[0]
	return &v
}

// AssignAll evaluates every flag for a visitor. Excluded visitors map to nil.
func (a *Assigner) AssignAll(visitorID string) map[string]*Variant {
	out := make(map[string]*Variant, len(a.flags))
	for id := range a.flags {
		out[id] = a.GetVariant(id, visitorID)
	}
	return out
}

func (a *Assigner) FlagIDs() []string {
	ids := make([]string, 0, len(a.flags))
	for id := range a.flags {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a *Assigner) Has(flagID string) bool {
	_, ok := a.flags[flagID]
	return ok
}
