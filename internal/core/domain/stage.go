package domain

import (
	"fmt"
	"strings"
)

// Stage bounds of the catalog.
const (
	MinStage = 1
	MaxStage = 5
)

// Top2VecMarker identifies the optional GPU Top2Vec unit by its path.
const Top2VecMarker = "stage3_top2vec"

// Unit is one notebook in the pipeline.
type Unit struct {
	// ID is a stable, human-friendly identifier.
	ID string

	// Stage is the logical stage number the unit belongs to.
	Stage int

	// Path is the notebook path relative to the notebook directory.
	Path string
}

// IsTop2Vec reports whether u is the optional GPU embedding unit.
func (u Unit) IsTop2Vec() bool {
	return strings.Contains(u.Path, Top2VecMarker)
}

// Catalog is the ordered, read-only list of pipeline units.
type Catalog struct {
	units []Unit
}

// NewCatalog builds a catalog from units in pipeline order.
func NewCatalog(units ...Unit) Catalog {
	c := Catalog{units: make([]Unit, len(units))}
	copy(c.units, units)
	return c
}

// DefaultCatalog returns the Hebrew topic-modelling pipeline.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Unit{ID: "stage1-datasets-prep", Stage: 1,
			Path: "notebooks/hebrew_topic_stage1_datasets_prep final.ipynb"},
		Unit{ID: "stage2-preprocessing", Stage: 2,
			Path: "notebooks/hebrew_topic_stage2_preprocessing final.ipynb"},
		Unit{ID: "stage3-baselines-cpu", Stage: 3,
			Path: "notebooks/hebrew_topic_stage3_baselines_cpu final.ipynb"},
		Unit{ID: "stage3-top2vec-gpu", Stage: 3,
			Path: "notebooks/hebrew_topic_stage3_top2vec_gpu final.ipynb"},
		Unit{ID: "stage4-advanced-models", Stage: 4,
			Path: "notebooks/hebrew_topic_stage-4-advanced-topic-models-final.ipynb"},
		Unit{ID: "stage5-comparison", Stage: 5,
			Path: "notebooks/hebrew_topic_stage5_comparison_notebook_fixed.ipynb"},
	)
}

// Units returns a copy of all units in catalog order.
func (c Catalog) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Stage returns the units of stage n in catalog order.
func (c Catalog) Stage(n int) []Unit {
	var out []Unit
	for _, u := range c.units {
		if u.Stage == n {
			out = append(out, u)
		}
	}
	return out
}

// Len returns the number of units.
func (c Catalog) Len() int {
	return len(c.units)
}

// ValidateStage checks that n lies within [MinStage, MaxStage].
func ValidateStage(name string, n int) error {
	if n < MinStage || n > MaxStage {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrInvalidStage, name, MinStage, MaxStage, n)
	}
	return nil
}
