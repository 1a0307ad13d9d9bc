package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Shape(t *testing.T) {
	c := DefaultCatalog()

	require.Equal(t, 6, c.Len())
	for stage := MinStage; stage <= MaxStage; stage++ {
		want := 1
		if stage == 3 {
			want = 2
		}
		assert.Len(t, c.Stage(stage), want, "stage %d", stage)
	}

	stage3 := c.Stage(3)
	assert.Equal(t, "stage3-baselines-cpu", stage3[0].ID)
	assert.Equal(t, "stage3-top2vec-gpu", stage3[1].ID)
}

func TestDefaultCatalog_OrderedByStage(t *testing.T) {
	units := DefaultCatalog().Units()

	for i := 1; i < len(units); i++ {
		assert.LessOrEqual(t, units[i-1].Stage, units[i].Stage)
	}
}

func TestCatalog_UnitsIsACopy(t *testing.T) {
	c := DefaultCatalog()

	units := c.Units()
	units[0].ID = "mutated"

	assert.Equal(t, "stage1-datasets-prep", c.Units()[0].ID)
}

func TestCatalog_StageOutOfRange(t *testing.T) {
	assert.Empty(t, DefaultCatalog().Stage(9))
}

func TestUnit_IsTop2Vec(t *testing.T) {
	var top2vec []string
	for _, u := range DefaultCatalog().Units() {
		if u.IsTop2Vec() {
			top2vec = append(top2vec, u.ID)
		}
	}

	assert.Equal(t, []string{"stage3-top2vec-gpu"}, top2vec)
}

func TestValidateStage(t *testing.T) {
	assert.NoError(t, ValidateStage("from-stage", 1))
	assert.NoError(t, ValidateStage("to-stage", 5))

	err := ValidateStage("to-stage", 6)
	assert.ErrorIs(t, err, ErrInvalidStage)
	assert.Contains(t, err.Error(), "to-stage must be between 1 and 5, got 6")

	assert.ErrorIs(t, ValidateStage("from-stage", 0), ErrInvalidStage)
}

func TestRunConfig_Validate(t *testing.T) {
	assert.NoError(t, RunConfig{FromStage: 4, ToStage: 2}.Validate(), "reversed range is valid")
	assert.Error(t, RunConfig{FromStage: 0, ToStage: 2}.Validate())
	assert.Error(t, RunConfig{FromStage: 1, ToStage: 0}.Validate())
}
