package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_CoversRegistry(t *testing.T) {
	assert.Len(t, Order, len(Registry))
	for _, s := range Order {
		assert.True(t, Valid(s), "stage %s missing from registry", s)
	}
}

func TestParse_ValidStages(t *testing.T) {
	for _, s := range Order {
		parsed, err := Parse(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestParse_UnknownStage(t *testing.T) {
	_, err := Parse("deployment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deployment")
	assert.Contains(t, err.Error(), "discovery")
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 0, Index(Discovery))
	assert.Equal(t, 1, Index(Materialization))
	assert.Equal(t, 2, Index(Tailoring))
	assert.Equal(t, 3, Index(Compilation))
	assert.Equal(t, -1, Index(Stage("unknown")))
}

func TestMissing_NoPreconditions(t *testing.T) {
	assert.Empty(t, Missing(Discovery, nil))
}

func TestMissing_ReportsAbsentStages(t *testing.T) {
	missing := Missing(Materialization, nil)
	assert.Equal(t, []Stage{Discovery}, missing)

	missing = Missing(Materialization, []Stage{Discovery})
	assert.Empty(t, missing)
}

func TestMissing_CompilationNeedsMaterializationOnly(t *testing.T) {
	// Tailoring can be disabled; compilation must still be runnable once
	// folders exist.
	missing := Missing(Compilation, []Stage{Discovery, Materialization})
	assert.Empty(t, missing)
}

func TestPreconditionError_Message(t *testing.T) {
	err := &PreconditionError{Stage: Tailoring, Missing: []Stage{Materialization}}
	assert.Contains(t, err.Error(), "tailoring")
	assert.Contains(t, err.Error(), "materialization")
}
