package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepTransitions(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, StepEntry, s.Step())

	assert.Equal(t, StepEntry, s.PrevStep())
	for want := StepReview; want <= StepResult; want++ {
		assert.Equal(t, want, s.NextStep())
	}
	assert.Equal(t, StepResult, s.NextStep())
	assert.Equal(t, StepTaxTip, s.PrevStep())
}

func TestSetStep_Bounds(t *testing.T) {
	s := newTestStore()
	require.ErrorIs(t, s.SetStep(0), ErrValidation)
	require.ErrorIs(t, s.SetStep(7), ErrValidation)
	require.NoError(t, s.SetStep(StepAssign))
	assert.Equal(t, "assign", s.Step().String())
	assert.Equal(t, "step(9)", Step(9).String())
}
