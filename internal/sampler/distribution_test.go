package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
)

func TestCategorical_Validate(t *testing.T) {
	tests := map[string]struct {
		c       Categorical[string]
		wantErr bool
	}{
		"valid":           {c: Categorical[string]{W(0.5, "M"), W(0.5, "F")}},
		"empty":           {c: Categorical[string]{}, wantErr: true},
		"zero weight":     {c: Categorical[string]{W(0, "M"), W(1, "F")}, wantErr: true},
		"negative weight": {c: Categorical[string]{W(-1, "M")}, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := tc.c.Validate("gender")
			if tc.wantErr {
				assert.True(t, modelerrors.IsInvalidArgument(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMagnitude_Validate(t *testing.T) {
	assert.NoError(t, M(3, 2, 0, 25).Validate("totalUsers"))
	assert.Error(t, M(3, 2, 30, 25).Validate("totalUsers"))
	assert.Error(t, M(3, -2, 0, 25).Validate("totalUsers"))
}

func TestMagnitude_Clamp(t *testing.T) {
	m := M(5, 1, 1, 10)
	assert.Equal(t, 1, m.Clamp(-4))
	assert.Equal(t, 10, m.Clamp(11))
	assert.Equal(t, 7, m.Clamp(7))
}
