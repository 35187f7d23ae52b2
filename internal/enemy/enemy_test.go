package enemy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max int
		wantErr  bool
	}{
		{"1-1", 1, 1, false},
		{"2-5", 2, 5, false},
		{"3", 3, 3, false},
		{"", 1, 1, false},
		{"5-2", 0, 0, true},
		{"a-b", 0, 0, true},
		{"-1-2", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			min, max, err := ParseAmountRange(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestValidate(t *testing.T) {
	e := Enemy{ID: "wolf", MaxHealth: 10}
	require.NoError(t, e.Validate())
	assert.Equal(t, 10, e.Health, "health defaults to maxHealth")

	bad := Enemy{ID: "ghost", MaxHealth: 0}
	assert.Error(t, bad.Validate())

	badDrop := Enemy{ID: "wolf", MaxHealth: 10, MaterialDrops: map[string]MaterialDrop{
		"pelt": {Chance: 1, Amount: "9-1"},
	}}
	assert.Error(t, badDrop.Validate())
}
