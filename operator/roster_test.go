package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-operator/catalog"
)

func TestRoster_Candidates(t *testing.T) {
	tests := []struct {
		number int
		want   []string
	}{
		{1, []string{"James"}},
		{2, []string{"Marion"}},
		{3, []string{"Marion", "James"}},
		{6, []string{"Fred", "Marion"}},
		{7, []string{"Fred", "Marion", "James"}},
		{0, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, testRoster.Candidates(tt.number), "number %d", tt.number)
	}
}

func TestRoster_PickUsesSelector(t *testing.T) {
	name, err := testRoster.Pick(7, catalog.SelectorFunc(func(n int) int {
		require.Equal(t, 3, n)
		return 2
	}))
	require.NoError(t, err)
	assert.Equal(t, "James", name)
}

func TestWaveVoices(t *testing.T) {
	assert.Equal(t, []string{"Operator_Marion_1", "Operator_Marion_2", "Operator_Marion_3"}, WaveVoices("Marion"))
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "2", LevelLabel(2, 5))
	assert.Equal(t, "Max", LevelLabel(5, 5))
	assert.Equal(t, "Max", LevelLabel(6, 5))
}

func TestEquipmentForSlot(t *testing.T) {
	eq, err := EquipmentForSlot("Battleship_CoreTech_OpticalTurret")
	require.NoError(t, err)
	assert.Equal(t, EquipmentOptical, eq)
	assert.Equal(t, "optical", eq.String())

	for eq := range enhanceRules {
		assert.True(t, enhanceRules[eq].priority.Mergeable(), eq.String())
	}

	_, err = EquipmentForSlot("")
	assert.ErrorIs(t, err, ErrUnknownEquipment)
}
