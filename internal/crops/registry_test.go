package crops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-service/internal/models"
)

// ============================================================================
// REGISTRY CONSTRUCTION
// ============================================================================

func TestNewRegistry_ValidatesBuiltinTables(t *testing.T) {
	require.NotPanics(t, func() { NewRegistry() })
}

func TestRegistry_AllCropsHaveContiguousPhases(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.SupportedCrops() {
		c, err := r.PhenologyFor(name)
		require.NoError(t, err)

		assert.Equal(t, 0, c.Phases[0].StartDay, "crop %s first phase", name)
		for i := 1; i < len(c.Phases); i++ {
			assert.Equal(t, c.Phases[i-1].EndDay+1, c.Phases[i].StartDay,
				"crop %s phase %d", name, i)
		}
		assert.Equal(t, c.TotalSeasonDays, c.Phases[len(c.Phases)-1].EndDay,
			"crop %s season length", name)
	}
}

func TestRegistry_PhaseWeightsSumToOne(t *testing.T) {
	r := NewRegistry()
	for _, name := range r.SupportedCrops() {
		c, err := r.PhenologyFor(name)
		require.NoError(t, err)

		sum := 0.0
		for _, w := range c.PhaseWeights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "crop %s", name)
	}
}

// ============================================================================
// CROP VALIDATION AND ALIASES
// ============================================================================

func TestValidateCrop(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "canonical name", input: "maize", expected: "maize"},
		{name: "empty defaults to maize", input: "", expected: "maize"},
		{name: "alias corn", input: "corn", expected: "maize"},
		{name: "alias soy", input: "soy", expected: "soyabeans"},
		{name: "alias soybeans", input: "soybeans", expected: "soyabeans"},
		{name: "alias peanuts", input: "peanuts", expected: "groundnuts"},
		{name: "case and whitespace insensitive", input: "  MAIZE ", expected: "maize"},
		{name: "unknown crop", input: "quinoa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ValidateCrop(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var unknownErr *models.UnknownCropError
				require.ErrorAs(t, err, &unknownErr)
				assert.NotEmpty(t, unknownErr.Supported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSupportedCrops_StableAndComplete(t *testing.T) {
	r := NewRegistry()
	crops := r.SupportedCrops()

	assert.Len(t, crops, 9)
	assert.Contains(t, crops, "maize")
	assert.Contains(t, crops, "tobacco")
	// Sorted order is part of the contract so API listings are deterministic.
	for i := 1; i < len(crops); i++ {
		assert.Less(t, crops[i-1], crops[i])
	}
}

// ============================================================================
// ZONE WEIGHTING
// ============================================================================

func TestPhaseWeightsFor_ZoneAdjustments(t *testing.T) {
	r := NewRegistry()

	t.Run("neutral zone keeps base weights", func(t *testing.T) {
		weights, err := r.PhaseWeightsFor("maize", "aez_3_midlands")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.15, 0.25, 0.40, 0.20}, weights)
	})

	t.Run("lowveld amplifies establishment and flowering", func(t *testing.T) {
		weights, err := r.PhaseWeightsFor("maize", "aez_5_lowveld")
		require.NoError(t, err)
		assert.InDelta(t, 0.15*1.5, weights[0], 1e-12)
		assert.InDelta(t, 0.25*0.5, weights[1], 1e-12)
		assert.InDelta(t, 0.40*1.5, weights[2], 1e-12)
		assert.InDelta(t, 0.20*0.5, weights[3], 1e-12)
	})

	t.Run("unknown zone falls back to neutral", func(t *testing.T) {
		weights, err := r.PhaseWeightsFor("maize", "mystery_zone")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.15, 0.25, 0.40, 0.20}, weights)
	})
}

func TestZoneRiskMultiplier(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, 1.0, r.ZoneRiskMultiplier("aez_3_midlands"))
	assert.Equal(t, 1.15, r.ZoneRiskMultiplier("aez_4_masvingo"))
	assert.Equal(t, 1.3, r.ZoneRiskMultiplier("aez_5_lowveld"))
	assert.Equal(t, 1.0, r.ZoneRiskMultiplier("auto_detect"))
	assert.Equal(t, 1.0, r.ZoneRiskMultiplier("nonsense"))
}

func TestDetectZoneFromLatitude(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "aez_4_masvingo", r.DetectZoneFromLatitude(-21.5))
	assert.Equal(t, "aez_3_midlands", r.DetectZoneFromLatitude(-19.0))
	assert.Equal(t, "aez_5_lowveld", r.DetectZoneFromLatitude(-17.0))
}

func TestPhaseDuration(t *testing.T) {
	r := NewRegistry()
	phases, err := r.PhasesFor("maize")
	require.NoError(t, err)

	total := 0
	for _, p := range phases {
		total += p.DurationDays()
	}
	// Durations cover every day from 0 through the final phase end inclusive.
	assert.Equal(t, 121, total)
}
