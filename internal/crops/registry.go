package crops

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"quote-service/internal/models"
)

// Registry serves immutable crop phenology and agro-ecological zone reference
// data. It is constructed once at process start and injected into every
// component that needs it; nothing mutates it afterwards.
type Registry struct {
	crops   map[string]models.CropPhenology
	zones   map[string]models.Zone
	aliases map[string]string
}

const autoDetectZone = "auto_detect"

// NewRegistry builds the registry from the built-in tables and validates the
// structural invariants: contiguous phases starting at day 0 and base weights
// summing to 1.0. A broken table is a programming error, so it panics.
func NewRegistry() *Registry {
	r := &Registry{
		crops:   builtinCrops(),
		zones:   builtinZones(),
		aliases: builtinAliases(),
	}
	for name, c := range r.crops {
		if err := validatePhenology(c); err != nil {
			panic(fmt.Sprintf("crop table %q: %v", name, err))
		}
	}
	return r
}

func validatePhenology(c models.CropPhenology) error {
	if len(c.Phases) == 0 {
		return fmt.Errorf("no phases configured")
	}
	if len(c.PhaseWeights) != len(c.Phases) {
		return fmt.Errorf("phase weight count %d does not match phase count %d",
			len(c.PhaseWeights), len(c.Phases))
	}
	if c.Phases[0].StartDay != 0 {
		return fmt.Errorf("first phase must start at day 0, got %d", c.Phases[0].StartDay)
	}
	for i := 1; i < len(c.Phases); i++ {
		if c.Phases[i].StartDay != c.Phases[i-1].EndDay+1 {
			return fmt.Errorf("phase %q does not follow %q contiguously",
				c.Phases[i].Name, c.Phases[i-1].Name)
		}
	}
	if last := c.Phases[len(c.Phases)-1].EndDay; last != c.TotalSeasonDays {
		return fmt.Errorf("last phase ends at day %d, season length is %d", last, c.TotalSeasonDays)
	}
	sum := 0.0
	for _, w := range c.PhaseWeights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("phase weights sum to %f, expected 1.0", sum)
	}
	return nil
}

// ValidateCrop normalizes a crop name through the alias table. An empty crop
// defaults to maize. An unknown crop returns UnknownCropError listing the
// supported set.
func (r *Registry) ValidateCrop(crop string) (string, error) {
	if crop == "" {
		return "maize", nil
	}
	name := strings.ToLower(strings.TrimSpace(crop))
	if _, ok := r.crops[name]; ok {
		return name, nil
	}
	if canonical, ok := r.aliases[name]; ok {
		return canonical, nil
	}
	return "", &models.UnknownCropError{Crop: crop, Supported: r.SupportedCrops()}
}

// SupportedCrops lists configured crop names in stable order.
func (r *Registry) SupportedCrops() []string {
	names := make([]string, 0, len(r.crops))
	for name := range r.crops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PhenologyFor returns the full phenology record for a crop or alias.
func (r *Registry) PhenologyFor(crop string) (models.CropPhenology, error) {
	name, err := r.ValidateCrop(crop)
	if err != nil {
		return models.CropPhenology{}, err
	}
	return r.crops[name], nil
}

// PhasesFor returns the ordered phase schedule for a crop.
func (r *Registry) PhasesFor(crop string) ([]models.Phase, error) {
	c, err := r.PhenologyFor(crop)
	if err != nil {
		return nil, err
	}
	return c.Phases, nil
}

// PhaseWeightsFor returns base weights adjusted by the zone's per-phase
// multipliers, same length and order as the phases. An unrecognized zone
// silently falls back to auto_detect (all multipliers 1.0) so the
// orchestrator can defer zone detection.
func (r *Registry) PhaseWeightsFor(crop, zone string) ([]float64, error) {
	c, err := r.PhenologyFor(crop)
	if err != nil {
		return nil, err
	}
	z := r.ZoneFor(zone)
	if len(z.PhaseWeightAdjustments) != len(c.PhaseWeights) {
		return nil, &models.ComputationError{
			Stage: "phase_weights",
			Message: fmt.Sprintf("zone %s has %d adjustments, crop %s has %d phases",
				z.ID, len(z.PhaseWeightAdjustments), c.Crop, len(c.PhaseWeights)),
		}
	}
	adjusted := make([]float64, len(c.PhaseWeights))
	for i, w := range c.PhaseWeights {
		adjusted[i] = w * z.PhaseWeightAdjustments[i]
	}
	return adjusted, nil
}

// ZoneFor resolves a zone ID, falling back to auto_detect for anything unknown.
func (r *Registry) ZoneFor(zone string) models.Zone {
	if z, ok := r.zones[zone]; ok {
		return z
	}
	return r.zones[autoDetectZone]
}

// ZoneRiskMultiplier returns the scalar rate multiplier for a zone.
func (r *Registry) ZoneRiskMultiplier(zone string) float64 {
	return r.ZoneFor(zone).RiskMultiplier
}

// Zones lists every configured zone in stable order.
func (r *Registry) Zones() []models.Zone {
	ids := make([]string, 0, len(r.zones))
	for id := range r.zones {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	zones := make([]models.Zone, 0, len(ids))
	for _, id := range ids {
		zones = append(zones, r.zones[id])
	}
	return zones
}

// DetectZoneFromLatitude picks an agro-ecological zone from latitude bands.
// A simple threshold rule for the Zimbabwe highveld-to-lowveld gradient:
// the further south and lower, the harsher the drought regime.
func (r *Registry) DetectZoneFromLatitude(latitude float64) string {
	switch {
	case latitude <= -21:
		return "aez_4_masvingo"
	case latitude <= -18:
		return "aez_3_midlands"
	default:
		return "aez_5_lowveld"
	}
}
