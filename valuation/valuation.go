// Package valuation estimates a value range for a property from a fixed
// factor model (base price per m² by type, neighborhood and condition
// multipliers, room bonus). Output is cents.
package valuation

import (
	"math"
	"strings"
)

var basePricePerSqmCents = map[string]int64{
	"apartamento": 800_000,
	"casa":        650_000,
	"cobertura":   1_200_000,
	"terreno":     300_000,
	"comercial":   900_000,
}

var conditionMultiplier = map[string]float64{
	"excelente":         1.15,
	"bom":               1.0,
	"regular":           0.85,
	"necessita_reforma": 0.70,
}

var neighborhoodFactor = map[string]float64{
	"asa sul":      1.3,
	"asa norte":    1.25,
	"lago sul":     1.5,
	"sudoeste":     1.4,
	"aguas claras": 1.1,
	"guara":        1.0,
	"taguatinga":   0.9,
	"ceilandia":    0.8,
}

type Input struct {
	PropertyType string
	Neighborhood string
	TotalAreaSqm float64
	Bedrooms     int
	Bathrooms    int
	Condition    string
}

type Result struct {
	EstimatedMinCents int64 `json:"estimatedMinCents"`
	EstimatedMaxCents int64 `json:"estimatedMaxCents"`
}

// Estimate applies the factor model and returns a ±5% range around the
// computed value.
func Estimate(in Input) Result {
	base, ok := basePricePerSqmCents[strings.ToLower(strings.TrimSpace(in.PropertyType))]
	if !ok {
		base = basePricePerSqmCents["apartamento"]
	}

	location, ok := neighborhoodFactor[strings.ToLower(strings.TrimSpace(in.Neighborhood))]
	if !ok {
		location = 1.0
	}

	condition, ok := conditionMultiplier[strings.ToLower(strings.TrimSpace(in.Condition))]
	if !ok {
		condition = 1.0
	}

	roomBonus := math.Max(0, float64(in.Bedrooms-2)*0.05) + math.Max(0, float64(in.Bathrooms-1)*0.05)
	total := location * condition * (1 + roomBonus)

	estimated := float64(base) * in.TotalAreaSqm * total
	return Result{
		EstimatedMinCents: int64(math.Round(estimated * 0.95)),
		EstimatedMaxCents: int64(math.Round(estimated * 1.05)),
	}
}
