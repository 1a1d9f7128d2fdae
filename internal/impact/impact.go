// Package impact converts a wasted-food weight into environmental and cost
// figures using fixed per-pound constants.
package impact

import "math"

// Per-pound constants for prepared dining-hall food.
const (
	costPerLb   = 5.50 // USD
	co2PerLb    = 2.0  // kg of CO2 emitted producing one pound of food
	waterPerLb  = 25.0 // gallons used producing one pound of food
	lbsPerMeal  = 0.75 // weight of an average prepared meal
	ouncesPerLb = 16.0
)

// Metrics holds the derived impact of a quantity of wasted food. All fields
// are non-negative and scale linearly with weight.
type Metrics struct {
	WeightLbs       float64 `json:"weight_lbs"`
	WeightOz        float64 `json:"weight_oz"`
	CostUSD         float64 `json:"cost_usd"`
	CO2Kg           float64 `json:"co2_kg"`
	WaterGallons    float64 `json:"water_gallons"`
	MealsEquivalent float64 `json:"meals_equivalent"`
}

// ForWeight computes the impact of totalOz ounces of wasted food. Values are
// rounded for display: money to cents, physical quantities to one to three
// decimals depending on magnitude.
func ForWeight(totalOz float64) Metrics {
	if totalOz < 0 {
		totalOz = 0
	}
	lbs := totalOz / ouncesPerLb

	return Metrics{
		WeightLbs:       round(lbs, 3),
		WeightOz:        round(totalOz, 2),
		CostUSD:         round(lbs*costPerLb, 2),
		CO2Kg:           round(lbs*co2PerLb, 2),
		WaterGallons:    round(lbs*waterPerLb, 1),
		MealsEquivalent: round(lbs/lbsPerMeal, 2),
	}
}

// Add returns the field-wise sum of two Metrics, re-rounded so repeated
// aggregation of the same inputs always prints identically.
func (m Metrics) Add(o Metrics) Metrics {
	return Metrics{
		WeightLbs:       round(m.WeightLbs+o.WeightLbs, 3),
		WeightOz:        round(m.WeightOz+o.WeightOz, 2),
		CostUSD:         round(m.CostUSD+o.CostUSD, 2),
		CO2Kg:           round(m.CO2Kg+o.CO2Kg, 2),
		WaterGallons:    round(m.WaterGallons+o.WaterGallons, 1),
		MealsEquivalent: round(m.MealsEquivalent+o.MealsEquivalent, 2),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
