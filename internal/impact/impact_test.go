package impact

import "testing"

func TestForWeightZero(t *testing.T) {
	m := ForWeight(0)
	if m != (Metrics{}) {
		t.Errorf("ForWeight(0) = %+v, want all-zero metrics", m)
	}
}

func TestForWeightNegativeClamped(t *testing.T) {
	if m := ForWeight(-4); m != (Metrics{}) {
		t.Errorf("ForWeight(-4) = %+v, want all-zero metrics", m)
	}
}

func TestForWeightKnownValues(t *testing.T) {
	// 16 oz = 1 lb of waste.
	m := ForWeight(16)
	if m.WeightLbs != 1 {
		t.Errorf("WeightLbs = %v, want 1", m.WeightLbs)
	}
	if m.WeightOz != 16 {
		t.Errorf("WeightOz = %v, want 16", m.WeightOz)
	}
	if m.CostUSD != 5.50 {
		t.Errorf("CostUSD = %v, want 5.50", m.CostUSD)
	}
	if m.CO2Kg != 2 {
		t.Errorf("CO2Kg = %v, want 2", m.CO2Kg)
	}
	if m.WaterGallons != 25 {
		t.Errorf("WaterGallons = %v, want 25", m.WaterGallons)
	}
	if m.MealsEquivalent != 1.33 {
		t.Errorf("MealsEquivalent = %v, want 1.33", m.MealsEquivalent)
	}
}

func TestForWeightLinearCost(t *testing.T) {
	for _, oz := range []float64{2, 8, 16, 32} {
		single := ForWeight(oz)
		double := ForWeight(2 * oz)
		if double.CostUSD != 2*single.CostUSD {
			t.Errorf("cost not linear at %v oz: 2*%v != %v", oz, single.CostUSD, double.CostUSD)
		}
	}
}

func TestForWeightDeterministic(t *testing.T) {
	a := ForWeight(7.77)
	b := ForWeight(7.77)
	if a != b {
		t.Errorf("repeated computation differs: %+v vs %+v", a, b)
	}
}

func TestAdd(t *testing.T) {
	sum := ForWeight(8).Add(ForWeight(8))
	if sum.WeightOz != 16 {
		t.Errorf("summed WeightOz = %v, want 16", sum.WeightOz)
	}
	if sum.CostUSD != 5.50 {
		t.Errorf("summed CostUSD = %v, want 5.50", sum.CostUSD)
	}
}
