// Package vision wraps the external plate-analysis capability. The rest of
// the system talks to the PlateVision interface and treats every deviation
// from the expected response shape as a normal, recoverable failure.
package vision

import (
	"context"
	"errors"
)

// ErrMalformedResponse marks a vision response that failed schema
// validation. Callers treat it like any other analysis failure and fall
// back to the heuristic estimator.
var ErrMalformedResponse = errors.New("malformed analysis response")

// RawFoodItem is one food item as reported by the vision model, before
// domain normalization. WastePercentage is a pointer so a missing field can
// be told apart from a genuine zero.
type RawFoodItem struct {
	Name              string   `json:"name"`
	InitialPortion    string   `json:"initial_portion"`
	RemainingPortion  string   `json:"remaining_portion"`
	WastePercentage   *float64 `json:"waste_percentage"`
	EstimatedWeightOz float64  `json:"estimated_weight_oz"`
	Category          string   `json:"category"`
}

// PlateAnalysis is the validated structured response from the vision model.
type PlateAnalysis struct {
	FoodItems         []RawFoodItem `json:"food_items"`
	OverallAssessment string        `json:"overall_assessment"`
	Suggestions       []string      `json:"suggestions"`
}

// PlateVision analyzes a before/after pair of plate photos.
type PlateVision interface {
	AnalyzePlate(ctx context.Context, beforeImage, afterImage []byte) (*PlateAnalysis, error)
}
