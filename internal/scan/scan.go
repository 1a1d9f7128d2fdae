// Package scan defines the tray-scan domain model and the waste analyzer
// that turns a pair of before/after plate photos into per-food waste records.
package scan

import (
	"errors"
	"strings"
	"time"

	"dining-waste-tracker/internal/gamify"
	"dining-waste-tracker/internal/impact"
)

// ErrInvalidImage is returned when image bytes cannot be decoded. The
// submission is rejected and no record is stored.
var ErrInvalidImage = errors.New("invalid image data")

// Category groups food items for reporting.
type Category string

const (
	CategoryEntree    Category = "entree"
	CategorySide      Category = "side"
	CategoryVegetable Category = "vegetable"
	CategoryDessert   Category = "dessert"
	CategoryBeverage  Category = "beverage"
	CategoryOther     Category = "other"
)

// ParseCategory normalizes a free-form category string from the vision
// response. Anything unrecognized (including the fallback's "mixed") maps
// to CategoryOther.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryEntree:
		return CategoryEntree
	case CategorySide:
		return CategorySide
	case CategoryVegetable:
		return CategoryVegetable
	case CategoryDessert:
		return CategoryDessert
	case CategoryBeverage:
		return CategoryBeverage
	default:
		return CategoryOther
	}
}

// FoodItem is one analyzed food item from a tray scan. Immutable once
// produced.
type FoodItem struct {
	Name              string   `json:"name"`
	InitialPortion    string   `json:"initial_portion"`
	RemainingPortion  string   `json:"remaining_portion"`
	WastePercentage   float64  `json:"waste_percentage"`
	EstimatedWeightOz float64  `json:"estimated_weight_oz"`
	Category          Category `json:"category"`
}

// Record is a completed tray scan. Records are append-only: once stored
// they are never mutated.
type Record struct {
	ID                int               `json:"id"`
	Timestamp         time.Time         `json:"timestamp"`
	SchoolID          string            `json:"school_id"`
	StudentID         string            `json:"student_id,omitempty"`
	FoodItems         []FoodItem        `json:"food_items"`
	WasteLevel        gamify.WasteLevel `json:"waste_level"`
	AvgWastePct       float64           `json:"avg_waste_percentage"`
	Points            int               `json:"points"`
	Impact            impact.Metrics    `json:"impact"`
	OverallAssessment string            `json:"overall_assessment"`
	Tips              []string          `json:"tips"`
}

// AverageWaste returns the mean waste percentage across items, or 0 for an
// empty item list.
func AverageWaste(items []FoodItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var total float64
	for _, item := range items {
		total += item.WastePercentage
	}
	return total / float64(len(items))
}

// TotalWastedOz sums the estimated wasted weight across items.
func TotalWastedOz(items []FoodItem) float64 {
	var total float64
	for _, item := range items {
		total += item.EstimatedWeightOz
	}
	return total
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
