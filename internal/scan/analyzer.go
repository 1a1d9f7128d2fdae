package scan

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"time"

	"dining-waste-tracker/internal/vision"
)

// Analysis is the normalized output of a plate analysis, identical in shape
// whether it came from the vision model or the fallback estimator.
type Analysis struct {
	Items      []FoodItem
	Assessment string
	Tips       []string
}

// Analyzer derives per-food waste estimates from a before/after photo pair.
// The vision model is the primary path; the pixel-based fallback estimator
// covers timeouts, transport errors, malformed responses and empty results.
type Analyzer struct {
	vision  vision.PlateVision
	timeout time.Duration
}

// NewAnalyzer creates an Analyzer. A nil PlateVision puts the analyzer in
// fallback-only mode.
func NewAnalyzer(v vision.PlateVision, timeout time.Duration) *Analyzer {
	return &Analyzer{vision: v, timeout: timeout}
}

// Analyze runs the full analysis pipeline. It returns ErrInvalidImage when
// either image cannot be decoded; vision failures are recovered via the
// fallback and never surface to the caller.
func (a *Analyzer) Analyze(ctx context.Context, beforeImage, afterImage []byte) (Analysis, error) {
	before, _, err := image.Decode(bytes.NewReader(beforeImage))
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: before image: %v", ErrInvalidImage, err)
	}
	after, _, err := image.Decode(bytes.NewReader(afterImage))
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: after image: %v", ErrInvalidImage, err)
	}

	if a.vision != nil {
		visionCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		analysis, err := a.vision.AnalyzePlate(visionCtx, beforeImage, afterImage)
		switch {
		case err != nil:
			log.Printf("Vision analysis unavailable, using fallback estimator: %v", err)
		case len(analysis.FoodItems) == 0:
			log.Printf("Vision analysis returned no food items, using fallback estimator")
		default:
			return normalizeAnalysis(analysis), nil
		}
	}

	return fallbackAnalyze(before, after), nil
}

// normalizeAnalysis converts a validated vision response into domain food
// items, clamping percentages into [0,100] and weights to non-negative.
func normalizeAnalysis(raw *vision.PlateAnalysis) Analysis {
	items := make([]FoodItem, 0, len(raw.FoodItems))
	for _, ri := range raw.FoodItems {
		weight := ri.EstimatedWeightOz
		if weight < 0 {
			weight = 0
		}
		items = append(items, FoodItem{
			Name:              ri.Name,
			InitialPortion:    ri.InitialPortion,
			RemainingPortion:  ri.RemainingPortion,
			WastePercentage:   clampPct(*ri.WastePercentage),
			EstimatedWeightOz: weight,
			Category:          ParseCategory(ri.Category),
		})
	}
	return Analysis{
		Items:      items,
		Assessment: raw.OverallAssessment,
		Tips:       raw.Suggestions,
	}
}
