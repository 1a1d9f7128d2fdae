package scan

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// chromaThreshold separates "food" pixels from plate and tray background.
// White plates and grey trays have near-equal RGB channels; food is
// noticeably more colorful.
const chromaThreshold = 30

// fallbackWeightOz is the assumed weight of a fully wasted mixed plate.
const fallbackWeightOz = 8.0

// fallbackAnalyze estimates waste from raw pixels when the vision model is
// unavailable. It treats the plate as one aggregate pseudo-item: the waste
// fraction is the ratio of food-colored pixels remaining after eating to
// those present before.
func fallbackAnalyze(before, after image.Image) Analysis {
	bounds := before.Bounds()
	after = imaging.Resize(after, bounds.Dx(), bounds.Dy(), imaging.Lanczos)

	beforePixels := countFoodPixels(before)
	afterPixels := countFoodPixels(after)

	if beforePixels == 0 {
		return Analysis{
			Items:      nil,
			Assessment: "No food was detected on the plate.",
			Tips:       []string{"Make sure the full tray is visible and well lit when scanning."},
		}
	}

	waste := float64(afterPixels) / float64(beforePixels)
	waste = math.Max(0, math.Min(1, waste))
	wastePct := math.Round(waste*1000) / 10

	return Analysis{
		Items: []FoodItem{
			{
				Name:              "Mixed Plate",
				InitialPortion:    "Full serving",
				RemainingPortion:  fmt.Sprintf("%d%% remaining", int(waste*100)),
				WastePercentage:   wastePct,
				EstimatedWeightOz: math.Round(fallbackWeightOz*waste*100) / 100,
				Category:          CategoryOther,
			},
		},
		Assessment: fmt.Sprintf("Approximately %d%% of food was consumed, %d%% wasted.",
			int((1-waste)*100), int(waste*100)),
		Tips: tipsForWaste(waste),
	}
}

// countFoodPixels counts pixels whose chroma exceeds the plate threshold.
func countFoodPixels(img image.Image) int {
	bounds := img.Bounds()
	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			r8, g8, b8 := int(r>>8), int(g>>8), int(b>>8)
			if chroma(r8, g8, b8) > chromaThreshold {
				count++
			}
		}
	}
	return count
}

func chroma(r, g, b int) int {
	return max(r, g, b) - min(r, g, b)
}

// tipsForWaste picks the static tip set for a waste fraction in [0,1].
func tipsForWaste(waste float64) []string {
	switch {
	case waste <= 0.1:
		return []string{"🎉 Amazing job! Clean plate champion!"}
	case waste <= 0.25:
		return []string{"Great effort! Keep it up.", "You're being mindful of portions."}
	case waste <= 0.40:
		return []string{"💡 Try taking smaller portions initially.", "You can always go back for seconds!"}
	default:
		return []string{
			"💡 Consider starting with half portions.",
			"Ask dining staff about smaller serving options.",
			"Try one item at a time - you can always get more!",
		}
	}
}
