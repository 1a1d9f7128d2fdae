// Package gamify maps waste performance to points, waste levels, badges and
// point milestones. All functions are pure lookups over ordered boundary
// tables with half-open intervals: a value belongs to the first band whose
// upper bound exceeds it.
package gamify

// WasteLevel classifies how much of a tray was left uneaten.
type WasteLevel string

const (
	WasteNone        WasteLevel = "None"
	WasteMinimal     WasteLevel = "Minimal"
	WasteModerate    WasteLevel = "Moderate"
	WasteSignificant WasteLevel = "Significant"
	WasteMostLeft    WasteLevel = "Most Left"
)

// BadgeLevel is an achievement tier derived from a student's average waste.
type BadgeLevel string

const (
	BadgePlatinum BadgeLevel = "Platinum"
	BadgeGold     BadgeLevel = "Gold"
	BadgeSilver   BadgeLevel = "Silver"
	BadgeBronze   BadgeLevel = "Bronze"
	BadgeBeginner BadgeLevel = "Beginner"
)

// Badge is a displayable achievement tier.
type Badge struct {
	Level       BadgeLevel `json:"level"`
	Emoji       string     `json:"emoji"`
	Description string     `json:"description"`
}

// pointBand awards Points to averages in [Low, Upper) where Upper is the
// next band's Low. The table doubles as the waste-level classification:
// both use the same boundaries.
type pointBand struct {
	Low    float64
	Points int
	Level  WasteLevel
}

var pointBands = []pointBand{
	{0, 15, WasteNone},
	{10, 10, WasteMinimal},
	{25, 5, WasteModerate},
	{40, 2, WasteSignificant},
	{60, 1, WasteMostLeft},
}

// badgeBand boundaries are deliberately different from the point bands;
// the two tables must not be merged.
type badgeBand struct {
	Low   float64
	Badge Badge
}

var badgeBands = []badgeBand{
	{0, Badge{BadgePlatinum, "🏆", "Zero-Waste Champion"}},
	{10, Badge{BadgeGold, "🥇", "Eco Warrior"}},
	{20, Badge{BadgeSilver, "🥈", "Planet Protector"}},
	{35, Badge{BadgeBronze, "🥉", "Getting There"}},
	{50, Badge{BadgeBeginner, "🌱", "Room to Grow"}},
}

// Milestone describes the next cumulative-point achievement for a student.
type Milestone struct {
	PointsNeeded int    `json:"points_needed,omitempty"`
	NextBadge    string `json:"next_badge"`
	Threshold    int    `json:"threshold,omitempty"`
	Reached      bool   `json:"max_reached,omitempty"`
	Message      string `json:"message,omitempty"`
}

type milestone struct {
	Threshold int
	Title     string
}

var milestones = []milestone{
	{50, "Waste Warrior"},
	{100, "Eco Champion"},
	{250, "Planet Saver"},
	{500, "Sustainability Hero"},
	{1000, "Zero-Waste Legend"},
}

// PointsFor returns the points awarded for a scan with the given average
// waste percentage. Lower waste earns more points.
func PointsFor(avgWastePct float64) int {
	return lookupPointBand(avgWastePct).Points
}

// LevelFor classifies an average waste percentage into a WasteLevel.
func LevelFor(avgWastePct float64) WasteLevel {
	return lookupPointBand(avgWastePct).Level
}

func lookupPointBand(pct float64) pointBand {
	band := pointBands[0]
	for _, b := range pointBands {
		if pct < b.Low {
			break
		}
		band = b
	}
	return band
}

// BadgeFor returns the achievement badge for a student's average waste
// percentage across their scan history.
func BadgeFor(avgWastePct float64) Badge {
	badge := badgeBands[0].Badge
	for _, b := range badgeBands {
		if avgWastePct < b.Low {
			break
		}
		badge = b.Badge
	}
	return badge
}

// NextMilestone returns the smallest point milestone strictly above the
// current total, or the terminal state once every milestone is reached.
func NextMilestone(totalPoints int) Milestone {
	for _, m := range milestones {
		if totalPoints < m.Threshold {
			return Milestone{
				PointsNeeded: m.Threshold - totalPoints,
				NextBadge:    m.Title,
				Threshold:    m.Threshold,
			}
		}
	}
	return Milestone{
		Reached:   true,
		NextBadge: "Legend Status",
		Message:   "Max level reached!",
	}
}
