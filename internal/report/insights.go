package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"dining-waste-tracker/internal/scan"
	"dining-waste-tracker/internal/store"
)

// Insight types, in decreasing order of urgency.
const (
	InsightWarning = "warning"
	InsightInfo    = "info"
	InsightSuccess = "success"
)

// minServingsForInsight keeps one-off dishes out of the food cards.
const minServingsForInsight = 5

// highWasteInsightPct is the average waste above which a food triggers a
// warning card.
const highWasteInsightPct = 30

// Insight is one recommendation card for dining staff.
type Insight struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Insights scans the trailing window for waste patterns and produces
// recommendation cards: a high-waste food warning, a crowd favorite, the
// period's environmental impact (with a cost alert above the configured
// level) and the best-performing weekday. Card order is fixed and ties are
// broken deterministically.
func (e *Engine) Insights(schoolID string, days int) []Insight {
	records := e.store.Filter(store.Query{
		SchoolID: schoolID,
		From:     e.now().AddDate(0, 0, -days),
	})
	if len(records) == 0 {
		return []Insight{}
	}

	insights := []Insight{}
	foods := summarizeFoods(records, false, 0, 0)

	if worst := worstFood(foods); worst != nil {
		insights = append(insights, Insight{
			ID:    uuid.NewString(),
			Type:  InsightWarning,
			Title: fmt.Sprintf("High Waste Alert: %s", worst.Food),
			Description: fmt.Sprintf(
				"%s shows %d%% average waste across %d servings. Consider smaller portions or menu substitution.",
				worst.Food, int(worst.AvgWastePct), worst.Appearances),
		})
	}

	if best := bestFood(foods); best != nil {
		insights = append(insights, Insight{
			ID:    uuid.NewString(),
			Type:  InsightSuccess,
			Title: fmt.Sprintf("Popular Choice: %s", best.Food),
			Description: fmt.Sprintf(
				"%s has only %d%% waste. Students love this option!",
				best.Food, int(best.AvgWastePct)),
		})
	}

	totals := sumImpact(records)
	insights = append(insights, Insight{
		ID:    uuid.NewString(),
		Type:  InsightInfo,
		Title: "Environmental Impact",
		Description: fmt.Sprintf(
			"%d lbs of food wasted, $%d lost, %d kg CO2 emitted over %d days. Reducing waste by 20%% would save $%d.",
			int(totals.WeightLbs), int(totals.CostUSD), int(totals.CO2Kg), days, int(totals.CostUSD*0.2)),
	})

	if e.costAlertUSD > 0 && totals.CostUSD > e.costAlertUSD {
		insights = append(insights, Insight{
			ID:    uuid.NewString(),
			Type:  InsightWarning,
			Title: "Food Cost Alert",
			Description: fmt.Sprintf(
				"Wasted food cost $%.2f over %d days, above the $%.2f alert level.",
				totals.CostUSD, days, e.costAlertUSD),
		})
	}

	if day, avg, ok := bestWeekday(records); ok {
		insights = append(insights, Insight{
			ID:    uuid.NewString(),
			Type:  InsightInfo,
			Title: fmt.Sprintf("%s Success", day),
			Description: fmt.Sprintf(
				"%s has the lowest waste at %d%%. Consider analyzing this day's menu for successful patterns.",
				day, int(avg)),
		})
	}

	return insights
}

// worstFood picks the highest-waste food that clears both insight
// thresholds. foods is already in canonical sort order, so the first
// qualifying entry is the deterministic winner.
func worstFood(foods []FoodSummary) *FoodSummary {
	for i := range foods {
		if foods[i].Appearances > minServingsForInsight && foods[i].AvgWastePct > highWasteInsightPct {
			return &foods[i]
		}
	}
	return nil
}

// bestFood picks the lowest-waste food served often enough to matter, ties
// broken by name.
func bestFood(foods []FoodSummary) *FoodSummary {
	var best *FoodSummary
	for i := range foods {
		f := &foods[i]
		if f.Appearances <= minServingsForInsight {
			continue
		}
		if best == nil ||
			f.AvgWastePct < best.AvgWastePct ||
			(f.AvgWastePct == best.AvgWastePct && f.Food < best.Food) {
			best = f
		}
	}
	return best
}

// bestWeekday returns the weekday with the lowest mean scan waste, ties
// broken by weekday order starting from Sunday.
func bestWeekday(records []scan.Record) (string, float64, bool) {
	type dayAgg struct {
		totalPct float64
		scans    int
	}
	byDay := make(map[time.Weekday]*dayAgg)
	for _, r := range records {
		wd := r.Timestamp.Weekday()
		a := byDay[wd]
		if a == nil {
			a = &dayAgg{}
			byDay[wd] = a
		}
		a.totalPct += r.AvgWastePct
		a.scans++
	}
	if len(byDay) == 0 {
		return "", 0, false
	}

	days := make([]time.Weekday, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	best := days[0]
	bestAvg := byDay[best].totalPct / float64(byDay[best].scans)
	for _, d := range days[1:] {
		avg := byDay[d].totalPct / float64(byDay[d].scans)
		if avg < bestAvg {
			best, bestAvg = d, avg
		}
	}
	return best.String(), bestAvg, true
}
