// Package report computes read-side aggregates over the scan record store:
// daily and weekly dining-hall reports, per-student stats, leaderboards and
// staff insights. Every query over an empty window returns a zero-valued
// structure, never an error.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"dining-waste-tracker/internal/gamify"
	"dining-waste-tracker/internal/impact"
	"dining-waste-tracker/internal/scan"
	"dining-waste-tracker/internal/store"
)

const (
	maxFoodsPerReport   = 10
	maxFoodsToAvoid     = 5
	maxLeaderboardSize  = 50
	avoidWasteThreshold = 30 // personal avg waste pct above which a food is flagged
)

// Engine answers aggregate queries against the store.
type Engine struct {
	store        *store.Store
	costAlertUSD float64
	now          func() time.Time
}

// NewEngine creates an aggregation engine. costAlertUSD is the total-cost
// level above which Insights emits a warning card.
func NewEngine(s *store.Store, costAlertUSD float64) *Engine {
	return &Engine{store: s, costAlertUSD: costAlertUSD, now: time.Now}
}

// FoodSummary aggregates one food across the scans of a reporting window.
type FoodSummary struct {
	Food           string        `json:"food"`
	Appearances    int           `json:"appearances"`
	AvgWastePct    float64       `json:"avg_waste_pct"`
	TotalWastedOz  float64       `json:"total_wasted_oz"`
	Category       scan.Category `json:"category"`
	Recommendation string        `json:"recommendation,omitempty"`
}

// DailyReport is the per-day dish-level breakdown for one school.
type DailyReport struct {
	Date        string         `json:"date"`
	SchoolID    string         `json:"school_id"`
	TotalScans  int            `json:"total_scans"`
	AvgWastePct float64        `json:"avg_waste_pct"`
	Totals      impact.Metrics `json:"totals"`
	ByFood      []FoodSummary  `json:"by_food"`
}

// DayStats is one day's slice of a weekly report.
type DayStats struct {
	Date        string  `json:"date"`
	Scans       int     `json:"scans"`
	AvgWastePct float64 `json:"avg_waste_pct"`
	CostUSD     float64 `json:"cost_usd"`
}

// WeeklyReport covers a 7-day window with week-over-week comparison.
// ChangeFromPriorPct is nil when the prior week had no scans.
type WeeklyReport struct {
	WeekStart          string        `json:"week_start"`
	WeekEnd            string        `json:"week_end"`
	TotalScans         int           `json:"total_scans"`
	AvgWastePct        float64       `json:"avg_waste_pct"`
	ChangeFromPriorPct *float64      `json:"change_from_prior_week_pct"`
	DailyBreakdown     []DayStats    `json:"daily_breakdown"`
	TopOffenders       []FoodSummary `json:"top_offenders"`
	Recommendations    []string      `json:"recommendations"`
}

// StudentStats summarizes one student's trailing window.
type StudentStats struct {
	StudentID    string           `json:"student_id"`
	PeriodDays   int              `json:"period_days"`
	TotalScans   int              `json:"total_scans"`
	TotalPoints  int              `json:"total_points"`
	AvgWastePct  float64          `json:"avg_waste_pct"`
	TotalImpact  impact.Metrics   `json:"total_impact"`
	FoodsToAvoid []FoodSummary    `json:"foods_to_avoid"`
	Badge        gamify.Badge     `json:"badge"`
	NextGoal     gamify.Milestone `json:"next_goal"`
}

// LeaderboardEntry is one ranked student.
type LeaderboardEntry struct {
	Rank        int          `json:"rank"`
	StudentID   string       `json:"student_id"`
	TotalPoints int          `json:"total_points"`
	Scans       int          `json:"scans"`
	AvgWastePct float64      `json:"avg_waste_pct"`
	Badge       gamify.Badge `json:"badge"`
}

// Leaderboard ranks the students of a school over a period.
type Leaderboard struct {
	Period  string             `json:"period"`
	Entries []LeaderboardEntry `json:"leaderboard"`
}

// Daily builds the dish-level waste report for one school and calendar day.
func (e *Engine) Daily(schoolID string, date time.Time) DailyReport {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	records := e.store.Filter(store.Query{
		SchoolID: schoolID,
		From:     dayStart,
		To:       dayStart.AddDate(0, 0, 1),
	})

	rep := DailyReport{
		Date:     dayStart.Format("2006-01-02"),
		SchoolID: schoolID,
		ByFood:   []FoodSummary{},
	}
	if len(records) == 0 {
		return rep
	}

	rep.TotalScans = len(records)
	rep.AvgWastePct = round1(meanScanWaste(records))
	rep.Totals = sumImpact(records)
	rep.ByFood = summarizeFoods(records, true, maxFoodsPerReport, 0)
	return rep
}

// Weekly builds the report for the 7-day window ending weeksBack weeks
// before now, with a comparison against the preceding 7 days.
func (e *Engine) Weekly(schoolID string, weeksBack int) WeeklyReport {
	end := e.now().AddDate(0, 0, -7*weeksBack)
	start := end.AddDate(0, 0, -7)

	records := e.store.Filter(store.Query{SchoolID: schoolID, From: start, To: end})
	prior := e.store.Filter(store.Query{SchoolID: schoolID, From: start.AddDate(0, 0, -7), To: start})

	rep := WeeklyReport{
		WeekStart:       start.Format("2006-01-02"),
		WeekEnd:         end.Format("2006-01-02"),
		DailyBreakdown:  []DayStats{},
		TopOffenders:    []FoodSummary{},
		Recommendations: []string{},
	}
	if len(records) == 0 {
		return rep
	}

	rep.TotalScans = len(records)
	rep.AvgWastePct = round1(meanScanWaste(records))
	rep.DailyBreakdown = dailyBreakdown(records)
	rep.TopOffenders = summarizeFoods(records, false, maxFoodsPerReport, 0)
	rep.Recommendations = weeklyRecommendations(rep.TopOffenders)

	if len(prior) > 0 {
		priorAvg := meanScanWaste(prior)
		if priorAvg != 0 {
			change := round1((meanScanWaste(records) - priorAvg) / priorAvg * 100)
			rep.ChangeFromPriorPct = &change
		}
	}
	return rep
}

// Student summarizes a student's scans over the trailing days window.
func (e *Engine) Student(studentID string, days int) StudentStats {
	records := e.store.Filter(store.Query{
		StudentID: studentID,
		From:      e.now().AddDate(0, 0, -days),
	})

	stats := StudentStats{
		StudentID:    studentID,
		PeriodDays:   days,
		FoodsToAvoid: []FoodSummary{},
	}
	if len(records) == 0 {
		return stats
	}

	for _, r := range records {
		stats.TotalPoints += r.Points
		stats.TotalImpact = stats.TotalImpact.Add(r.Impact)
	}
	stats.TotalScans = len(records)
	avg := meanScanWaste(records)
	stats.AvgWastePct = round2(avg)
	stats.FoodsToAvoid = summarizeFoods(records, false, maxFoodsToAvoid, avoidWasteThreshold)
	stats.Badge = gamify.BadgeFor(avg)
	stats.NextGoal = gamify.NextMilestone(stats.TotalPoints)
	return stats
}

// Rank computes the school leaderboard for period "week", "month" or "all".
// Records without a student id do not participate.
func (e *Engine) Rank(schoolID, period string) Leaderboard {
	q := store.Query{SchoolID: schoolID}
	switch period {
	case "week":
		q.From = e.now().AddDate(0, 0, -7)
	case "month":
		q.From = e.now().AddDate(0, 0, -30)
	default:
		period = "all"
	}
	records := e.store.Filter(q)

	type studentAgg struct {
		points   int
		scans    int
		totalPct float64
	}
	agg := make(map[string]*studentAgg)
	for _, r := range records {
		if r.StudentID == "" {
			continue
		}
		a := agg[r.StudentID]
		if a == nil {
			a = &studentAgg{}
			agg[r.StudentID] = a
		}
		a.points += r.Points
		a.scans++
		a.totalPct += r.AvgWastePct
	}

	entries := make([]LeaderboardEntry, 0, len(agg))
	for id, a := range agg {
		avg := a.totalPct / float64(a.scans)
		entries = append(entries, LeaderboardEntry{
			StudentID:   id,
			TotalPoints: a.points,
			Scans:       a.scans,
			AvgWastePct: round1(avg),
			Badge:       gamify.BadgeFor(avg),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if entries[i].AvgWastePct != entries[j].AvgWastePct {
			return entries[i].AvgWastePct < entries[j].AvgWastePct
		}
		return entries[i].StudentID < entries[j].StudentID
	})

	if len(entries) > maxLeaderboardSize {
		entries = entries[:maxLeaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return Leaderboard{Period: period, Entries: entries}
}

// foodAgg accumulates per-food figures keyed by normalized name.
type foodAgg struct {
	name     string // display name, first seen
	count    int
	totalPct float64
	totalOz  float64
	category scan.Category
}

// summarizeFoods groups the food items of records by normalized name and
// returns summaries sorted descending by average waste, ties broken by
// descending appearances then ascending name. minAvgPct filters out foods
// at or below the threshold; withRecommendation adds the staff rule text.
// A limit of 0 or less means no cap.
func summarizeFoods(records []scan.Record, withRecommendation bool, limit int, minAvgPct float64) []FoodSummary {
	aggs := make(map[string]*foodAgg)
	order := []string{}
	for _, r := range records {
		for _, item := range r.FoodItems {
			key := normalizeFoodName(item.Name)
			a := aggs[key]
			if a == nil {
				a = &foodAgg{name: item.Name, category: item.Category}
				aggs[key] = a
				order = append(order, key)
			}
			a.count++
			a.totalPct += item.WastePercentage
			a.totalOz += item.EstimatedWeightOz
		}
	}

	summaries := []FoodSummary{}
	for _, key := range order {
		a := aggs[key]
		avg := a.totalPct / float64(a.count)
		if avg <= minAvgPct && minAvgPct > 0 {
			continue
		}
		s := FoodSummary{
			Food:          a.name,
			Appearances:   a.count,
			AvgWastePct:   round1(avg),
			TotalWastedOz: round2(a.totalOz),
			Category:      a.category,
		}
		if withRecommendation {
			s.Recommendation = foodRecommendation(avg)
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].AvgWastePct != summaries[j].AvgWastePct {
			return summaries[i].AvgWastePct > summaries[j].AvgWastePct
		}
		if summaries[i].Appearances != summaries[j].Appearances {
			return summaries[i].Appearances > summaries[j].Appearances
		}
		return summaries[i].Food < summaries[j].Food
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}

// foodRecommendation is the fixed staff rule set for a food's average waste.
func foodRecommendation(avgWaste float64) string {
	switch {
	case avgWaste > 50:
		return fmt.Sprintf("High waste (%d%%). Consider removing or replacing this item.", int(avgWaste))
	case avgWaste >= 25:
		return fmt.Sprintf("Moderate waste (%d%%). Consider a portion adjustment.", int(avgWaste))
	default:
		return fmt.Sprintf("Popular item (%d%% waste). Maintain current approach.", int(avgWaste))
	}
}

func weeklyRecommendations(topOffenders []FoodSummary) []string {
	recs := []string{}
	if len(topOffenders) > 0 && topOffenders[0].AvgWastePct > 40 {
		recs = append(recs, fmt.Sprintf(
			"Priority: Address %s (avg waste: %.1f%%). Consider portion reduction or menu replacement.",
			topOffenders[0].Food, topOffenders[0].AvgWastePct))
	}
	recs = append(recs,
		"Implement 'start small, come back' signage at serving stations.",
		"Survey students on portion preferences for high-waste items.",
		"Share weekly waste data with students to increase awareness.",
	)
	return recs
}

func dailyBreakdown(records []scan.Record) []DayStats {
	type dayAgg struct {
		scans    int
		totalPct float64
		cost     float64
	}
	days := make(map[string]*dayAgg)
	for _, r := range records {
		key := r.Timestamp.Format("2006-01-02")
		a := days[key]
		if a == nil {
			a = &dayAgg{}
			days[key] = a
		}
		a.scans++
		a.totalPct += r.AvgWastePct
		a.cost += r.Impact.CostUSD
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	breakdown := make([]DayStats, 0, len(keys))
	for _, k := range keys {
		a := days[k]
		breakdown = append(breakdown, DayStats{
			Date:        k,
			Scans:       a.scans,
			AvgWastePct: round1(a.totalPct / float64(a.scans)),
			CostUSD:     round2(a.cost),
		})
	}
	return breakdown
}

func meanScanWaste(records []scan.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for _, r := range records {
		total += r.AvgWastePct
	}
	return total / float64(len(records))
}

func sumImpact(records []scan.Record) impact.Metrics {
	var total impact.Metrics
	for _, r := range records {
		total = total.Add(r.Impact)
	}
	return total
}

func normalizeFoodName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
