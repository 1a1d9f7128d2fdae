// Package app wires the analyzer, gamification, impact and store into the
// scan submission pipeline.
package app

import (
	"context"
	"time"

	"dining-waste-tracker/internal/gamify"
	"dining-waste-tracker/internal/impact"
	"dining-waste-tracker/internal/scan"
	"dining-waste-tracker/internal/store"
)

// App is the core application: the sole mutation entry point plus the
// shared record store.
type App struct {
	analyzer *scan.Analyzer
	store    *store.Store
	now      func() time.Time
}

// NewApp creates the application core.
func NewApp(analyzer *scan.Analyzer, s *store.Store) *App {
	return &App{
		analyzer: analyzer,
		store:    s,
		now:      time.Now,
	}
}

// SubmitScan analyzes a before/after photo pair and stores the resulting
// record. It returns scan.ErrInvalidImage when the images cannot be read;
// in that case nothing is stored. Vision failures are absorbed by the
// analyzer's fallback and never surface here.
func (a *App) SubmitScan(ctx context.Context, beforeImage, afterImage []byte, studentID, schoolID string) (*scan.Record, error) {
	analysis, err := a.analyzer.Analyze(ctx, beforeImage, afterImage)
	if err != nil {
		return nil, err
	}

	avg := scan.AverageWaste(analysis.Items)
	record := a.store.Add(scan.Record{
		Timestamp:         a.now(),
		SchoolID:          schoolID,
		StudentID:         studentID,
		FoodItems:         analysis.Items,
		AvgWastePct:       avg,
		WasteLevel:        gamify.LevelFor(avg),
		Points:            gamify.PointsFor(avg),
		Impact:            impact.ForWeight(scan.TotalWastedOz(analysis.Items)),
		OverallAssessment: analysis.Assessment,
		Tips:              analysis.Tips,
	})
	return &record, nil
}
