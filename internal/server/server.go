// Package server exposes the core over HTTP. Handlers are deliberately
// thin: parameter parsing and status codes only, no domain logic.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"dining-waste-tracker/internal/app"
	"dining-waste-tracker/internal/config"
	"dining-waste-tracker/internal/report"
	"dining-waste-tracker/internal/scan"
)

// maxUploadBytes bounds a scan submission (two photos).
const maxUploadBytes = 20 << 20

// DigestSender pushes a daily digest to dining staff.
type DigestSender interface {
	SendDaily(rep report.DailyReport, insights []report.Insight) error
}

// Server holds the handler dependencies.
type Server struct {
	app     *app.App
	reports *report.Engine
	cfg     *config.Config
	digest  DigestSender // nil when not configured
}

// New creates the HTTP server facade. digest may be nil.
func New(a *app.App, reports *report.Engine, cfg *config.Config, digest DigestSender) *Server {
	return &Server{app: a, reports: reports, cfg: cfg, digest: digest}
}

// RegisterHandlers registers all routes on the given mux.
func (s *Server) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/scan", s.handleScan)
	mux.HandleFunc("GET /api/daily-report", s.handleDailyReport)
	mux.HandleFunc("GET /api/weekly-report", s.handleWeeklyReport)
	mux.HandleFunc("GET /api/student-stats", s.handleStudentStats)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/insights", s.handleInsights)
	mux.HandleFunc("POST /api/digest", s.handleDigest)
	mux.HandleFunc("GET /api/health", s.handleHealth)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	before, ok := readFormFile(w, r, "before_image")
	if !ok {
		return
	}
	after, ok := readFormFile(w, r, "after_image")
	if !ok {
		return
	}

	schoolID := r.FormValue("school_id")
	if schoolID == "" {
		schoolID = s.cfg.DefaultSchoolID
	}

	record, err := s.app.SubmitScan(r.Context(), before, after, r.FormValue("student_id"), schoolID)
	if err != nil {
		if errors.Is(err, scan.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, "invalid image format")
			return
		}
		log.Printf("Error processing scan: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to process scan")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"scan_id":              record.ID,
		"food_items":           record.FoodItems,
		"waste_level":          record.WasteLevel,
		"avg_waste_percentage": record.AvgWastePct,
		"points":               record.Points,
		"impact":               record.Impact,
		"overall_assessment":   record.OverallAssessment,
		"tips":                 record.Tips,
	})
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}
	writeJSON(w, http.StatusOK, s.reports.Daily(s.schoolID(r), date))
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	weeksBack, ok := intParam(w, r, "weeks_back", 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.reports.Weekly(s.schoolID(r), weeksBack))
}

func (s *Server) handleStudentStats(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "student_id is required")
		return
	}
	days, ok := intParam(w, r, "days", 7)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.reports.Student(studentID, days))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}
	writeJSON(w, http.StatusOK, s.reports.Rank(s.schoolID(r), period))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(w, r, "days", 30)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"insights": s.reports.Insights(s.schoolID(r), days),
	})
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	if s.digest == nil {
		writeError(w, http.StatusServiceUnavailable, "staff digest is not configured")
		return
	}

	schoolID := s.schoolID(r)
	rep := s.reports.Daily(schoolID, time.Now())
	insights := s.reports.Insights(schoolID, 7)

	if err := s.digest.SendDaily(rep, insights); err != nil {
		log.Printf("Error sending digest: %v", err)
		writeError(w, http.StatusBadGateway, "failed to send digest")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sent": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"service":        "dining-waste-tracker",
		"gemini_enabled": s.cfg.GeminiAPIKey != "",
	})
}

func (s *Server) schoolID(r *http.Request) string {
	if v := r.URL.Query().Get("school_id"); v != "" {
		return v
	}
	return s.cfg.DefaultSchoolID
}

func readFormFile(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	file, _, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, field+" is required")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read "+field)
		return nil, false
	}
	return data, true
}

func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
