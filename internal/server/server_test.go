package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dining-waste-tracker/internal/app"
	"dining-waste-tracker/internal/config"
	"dining-waste-tracker/internal/report"
	"dining-waste-tracker/internal/scan"
	"dining-waste-tracker/internal/store"
)

func newTestServer(digest DigestSender) *httptest.Server {
	cfg := &config.Config{
		Port:            "8080",
		DefaultSchoolID: "school_001",
		VisionTimeout:   time.Second,
		CostAlertUSD:    100,
	}
	st := store.New()
	// nil vision: fallback-only analysis, no external calls from tests.
	a := app.NewApp(scan.NewAnalyzer(nil, cfg.VisionTimeout), st)
	srv := New(a, report.NewEngine(st, cfg.CostAlertUSD), cfg, digest)

	mux := http.NewServeMux()
	srv.RegisterHandlers(mux)
	return httptest.NewServer(mux)
}

func platePNG(t *testing.T, foodRows int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if y < foodRows {
				img.Set(x, y, color.RGBA{R: 190, G: 70, B: 40, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func scanRequest(t *testing.T, url string, before, after []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for field, data := range map[string][]byte{"before_image": before, "after_image": after} {
		fw, err := mw.CreateFormFile(field, field+".png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(data)
	}
	mw.WriteField("student_id", "s1")
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, url+"/api/scan", &body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestScanEndpoint(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, err := http.DefaultClient.Do(scanRequest(t, ts.URL, platePNG(t, 16), platePNG(t, 8)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got struct {
		Success bool    `json:"success"`
		ScanID  int     `json:"scan_id"`
		Points  int     `json:"points"`
		AvgPct  float64 `json:"avg_waste_percentage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Success || got.ScanID != 1 {
		t.Errorf("unexpected scan response: %+v", got)
	}
	if got.AvgPct < 0 || got.AvgPct > 100 {
		t.Errorf("avg waste out of range: %v", got.AvgPct)
	}
}

func TestScanEndpointInvalidImage(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, err := http.DefaultClient.Do(scanRequest(t, ts.URL, []byte("not an image"), platePNG(t, 8)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestScanEndpointMissingFile(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("before_image", "before.png")
	fw.Write(platePNG(t, 8))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/scan", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestReportEndpoints(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	for _, path := range []string{
		"/api/daily-report",
		"/api/weekly-report",
		"/api/leaderboard",
		"/api/insights",
		"/api/student-stats?student_id=s1",
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestStudentStatsRequiresID(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/student-stats")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		Status        string `json:"status"`
		GeminiEnabled bool   `json:"gemini_enabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "healthy" || got.GeminiEnabled {
		t.Errorf("unexpected health response: %+v", got)
	}
}

type recordingDigest struct {
	sent int
}

func (d *recordingDigest) SendDaily(rep report.DailyReport, insights []report.Insight) error {
	d.sent++
	return nil
}

func TestDigestEndpoint(t *testing.T) {
	t.Run("NotConfigured", func(t *testing.T) {
		ts := newTestServer(nil)
		defer ts.Close()

		resp, err := http.Post(ts.URL+"/api/digest", "application/json", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", resp.StatusCode)
		}
	})

	t.Run("Configured", func(t *testing.T) {
		digest := &recordingDigest{}
		ts := newTestServer(digest)
		defer ts.Close()

		resp, err := http.Post(ts.URL+"/api/digest", "application/json", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if digest.sent != 1 {
			t.Errorf("digest sent %d times, want 1", digest.sent)
		}
	})
}
