package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dining-waste-tracker/internal/app"
	"dining-waste-tracker/internal/config"
	"dining-waste-tracker/internal/notify"
	"dining-waste-tracker/internal/report"
	"dining-waste-tracker/internal/scan"
	"dining-waste-tracker/internal/server"
	"dining-waste-tracker/internal/store"
	"dining-waste-tracker/internal/vision"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize the vision capability
	var plateVision vision.PlateVision
	if cfg.GeminiAPIKey != "" {
		plateVision, err = vision.NewGeminiVision(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
	} else {
		log.Println("Warning: GEMINI_API_KEY not set. Using fallback detection only.")
	}

	// 3. Initialize core services
	recordStore := store.New()
	analyzer := scan.NewAnalyzer(plateVision, cfg.VisionTimeout)
	application := app.NewApp(analyzer, recordStore)
	reports := report.NewEngine(recordStore, cfg.CostAlertUSD)

	// 4. Initialize the optional staff digest
	var digest server.DigestSender
	if cfg.DigestEnabled() {
		d, err := notify.NewDigest(cfg.TelegramBotToken, cfg.TelegramStaffChatID)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram digest: %v", err)
		}
		digest = d
		log.Println("Telegram staff digest enabled")
	}

	// 5. Start Server with Graceful Shutdown
	mux := http.NewServeMux()
	server.New(application, reports, cfg, digest).RegisterHandlers(mux)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("Waste tracker listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
