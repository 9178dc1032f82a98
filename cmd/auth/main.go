package main

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/sheets/v4"

	"github.com/digitaldrywood/fitsession/internal/config"
	"github.com/digitaldrywood/fitsession/internal/fit"
	"github.com/digitaldrywood/fitsession/internal/google"
	"github.com/digitaldrywood/fitsession/internal/logger"
	"github.com/digitaldrywood/fitsession/internal/session"
)

func main() {
	fmt.Println("=== Fit Session Authentication ===")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(false)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	var extra []string
	if cfg.SpreadsheetID != "" {
		extra = append(extra, sheets.SpreadsheetsScope)
	}

	auth, err := google.NewAuth(cfg.CredentialsPath, cfg.TokenPath, cfg.OAuthRedirectURL, cfg.OAuthTimeout, lg, extra...)
	if err != nil {
		log.Fatalf("Failed to create auth client: %v", err)
	}

	ctx := context.Background()
	caps := fit.DefaultCapabilities()

	ok, err := auth.HasPermissions(ctx, caps)
	if err != nil {
		lg.Warnw("stored credential unreadable, requesting consent", "error", err)
	}
	if !ok {
		res, err := auth.RequestPermissions(ctx, caps)
		if err != nil {
			log.Fatalf("Failed to authenticate: %v", err)
		}
		if res.Code != session.ResultOK {
			log.Fatalf("Authorization was not granted: %s", res.Code)
		}
	}

	fmt.Println("✅ Authentication successful!")
	fmt.Printf("🔑 Granted: %s\n", caps)
	fmt.Printf("📁 Credential stored at %s\n", cfg.TokenPath)
	fmt.Println()
	fmt.Println("You can now run the session:")
	fmt.Println("  make run      - Insert a sample and read the week")
	fmt.Println("  make raw      - Read the inserted stream without buckets")
}
