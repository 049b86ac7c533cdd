package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/t3ratech/bantora-web/internal/config"
	"github.com/t3ratech/bantora-web/internal/smoke"
)

// RunSmoke starts Playwright and Chromium, runs the smoke suite and reports to out.
// It returns an error when the browser cannot start or any case fails.
func RunSmoke(ctx context.Context, cfg *config.SmokeConfig, out io.Writer) error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close()

	var store smoke.ArtifactStore
	if cfg.S3Bucket != "" {
		s3Store, err := smoke.NewS3Store(ctx, cfg)
		if err != nil {
			return err
		}
		store = s3Store
	}

	return ExecuteSmoke(ctx, browser, smoke.Suite(cfg, nil), cfg, store, out)
}

// ExecuteSmoke runs cases on an already launched browser. When store is set, a screenshot
// written by this run is uploaded; upload failures are logged and do not fail the run.
func ExecuteSmoke(ctx context.Context, browser smoke.Browser, cases []smoke.Case, cfg *config.SmokeConfig, store smoke.ArtifactStore, out io.Writer) error {
	started := time.Now()
	baseURL := cfg.ResolvedBaseURL()
	fmt.Fprintf(out, "Running smoke suite against %s\n", baseURL)

	report := smoke.NewRunner(browser, baseURL, cfg.Timeout).Run(ctx, cases)
	fmt.Fprintln(out, report)

	if store != nil && writtenSince(cfg.ScreenshotPath, started) {
		location, err := store.Upload(ctx, cfg.ScreenshotPath)
		if err != nil {
			log.Printf("Warning: %v", err)
		} else {
			fmt.Fprintf(out, "Uploaded %s to %s\n", cfg.ScreenshotPath, location)
		}
	}

	if failures := report.Failures(); len(failures) > 0 {
		return fmt.Errorf("%d of %d smoke cases failed", len(failures), len(report.Results))
	}
	return nil
}

// writtenSince reports whether path exists and was modified at or after t
func writtenSince(path string, t time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	// Filesystem timestamps can be coarser than the wall clock.
	return !info.ModTime().Before(t.Truncate(time.Second))
}
