// Package smoke runs the browser smoke checks against a running Bantora web front.
package smoke

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/t3ratech/bantora-web/internal/config"
)

// Browser is the part of playwright.Browser the runner needs
type Browser interface {
	NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error)
}

// Result is the outcome of one case
type Result struct {
	Case     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the case succeeded
func (r Result) Passed() bool {
	return r.Err == nil
}

func (r Result) String() string {
	if r.Err == nil {
		return fmt.Sprintf("PASS  %s (%v)", r.Case, r.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("FAIL  %s (%v) [%s] %v", r.Case, r.Duration.Round(time.Millisecond), Kind(r.Err), r.Err)
}

// Report collects the results of a run in case order
type Report struct {
	Results []Result
}

// Passed reports whether every case succeeded
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return true
}

// Failures returns the failed results
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Passed() {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) String() string {
	var b strings.Builder
	for _, res := range r.Results {
		b.WriteString(res.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d passed, %d failed", len(r.Results)-len(r.Failures()), len(r.Failures()))
	return b.String()
}

// Runner executes cases one at a time, each in a fresh browser context
type Runner struct {
	browser Browser
	baseURL string
	timeout time.Duration
	logger  *log.Logger
}

// NewRunner creates a runner that resolves relative navigation against baseURL.
// timeout is the default for every driver action.
func NewRunner(browser Browser, baseURL string, timeout time.Duration) *Runner {
	return &Runner{
		browser: browser,
		baseURL: baseURL,
		timeout: timeout,
		logger:  log.New(os.Stdout, "[SMOKE] ", log.LstdFlags),
	}
}

// Suite returns the smoke cases configured by cfg. A nil assert uses the driver's retrying title assertion.
func Suite(cfg *config.SmokeConfig, assert TitleAsserter) []Case {
	if assert == nil {
		assert = PlaywrightTitleAsserter(cfg.Timeout)
	}
	return []Case{
		HasTitle(assert),
		ShowsPolls(cfg.SettleDelay, cfg.ScreenshotPath),
	}
}

// Run executes cases in order. A failing case does not stop later ones;
// once ctx is done the remaining cases fail without touching the browser.
func (r *Runner) Run(ctx context.Context, cases []Case) *Report {
	report := &Report{}
	for _, c := range cases {
		res := r.RunCase(ctx, c)
		r.logger.Println(res)
		report.Results = append(report.Results, res)
	}
	return report
}

// RunCase executes one case in its own browser context and closes the context afterwards
func (r *Runner) RunCase(ctx context.Context, c Case) Result {
	start := time.Now()
	err := r.runCase(ctx, c)
	return Result{Case: c.Name, Err: err, Duration: time.Since(start)}
}

func (r *Runner) runCase(ctx context.Context, c Case) (err error) {
	if err := ctx.Err(); err != nil {
		return operationError("start case", err)
	}

	bctx, err := r.browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(r.baseURL),
	})
	if err != nil {
		return operationError("create browser context", err)
	}
	defer func() {
		if closeErr := bctx.Close(); closeErr != nil && err == nil {
			err = operationError("close browser context", closeErr)
		}
	}()
	bctx.SetDefaultTimeout(float64(r.timeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		return operationError("open page", err)
	}

	for _, step := range c.Steps {
		if err := ctx.Err(); err != nil {
			return operationError(step.Name, err)
		}
		if err := step.Do(ctx, page); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}
