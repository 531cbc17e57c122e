// Package capture renders the generated HTML page to a PNG using a
// headless Chromium instance.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	DefaultWidth   = 1280
	DefaultHeight  = 1600
	defaultTimeout = 30 * time.Second
)

// Options defines parameters for a page snapshot.
type Options struct {
	// HTMLPath is the page to load, served via file://.
	HTMLPath string

	// OutputPath is where the PNG will be written.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. Zero values
	// use DefaultWidth / DefaultHeight.
	Width  int
	Height int

	// Timeout bounds the entire snapshot operation.
	Timeout time.Duration
}

// SnapshotPNG loads the page, waits for the document to be ready and writes
// a full-page screenshot to opts.OutputPath.
func SnapshotPNG(parentCtx context.Context, opts Options) error {
	if opts.HTMLPath == "" {
		return fmt.Errorf("capture: HTMLPath is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	abs, err := filepath.Abs(opts.HTMLPath)
	if err != nil {
		return fmt.Errorf("capture: resolve path: %w", err)
	}
	url := "file://" + abs

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Small extra delay to allow final paints.
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	return nil
}
