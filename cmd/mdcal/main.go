package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"

	"mdcal/internal/capture"
	"mdcal/internal/config"
	"mdcal/internal/ics"
	appLog "mdcal/internal/log"
	"mdcal/internal/markdown"
	"mdcal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	output     string
	icalOnly   bool
	htmlOnly   bool
	serve      bool
	listen     string
	preview    bool
	configPath string
	verbose    bool
}

func main() {
	flags, input := parseFlags()

	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	if input == "" {
		fmt.Fprintln(os.Stderr, "usage: mdcal [flags] <input.md>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if flags.icalOnly && flags.htmlOnly {
		fmt.Fprintln(os.Stderr, "mdcal: -ical-only and -html-only are mutually exclusive")
		os.Exit(2)
	}

	cfg := config.DefaultConfig()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			appLog.Error("failed to load config", err, "config_path", flags.configPath)
			os.Exit(1)
		}
		cfg = loaded
	}
	// CLI -listen overrides the config file if provided.
	if flags.listen != "" {
		cfg.Listen = flags.listen
	}

	// Output base defaults to the input file name without extension and
	// doubles as the displayed document title unless the config says
	// otherwise.
	outputBase := flags.output
	if outputBase == "" {
		base := filepath.Base(input)
		outputBase = strings.TrimSuffix(base, filepath.Ext(base))
	}
	title := cfg.Title
	if title == "" {
		title = filepath.Base(outputBase)
	}

	job := generateJob{
		input:      input,
		outputBase: outputBase,
		title:      title,
		withICal:   !flags.htmlOnly,
		withHTML:   !flags.icalOnly,
	}

	res, err := job.run()
	if err != nil {
		appLog.Error("generation failed", err, "input", input)
		os.Exit(1)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.preview && job.withHTML {
		pngPath := outputBase + ".png"
		err := capture.SnapshotPNG(ctx, capture.Options{
			HTMLPath:   res.htmlPath,
			OutputPath: pngPath,
			Width:      cfg.PreviewWidth,
			Height:     cfg.PreviewHeight,
		})
		if err != nil {
			appLog.Error("preview capture failed", err, "path", pngPath)
			os.Exit(1)
		}
		appLog.Info("preview written", "path", pngPath)
	}

	if !flags.serve {
		return
	}

	server := web.NewServer()
	server.Update(res.html, res.ical, res.icalName)

	// Periodic refresh: re-read and re-render the input on the configured
	// schedule, keeping the last good artifacts when a refresh fails.
	c := cron.New()
	if _, err := c.AddFunc(cfg.RefreshCron, func() {
		r, err := job.run()
		if err != nil {
			appLog.Error("refresh failed; keeping previous artifacts", err, "input", input)
			return
		}
		server.Update(r.html, r.ical, r.icalName)
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", cfg.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	if err := server.ListenAndServe(ctx, cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("server failed", err, "listen", cfg.Listen)
		os.Exit(1)
	}
}

// generateJob is one full input-to-artifacts pass. In serve mode the same
// job runs again on every refresh tick.
type generateJob struct {
	input      string
	outputBase string
	title      string
	withICal   bool
	withHTML   bool
}

type artifacts struct {
	html     []byte
	ical     []byte
	icalName string
	htmlPath string
}

func (j generateJob) run() (artifacts, error) {
	appLog.Info("parsing input", "path", j.input)

	data, err := os.ReadFile(j.input)
	if err != nil {
		return artifacts{}, err
	}

	events, err := markdown.Parse(string(data))
	if err != nil {
		return artifacts{}, err
	}
	appLog.Info("events extracted", "count", len(events))

	var out artifacts

	if j.withICal {
		doc := ics.Renderer{}.Render(events)
		path := j.outputBase + ".ics"
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			return artifacts{}, err
		}
		out.ical = []byte(doc)
		out.icalName = filepath.Base(path)
		appLog.Info("calendar written", "path", path)
	}

	if j.withHTML {
		page, err := web.Render(events, web.RenderOptions{
			Title:        j.title,
			ICalFilename: out.icalName,
		})
		if err != nil {
			return artifacts{}, err
		}
		path := j.outputBase + ".html"
		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			return artifacts{}, err
		}
		out.html = []byte(page)
		out.htmlPath = path
		appLog.Info("page written", "path", path)
	}

	return out, nil
}

func parseFlags() (flagConfig, string) {
	var cfg flagConfig

	flag.StringVar(&cfg.output, "o", "", "Output base name (without extension)")
	flag.BoolVar(&cfg.icalOnly, "ical-only", false, "Generate only the iCal output")
	flag.BoolVar(&cfg.htmlOnly, "html-only", false, "Generate only the HTML output")
	flag.BoolVar(&cfg.serve, "serve", false, "Serve the generated outputs over HTTP and refresh on a schedule")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address for -serve (overrides config if set)")
	flag.BoolVar(&cfg.preview, "preview", false, "Capture a PNG snapshot of the HTML output")
	flag.StringVar(&cfg.configPath, "config", "", "Path to optional YAML config file")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg, flag.Arg(0)
}
