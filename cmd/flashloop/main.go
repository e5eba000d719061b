// Command flashloop drives a browser toward a natural-language goal and
// emits a reusable Playwright script of what worked.
//
//	flashloop <goal> [-u|--url <url>] [--headless] [-i|--interactive] [--max-steps <n>]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hazyhaar/flashloop"
	"github.com/hazyhaar/flashloop/internal/planner"
)

func main() {
	os.Exit(run())
}

func run() int {
	logLevel := env("LOG_LEVEL", "info")
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(logLevel)}))
	slog.SetDefault(logger)

	fs := flag.NewFlagSet("flashloop", flag.ContinueOnError)
	startURL := fs.String("url", "", "URL to open before the loop starts")
	fs.StringVar(startURL, "u", "", "URL to open before the loop starts (shorthand)")
	headless := fs.Bool("headless", true, "run the browser without a visible window")
	interactive := fs.Bool("interactive", false, "prompt before each action")
	fs.BoolVar(interactive, "i", false, "prompt before each action (shorthand)")
	maxSteps := fs.Int("max-steps", flashloop.DefaultMaxSteps, "maximum number of actions before giving up")
	outDir := fs.String("out-dir", ".", "directory the generated Playwright script is written to")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return 1
	}
	goal := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if goal == "" {
		fmt.Fprintln(os.Stderr, "flashloop: a goal is required")
		fs.Usage()
		return 1
	}
	if *maxSteps <= 0 {
		fmt.Fprintln(os.Stderr, "flashloop: --max-steps must be positive")
		return 1
	}

	if flashloop.InCI() {
		logger.Error("flashloop: refusing to call out to an LLM in CI (set ALLOW_AI_IN_CI to override)")
		return 1
	}

	cfg := flashloop.LoopConfig{
		Goal:        goal,
		StartURL:    *startURL,
		MaxSteps:    *maxSteps,
		Interactive: *interactive,
		Headless:    *headless,
		OutDir:      *outDir,
		Logger:      logger,
	}
	flashloop.LoadLoopConfigFromEnv(&cfg)
	if cfg.APIKey == "" {
		logger.Error("flashloop: CEREBRAS_API_KEY is required")
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	llmClient, err := planner.NewFromAPIKey(cfg.APIKey, planner.Options{Model: cfg.Model, BaseURL: cfg.BaseURL})
	if err != nil {
		logger.Error("flashloop: build planner client", "error", err)
		return 1
	}

	loop, err := flashloop.NewOwned(ctx, cfg, llmClient)
	if err != nil {
		logger.Error("flashloop: start loop", "error", err)
		return 1
	}

	script, err := loop.Run(ctx)
	if err != nil {
		logger.Error("flashloop: run", "error", err)
		return 1
	}

	logger.Info("flashloop: done")
	fmt.Println(script)
	return 0
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
