// Command hellotriangle opens a window and draws a rotating, vertex-colored
// triangle. With -headless it renders in software and can write the last
// frame to a PNG file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/internal/app"
	"github.com/gogpu/hellotriangle/internal/shader"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("hellotriangle", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "YAML config file")
		width       = fs.Int("width", 640, "window width")
		height      = fs.Int("height", 480, "window height")
		title       = fs.String("title", "Hello Triangle", "window title")
		headless    = fs.Bool("headless", false, "render in software without a window")
		frames      = fs.Int("frames", 1, "frames to render in headless mode")
		start       = fs.Float64("start", 0, "headless clock start in seconds")
		step        = fs.Float64("step", 1.0/60, "headless clock step in seconds")
		output      = fs.String("output", "", "write the last headless frame to this PNG file")
		supersample = fs.Int("supersample", 2, "headless supersampling factor")
		logLevel    = fs.String("log-level", "info", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := hellotriangle.DefaultConfig()
	if *configPath != "" {
		loaded, err := hellotriangle.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hellotriangle: %v\n", err)
			return 2
		}
		cfg = loaded
	}

	// Flags given on the command line override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg = cfg.WithSize(*width, cfg.Height)
		case "height":
			cfg = cfg.WithSize(cfg.Width, *height)
		case "title":
			cfg = cfg.WithTitle(*title)
		case "headless":
			cfg = cfg.WithHeadless(*headless)
		case "frames":
			cfg = cfg.WithFrames(*frames)
		case "start":
			cfg = cfg.WithClock(*start, cfg.Step)
		case "step":
			cfg = cfg.WithClock(cfg.Start, *step)
		case "output":
			cfg = cfg.WithOutput(*output)
		case "supersample":
			cfg = cfg.WithSupersample(*supersample)
		case "log-level":
			cfg = cfg.WithLogLevel(*logLevel)
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "hellotriangle: %v\n", err)
		return 2
	}
	level, _ := hellotriangle.ParseLevel(cfg.LogLevel)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	hellotriangle.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.Run(ctx, cfg)
	var (
		ce *shader.CompileError
		le *shader.LinkError
	)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, hellotriangle.ErrInvalidConfig):
		log.Error("invalid configuration", "err", err)
		return 2
	case errors.As(err, &ce):
		log.Error("shader compile failed", "stage", ce.Stage.String(), "log", ce.Log)
	case errors.As(err, &le):
		log.Error("shader link failed", "log", le.Log)
	default:
		log.Error("hellotriangle failed", "err", err)
	}
	return 1
}
