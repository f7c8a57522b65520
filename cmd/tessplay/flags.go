package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/opd-ai/go-tessplay/internal/config"
	"github.com/opd-ai/go-tessplay/internal/render"
	"github.com/opd-ai/go-tessplay/internal/vg"
	"github.com/opd-ai/go-tessplay/pkg/tessplay"
)

var errHelp = errors.New("help requested")

// cliOptions holds the parsed command line. set records the flags given
// explicitly, which override values from the configuration file.
type cliOptions struct {
	configPath   string
	bundlePath   string
	artboard     int
	stateMachine string
	fit          string
	align        string
	background   string
	title        string
	width        int
	height       int
	tps          int
	flipY        bool
	watch        bool
	hud          bool

	cpuProfile  string
	memProfile  string
	trace       string
	memWatch    bool
	metricsAddr string

	logLevel string
	jsonLogs bool
	version  bool

	set map[string]bool
}

func parseFlags(args []string) (*cliOptions, error) {
	return parseFlagsTo(args, os.Stderr)
}

func parseFlagsTo(args []string, output io.Writer) (*cliOptions, error) {
	o := &cliOptions{set: map[string]bool{}}
	fs := flag.NewFlagSet("tessplay", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, "Usage: tessplay [flags] [bundle]")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.configPath, "c", "", "Path to Lua configuration file")
	fs.StringVar(&o.bundlePath, "bundle", "", "Path to the animation bundle (YAML or TOML)")
	fs.IntVar(&o.artboard, "artboard", 0, "Index of the artboard shown first")
	fs.StringVar(&o.stateMachine, "state-machine", "", "Name of the state machine to play")
	fs.StringVar(&o.fit, "fit", "contain", "Fit mode: fill, contain, cover, fitWidth, fitHeight, none, scaleDown")
	fs.StringVar(&o.align, "align", "center", "Alignment, e.g. center or top_left")
	fs.StringVar(&o.background, "background", "", "Background color (#rrggbb or a color name)")
	fs.StringVar(&o.title, "title", config.DefaultTitle, "Window title")
	fs.IntVar(&o.width, "width", config.DefaultWidth, "Window width")
	fs.IntVar(&o.height, "height", config.DefaultHeight, "Window height")
	fs.IntVar(&o.tps, "tps", config.DefaultTPS, "Ticks per second")
	fs.BoolVar(&o.flipY, "flip-y", false, "Use a Y-up coordinate space")
	fs.BoolVar(&o.watch, "watch", false, "Reload the bundle when it changes on disk")
	fs.BoolVar(&o.hud, "hud", false, "Show the statistics overlay")

	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&o.memProfile, "memprofile", "", "Write memory profile to file")
	fs.StringVar(&o.trace, "trace", "", "Write execution trace to file")
	fs.BoolVar(&o.memWatch, "memwatch", false, "Log sustained heap growth")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve expvar metrics on this address")

	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&o.jsonLogs, "json", false, "Write logs as JSON")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errHelp
		}
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	switch fs.NArg() {
	case 0:
	case 1:
		o.bundlePath = fs.Arg(0)
		o.set["bundle"] = true
	default:
		return nil, fmt.Errorf("expected at most one bundle argument, got %d", fs.NArg())
	}
	return o, nil
}

// loadConfig reads the configuration file, if any, and applies the flags
// given on the command line over it.
func loadConfig(o *cliOptions) (*config.Config, error) {
	var cfg *config.Config
	if o.configPath != "" {
		parsed, err := config.ParseFile(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	} else {
		def := config.DefaultConfig()
		cfg = &def
	}
	if err := o.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *cliOptions) apply(cfg *config.Config) error {
	if o.set["bundle"] {
		cfg.Bundle.Path = o.bundlePath
	}
	if o.set["artboard"] {
		cfg.Bundle.Artboard = o.artboard
	}
	if o.set["state-machine"] {
		cfg.Bundle.StateMachine = o.stateMachine
	}
	if o.set["watch"] {
		cfg.Bundle.Watch = o.watch
	}
	if o.set["width"] {
		cfg.Window.Width = o.width
	}
	if o.set["height"] {
		cfg.Window.Height = o.height
	}
	if o.set["title"] {
		cfg.Window.Title = o.title
	}
	if o.set["tps"] {
		cfg.Display.TPS = o.tps
	}
	if o.set["flip-y"] {
		cfg.Display.FlipY = o.flipY
	}
	if o.set["hud"] {
		cfg.Display.ShowHUD = o.hud
	}
	if o.set["fit"] {
		fit, err := vg.ParseFit(o.fit)
		if err != nil {
			return fmt.Errorf("-fit: %w", err)
		}
		cfg.Display.Fit = fit
	}
	if o.set["align"] {
		a, err := vg.ParseAlignment(o.align)
		if err != nil {
			return fmt.Errorf("-align: %w", err)
		}
		cfg.Display.Alignment = a
	}
	if o.set["background"] {
		c, err := vg.ParseColor(o.background)
		if err != nil {
			return fmt.Errorf("-background: %w", err)
		}
		cfg.Display.Background = c.RGBA()
	}
	return nil
}

func newLogger(level string, json bool) *tessplay.SlogAdapter {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: l}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return tessplay.NewSlogAdapter(slog.New(handler))
}

func playerOptions(cfg *config.Config, logger tessplay.Logger, metrics *tessplay.Metrics) *tessplay.Options {
	opts := tessplay.DefaultOptions()
	opts.Artboard = cfg.Bundle.Artboard
	opts.StateMachine = cfg.Bundle.StateMachine
	opts.Watch = cfg.Bundle.Watch
	opts.Fit = cfg.Display.Fit
	opts.Alignment = cfg.Display.Alignment
	opts.FlipY = cfg.Display.FlipY
	opts.Logger = logger
	opts.Metrics = metrics
	return &opts
}

func renderConfig(cfg *config.Config) render.Config {
	return render.Config{
		Width:           cfg.Window.Width,
		Height:          cfg.Window.Height,
		Title:           cfg.Window.Title,
		BackgroundColor: cfg.Display.Background,
		TPS:             cfg.Display.TPS,
		AntiAlias:       cfg.Display.AntiAlias,
		ShowHUD:         cfg.Display.ShowHUD,
		Resizable:       cfg.Window.Resizable,
	}
}
