package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cuivienor/clipdeck/internal/api"
	"github.com/cuivienor/clipdeck/internal/config"
	"github.com/cuivienor/clipdeck/internal/logging"
	"github.com/cuivienor/clipdeck/internal/tui"
)

// Options holds parsed command-line options
type Options struct {
	ConfigPath string // Explicit config file (optional)
	APIURL     string // Overrides api_url (optional)
	VideoURL   string // Submitted on start (optional)
	LogLevel   string // Overrides log_level (optional)
}

func main() {
	opts, err := ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Usage: clipdeck [-config <path>] [-api <url>] [-url <video>] [-log-level <level>]\n")
		os.Exit(1)
	}

	cfg, err := LoadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run owns the log file for the lifetime of the program so it is closed
// before main exits
func run(cfg *config.Config, opts *Options) error {
	// The TUI owns the terminal, so logs go to a file
	logFile, err := logging.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	log := logging.New(logFile, cfg.Level())
	log.WithFields(logrus.Fields{
		"api_url":       cfg.BaseURL(),
		"poll_interval": cfg.Interval(),
	}).Info("clipdeck starting")

	client := api.NewClient(cfg.BaseURL(), cfg.Timeout())

	var appOpts []tui.Option
	if opts.VideoURL != "" {
		appOpts = append(appOpts, tui.WithURL(opts.VideoURL))
	}
	app := tui.NewApp(cfg, client, log, appOpts...)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.WithError(err).Error("program exited with error")
		return fmt.Errorf("running program: %w", err)
	}
	log.Info("clipdeck stopped")
	return nil
}

// ParseArgs parses command-line arguments
func ParseArgs(args []string) (*Options, error) {
	fs := flag.NewFlagSet("clipdeck", flag.ContinueOnError)

	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&opts.APIURL, "api", "", "Processing service URL")
	fs.StringVar(&opts.VideoURL, "url", "", "YouTube URL to process immediately")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return &opts, nil
}

// LoadConfig reads the config file and applies command-line overrides.
// Flags win over both the file and the environment.
func LoadConfig(opts *Options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	return cfg, nil
}
