package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	SeedPath     string
	InitialCount int
	BatchSize    int
	LoadDelay    time.Duration
	Threshold    int
	RowHeight    int
	Overscan     int
	FilePath     string
	UseStdin     bool
	Follow       bool
	StrictEdit   bool
	Theme        Theme
	ExportFormat string
	ExportOut    string
	ShowVersion  bool

	// Internal
	IsPipedStdin bool
}

// Default returns the configuration used when no flags are given.
func Default() *Config {
	return &Config{
		InitialCount: 50,
		BatchSize:    30,
		LoadDelay:    800 * time.Millisecond,
		Threshold:    6,
		RowHeight:    2,
		Overscan:     10,
		Theme:        ThemeDark,
	}
}

func Load() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse builds a Config from command line arguments and the environment.
func Parse(args []string) (*Config, error) {
	cfg := Default()

	if fi, err := os.Stdin.Stat(); err == nil {
		cfg.IsPipedStdin = (fi.Mode() & os.ModeCharDevice) == 0
	}

	fs := flag.NewFlagSet("empgrid", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.SeedPath, "seed", "", "seed records (JSON array or NDJSON); default built-in")
	fs.IntVar(&cfg.InitialCount, "initial", cfg.InitialCount, "records synthesized at startup after the seed")
	fs.IntVar(&cfg.BatchSize, "batch", getenvDefaultInt("EMPGRID_BATCH", cfg.BatchSize), "records appended per load-more")
	fs.DurationVar(&cfg.LoadDelay, "load-delay", getenvDefaultDuration("EMPGRID_LOAD_DELAY", cfg.LoadDelay), "simulated load-more latency")
	fs.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "lines from the bottom that trigger load-more")
	fs.IntVar(&cfg.RowHeight, "row-height", cfg.RowHeight, "terminal lines per row (1 or 2)")
	fs.IntVar(&cfg.Overscan, "overscan", cfg.Overscan, "rows materialized beyond the visible edge")
	fs.StringVar(&cfg.FilePath, "file", "", "stream extra records from an NDJSON file")
	fs.BoolVar(&cfg.Follow, "follow", false, "follow -file for appended records (tail -f)")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "stream extra records from stdin (default: auto if piped)")
	fs.BoolVar(&cfg.StrictEdit, "strict-edit", false, "require save or cancel before editing another row")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export visible rows: csv|json")
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.UseStdin || (cfg.IsPipedStdin && cfg.FilePath == "") {
		cfg.UseStdin = true
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if c.ExportFormat != "" && c.ExportFormat != "csv" && c.ExportFormat != "json" {
		return fmt.Errorf("unknown export format %q", c.ExportFormat)
	}
	if c.ExportFormat != "" && c.ExportOut == "" {
		return errors.New("--export requires --out path")
	}
	if c.Follow && c.FilePath == "" {
		return errors.New("--follow requires --file")
	}
	if c.InitialCount < 0 || c.BatchSize < 0 {
		return errors.New("--initial and --batch must not be negative")
	}
	if c.RowHeight < 1 {
		c.RowHeight = 1
	}
	if c.RowHeight > 2 {
		c.RowHeight = 2
	}
	if c.Overscan < 0 {
		c.Overscan = 0
	}
	if c.Threshold < 1 {
		c.Threshold = 1
	}
	return nil
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDefaultDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("seed=%s initial=%d batch=%d delay=%s file=%s stdin=%v follow=%v strict=%v theme=%s",
		c.SeedPath, c.InitialCount, c.BatchSize, c.LoadDelay, c.FilePath, c.UseStdin, c.Follow, c.StrictEdit, c.Theme)
}
