package commands

import (
	stderrors "errors"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/markview/internal/config"
)

// DefaultConfigPath is used when neither --config nor MARKVIEW_CONFIG is set.
const DefaultConfigPath = "markview.yaml"

// Global is shared with every command. Commands replace Logger once the
// configured logger is known so the error adapter reports through it.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"markview.yaml" env:"MARKVIEW_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve  ServeCmd  `cmd:"" default:"withargs" help:"Serve Markdown files over HTTP (default)"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
	Routes RoutesCmd `cmd:"" help:"Print the resolved routing table and stylesheets"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig loads the configuration file. A missing file at the default
// location is not an error: the built-in defaults are used instead.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" || path == DefaultConfigPath {
		if _, err := os.Stat(DefaultConfigPath); stderrors.Is(err, os.ErrNotExist) {
			slog.Debug("No configuration file, using defaults", "path", DefaultConfigPath)
			return config.Default()
		}
		path = DefaultConfigPath
	}
	return config.Load(path)
}
