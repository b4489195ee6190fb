// Package cmd provides the commands of the formdata binary.
package cmd

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/shapestone/shape-formdata/internal/config"
	"github.com/shapestone/shape-formdata/internal/logging"
)

// Exit codes.
const (
	ExitError     = 1 // usage, I/O or configuration error
	ExitMalformed = 2 // input is not a well-formed form body
)

var (
	// ConfigFlag names a YAML configuration file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML config file",
		EnvVars: []string{"FORMDATA_CONFIG"},
	}

	// BoundaryFlag sets the boundary. Without it the boundary is taken
	// from the first delimiter line.
	BoundaryFlag = &cli.StringFlag{
		Name:    "boundary",
		Aliases: []string{"b"},
		Usage:   "Multipart boundary (default: read from the first line)",
	}

	// CharsetFlag overrides the configured form charset.
	CharsetFlag = &cli.StringFlag{
		Name:  "charset",
		Usage: "Form charset for header values and field text",
	}

	// FormatFlag selects the output encoding.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, yaml, msgpack",
		Value:   "json",
	}
)

// InputFlags returns the flags shared by commands that read a body.
func InputFlags() []cli.Flag {
	return []cli.Flag{ConfigFlag, BoundaryFlag, CharsetFlag}
}

// loadConfig returns the file configuration, or the defaults when no
// file is named, with command line overrides applied.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(ConfigFlag.Name); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, cli.Exit(err.Error(), ExitError)
		}
	}
	if cs := c.String(CharsetFlag.Name); cs != "" {
		cfg.Charset = cs
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg *config.Config) (*zap.Logger, error) {
	log, err := logging.New(cfg.Log.Level, c.App.ErrWriter)
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitError)
	}
	return log, nil
}
