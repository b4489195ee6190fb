package cmd

import (
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/shapestone/shape-formdata/internal/server"
)

// ServeCommand returns the serve command.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP decode service",
		Flags: []cli.Flag{
			ConfigFlag,
			CharsetFlag,
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides server.addr)",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Options:         cfg.Options(),
		Logger:          log,
	})
	if err := srv.Run(ctx); err != nil {
		return cli.Exit(err.Error(), ExitError)
	}
	return nil
}

