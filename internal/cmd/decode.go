package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/shapestone/shape-formdata/internal/report"
	"github.com/shapestone/shape-formdata/pkg/formdata"
)

// DecodeCommand returns the decode command.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a multipart/form-data body and print its parts",
		ArgsUsage: "[FILE|-]",
		Flags: append(InputFlags(),
			FormatFlag,
			&cli.StringFlag{
				Name:    "extract",
				Aliases: []string{"x"},
				Usage:   "Write file parts into `DIR`",
			},
		),
		Action: decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(c.String(FormatFlag.Name))
	if err != nil {
		return cli.Exit(err.Error(), ExitError)
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	in, err := openInput(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitError)
	}
	defer in.close()

	boundary, err := in.boundary(c)
	if err != nil {
		return exit("decode", err)
	}

	var out report.Form
	dir := c.String("extract")
	opts := append(cfg.Options(), formdata.WithLogger(log))
	err = formdata.Scan(in.r, in.length, boundary, func(form *formdata.Form) error {
		out = report.Summarize(form)
		if dir == "" {
			return nil
		}
		return extract(form, dir, &out, log)
	}, opts...)
	if err != nil {
		return exit("decode", err)
	}
	return report.Write(c.App.Writer, format, out)
}

// extract copies every file part into dir under the base name of its
// submitted filename and records the destination in out.
func extract(form *formdata.Form, dir string, out *report.Form, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, p := range form.Parts {
		if !p.IsFile() {
			continue
		}
		name := filepath.Base(filepath.Clean("/" + p.Filename()))
		if name == "/" || name == "." {
			name = fmt.Sprintf("part-%d", i)
		}
		dest := filepath.Join(dir, name)
		if err := copyPart(p, dest); err != nil {
			return fmt.Errorf("extract %s: %w", p.Filename(), err)
		}
		log.Debug("extracted", zap.String("field", p.Name()), zap.String("path", dest))
		out.Parts[i].Path = dest
	}
	return nil
}

func copyPart(p *formdata.Part, dest string) (err error) {
	src, err := p.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(f, src)
	return err
}
