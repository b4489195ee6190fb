package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/shapestone/shape-formdata/internal/report"
	"github.com/shapestone/shape-formdata/pkg/formdata"
)

// VersionResponse is the output of the version command.
type VersionResponse struct {
	Version string `json:"version" yaml:"version" msgpack:"version"`
	Commit  string `json:"commit" yaml:"commit" msgpack:"commit"`
}

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Flags: []cli.Flag{FormatFlag},
		Action: func(c *cli.Context) error {
			format, err := report.ParseFormat(c.String(FormatFlag.Name))
			if err != nil {
				return cli.Exit(err.Error(), ExitError)
			}
			return report.Write(c.App.Writer, format, VersionResponse{
				Version: formdata.Version,
				Commit:  commit,
			})
		},
	}
}
