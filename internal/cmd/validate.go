package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/shapestone/shape-formdata/pkg/formdata"
)

// ValidateCommand returns the validate command. It exits 0 for a
// well-formed body and 2 for a malformed one.
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check that a body is well-formed multipart/form-data",
		ArgsUsage: "[FILE|-]",
		Flags:     []cli.Flag{BoundaryFlag},
		Action:    validateAction,
	}
}

func validateAction(c *cli.Context) error {
	in, err := openInput(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitError)
	}
	defer in.close()

	boundary, err := in.boundary(c)
	if err != nil {
		return exit("invalid", err)
	}
	if err := formdata.ValidateReader(in.r, boundary); err != nil {
		return exit("invalid", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, "ok")
	return err
}
