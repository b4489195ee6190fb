package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/shapestone/shape-formdata/pkg/formdata"
)

// input is a body source of known length.
type input struct {
	r      *bufio.Reader
	length int64
	close  func() error
}

// openInput opens the file named by the first argument, or standard input
// when there is none or it is "-". Standard input is read fully because
// the decoder needs the body length up front.
func openInput(c *cli.Context) (*input, error) {
	path := c.Args().First()
	if path == "" || path == "-" {
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &input{
			r:      bufio.NewReader(bytes.NewReader(data)),
			length: int64(len(data)),
			close:  func() error { return nil },
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &input{r: bufio.NewReader(f), length: st.Size(), close: f.Close}, nil
}

// boundary returns the --boundary flag, or sniffs it from in.
func (in *input) boundary(c *cli.Context) (string, error) {
	if b := c.String(BoundaryFlag.Name); b != "" {
		return b, nil
	}
	return SniffBoundary(in.r)
}

var errNoDelimiter = errors.New("cannot detect boundary: body does not start with a delimiter line")

// SniffBoundary reads the boundary from the first delimiter line of r
// without consuming anything.
func SniffBoundary(r *bufio.Reader) (string, error) {
	// "--" + 70 boundary characters + CRLF
	line, _ := r.Peek(2 + 70 + 2)
	i := bytes.Index(line, []byte("\r\n"))
	if i < 0 || !bytes.HasPrefix(line, []byte("--")) {
		return "", errNoDelimiter
	}
	b := string(line[2:i])
	if err := formdata.Validate([]byte("--"+b+"--"), b); err != nil {
		return "", fmt.Errorf("%w: %w", errNoDelimiter, err)
	}
	return b, nil
}

// exit converts a decode error to a cli exit error.
func exit(prefix string, err error) error {
	code := ExitError
	if formdata.IsParseError(err) || errors.Is(err, formdata.ErrInvalidBoundary) || errors.Is(err, errNoDelimiter) {
		code = ExitMalformed
	}
	return cli.Exit(fmt.Sprintf("%s: %v", prefix, err), code)
}
