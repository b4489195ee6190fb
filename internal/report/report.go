// Package report summarizes decoded forms and renders the summaries as
// JSON, YAML or MessagePack.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-formdata/pkg/formdata"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses s. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, yaml, or msgpack)", s)
	}
}

// ContentType returns the media type of encoded output.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMsgpack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// Header is one part header as received.
type Header struct {
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Value string `json:"value" yaml:"value" msgpack:"value"`
}

// Part summarizes one decoded part. Value is set for text fields only.
type Part struct {
	Name        string   `json:"name" yaml:"name" msgpack:"name"`
	Filename    string   `json:"filename,omitempty" yaml:"filename,omitempty" msgpack:"filename,omitempty"`
	IsFile      bool     `json:"is_file" yaml:"is_file" msgpack:"is_file"`
	ContentType string   `json:"content_type" yaml:"content_type" msgpack:"content_type"`
	Size        int64    `json:"size" yaml:"size" msgpack:"size"`
	Value       string   `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	Path        string   `json:"path,omitempty" yaml:"path,omitempty" msgpack:"path,omitempty"`
	Headers     []Header `json:"headers" yaml:"headers" msgpack:"headers"`
}

// Form summarizes a decoded form.
type Form struct {
	Parts []Part `json:"parts" yaml:"parts" msgpack:"parts"`
}

// Summarize builds the summary of form. Spool paths are omitted because
// they do not outlive the form.
func Summarize(form *formdata.Form) Form {
	out := Form{Parts: make([]Part, 0, len(form.Parts))}
	for _, p := range form.Parts {
		out.Parts = append(out.Parts, SummarizePart(p))
	}
	return out
}

// SummarizePart builds the summary of p.
func SummarizePart(p *formdata.Part) Part {
	s := Part{
		Name:        p.Name(),
		Filename:    p.Filename(),
		IsFile:      p.IsFile(),
		ContentType: p.MIMEType(),
		Size:        p.Size(),
	}
	if !p.IsFile() {
		s.Value = p.Text()
	}
	for _, h := range p.Headers() {
		s.Headers = append(s.Headers, Header{Name: h.Name, Value: h.Value})
	}
	return s
}

// Marshal encodes v in format f.
func Marshal(f Format, v any) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatMsgpack:
		return msgpack.Marshal(v)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
}

// Write encodes v in format f to w.
func Write(w io.Writer, f Format, v any) error {
	b, err := Marshal(f, v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	_, err = w.Write(b)
	return err
}
