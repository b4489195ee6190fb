package formdata

import (
	"io"

	"go.uber.org/zap"

	"github.com/shapestone/shape-formdata/internal/spool"
)

// Form is a fully decoded body. Field names may repeat; lookups by name
// return parts in wire order.
type Form struct {
	Parts []*Part

	byName map[string][]*Part
	names  []string
	reg    *spool.Registry
	log    *zap.Logger
}

func newForm(parts []*Part, reg *spool.Registry, log *zap.Logger) *Form {
	f := &Form{Parts: parts, byName: make(map[string][]*Part), reg: reg, log: log}
	for _, p := range parts {
		name := p.Name()
		if _, seen := f.byName[name]; !seen {
			f.names = append(f.names, name)
		}
		f.byName[name] = append(f.byName[name], p)
	}
	return f
}

// Names returns the distinct field names in order of first appearance.
func (f *Form) Names() []string {
	return f.names
}

// Lookup returns every part named name.
func (f *Form) Lookup(name string) []*Part {
	return f.byName[name]
}

// Value returns the text of the first plain field named name, or "".
func (f *Form) Value(name string) string {
	for _, p := range f.byName[name] {
		if !p.IsFile() {
			return p.Text()
		}
	}
	return ""
}

// Values returns the text of every plain field named name.
func (f *Form) Values(name string) []string {
	var vals []string
	for _, p := range f.byName[name] {
		if !p.IsFile() {
			vals = append(vals, p.Text())
		}
	}
	return vals
}

// Files returns every file part named name.
func (f *Form) Files(name string) []*Part {
	var files []*Part
	for _, p := range f.byName[name] {
		if p.IsFile() {
			files = append(files, p)
		}
	}
	return files
}

// Close removes the form's spool files. Spooled parts are unreadable
// afterwards. It is safe to call more than once.
func (f *Form) Close() error {
	if f.reg == nil {
		return nil
	}
	err := f.reg.Close()
	if err != nil {
		f.log.Warn("spool cleanup failed", zap.Error(err))
	}
	return err
}

// Scan decodes a body, passes the form to fn and removes all spool files
// before returning, whether decoding or fn failed or not. Spooled parts
// must be consumed inside fn.
func Scan(r io.Reader, length int64, boundary string, fn func(*Form) error, opts ...Option) (err error) {
	form, err := NewDecoder(r, length, boundary, opts...).Decode()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := form.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(form)
}
