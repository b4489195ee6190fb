// Package spool tracks the temporary files a decode writes file bodies to.
//
// A Registry is the single owner of every file it creates. Close removes all
// of them; it is safe to call on every exit path and more than once.
package spool

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned by Create after the registry has been disposed.
var ErrClosed = errors.New("spool: registry closed")

// Registry owns the temporary files of one decode session.
type Registry struct {
	dir string
	id  string
	log *zap.Logger

	mu     sync.Mutex
	files  []*File
	closed bool
}

// New returns a registry creating files in dir (os.TempDir() when empty).
// A nil logger disables logging.
func New(dir string, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Registry{
		dir: dir,
		id:  id,
		log: log.With(zap.String("session", id)),
	}
}

// ID returns the session id embedded in every file name.
func (r *Registry) ID() string {
	return r.id
}

// Create opens a new temporary file and registers it.
func (r *Registry) Create() (*File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	f, err := os.CreateTemp(r.dir, "formdata-"+r.id+"-*")
	if err != nil {
		return nil, fmt.Errorf("spool: create temp file: %w", err)
	}
	sf := &File{f: f, w: bufio.NewWriter(f), path: f.Name()}
	r.files = append(r.files, sf)
	r.log.Debug("spool file created", zap.String("path", sf.path))
	return sf, nil
}

// Len returns the number of files created so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// Paths returns the paths of every registered file, in creation order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, len(r.files))
	for i, f := range r.files {
		paths[i] = f.path
	}
	return paths
}

// Close closes any open handles and deletes every registered file. Only the
// first call does work; later calls return nil.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	files := r.files
	r.files = nil
	r.mu.Unlock()

	var errList []error
	for _, f := range files {
		if err := f.release(); err != nil {
			r.log.Warn("spool file close failed", zap.String("path", f.path), zap.Error(err))
			errList = append(errList, err)
		}
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.log.Warn("spool file remove failed", zap.String("path", f.path), zap.Error(err))
			errList = append(errList, err)
		}
	}
	r.log.Debug("spool disposed", zap.Int("files", len(files)))
	return errors.Join(errList...)
}

// File is a registered temporary file being written.
type File struct {
	f    *os.File
	w    *bufio.Writer
	path string
	size int64
	done bool
}

// Write appends p to the file.
func (f *File) Write(p []byte) (int, error) {
	if f.done {
		return 0, os.ErrClosed
	}
	n, err := f.w.Write(p)
	f.size += int64(n)
	return n, err
}

// Path returns the file's location on disk.
func (f *File) Path() string {
	return f.path
}

// Finish flushes and closes the handle. The file stays on disk, owned by the
// registry, until the registry is closed.
func (f *File) Finish() (path string, size int64, err error) {
	if err := f.release(); err != nil {
		return "", 0, fmt.Errorf("spool: finish %s: %w", f.path, err)
	}
	return f.path, f.size, nil
}

func (f *File) release() error {
	if f.done {
		return nil
	}
	f.done = true
	ferr := f.w.Flush()
	cerr := f.f.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
