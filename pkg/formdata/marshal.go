package formdata

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// bufPool pools []byte slices for Marshal.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// NewBoundary returns a random boundary suitable for Marshal.
func NewBoundary() string {
	return "formdata" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Marshal returns the multipart/form-data encoding of fields delimited by
// boundary. The result decodes back to the same fields.
func Marshal(fields []Field, boundary string) ([]byte, error) {
	if err := checkBoundary(boundary); err != nil {
		return nil, err
	}

	bp := bufPool.Get().(*[]byte)
	buf := (*bp)[:0]
	defer func() {
		*bp = buf[:0]
		bufPool.Put(bp)
	}()

	var err error
	for i, f := range fields {
		if i > 0 {
			buf = appendCRLF(buf)
		}
		if buf, err = appendField(buf, boundary, f); err != nil {
			return nil, err
		}
	}
	if len(fields) > 0 {
		buf = appendCRLF(buf)
	}
	buf = appendFinal(buf, boundary)

	result := make([]byte, len(buf))
	copy(result, buf)
	return result, nil
}
