package formdata

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Render converts a FormToNode tree back to a multipart/form-data body
// delimited by boundary.
func Render(node ast.SchemaNode, boundary string) ([]byte, error) {
	fields, err := NodeToFields(node)
	if err != nil {
		return nil, fmt.Errorf("formdata: Render: %w", err)
	}
	return Marshal(fields, boundary)
}
