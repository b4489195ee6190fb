package formdata

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"

	"github.com/shapestone/shape-formdata/internal/parser"
)

var zeroPos = ast.Position{}

// FormToNode converts a form to an AST ObjectNode:
//
//	{ "parts": [
//	    { "name": "title", "file": false, "size": 5, "mimeType": "text/plain",
//	      "headers": [{"key": "Content-Disposition", "value": "form-data; name=title"}],
//	      "disposition": {"type": "form-data", "parameters": {"name": "title"}},
//	      "value": "Hello" },
//	    { "name": "upload", "filename": "a.png", "file": true, "size": 812,
//	      "mimeType": "image/png", "path": "/tmp/formdata-...", ... } ] }
//
// In-memory bodies appear as "value"; spooled bodies as "path".
func FormToNode(form *Form) ast.SchemaNode {
	elements := make([]ast.SchemaNode, len(form.Parts))
	for i, p := range form.Parts {
		elements[i] = PartToNode(p)
	}
	return ast.NewObjectNode(map[string]ast.SchemaNode{
		"parts": ast.NewArrayDataNode(elements, zeroPos),
	}, zeroPos)
}

// PartToNode converts one part to an AST ObjectNode. See FormToNode.
func PartToNode(p *Part) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"name":        ast.NewLiteralNode(p.Name(), zeroPos),
		"file":        ast.NewLiteralNode(p.IsFile(), zeroPos),
		"size":        ast.NewLiteralNode(p.Size(), zeroPos),
		"mimeType":    ast.NewLiteralNode(p.MIMEType(), zeroPos),
		"headers":     headersToNode(p.Headers()),
		"disposition": parser.MediaTypeToNode(p.Disposition().MediaType()),
	}
	if fn := p.Filename(); fn != "" {
		props["filename"] = ast.NewLiteralNode(fn, zeroPos)
	}
	if ct := p.ContentType(); ct != nil {
		props["contentType"] = parser.MediaTypeToNode(ct)
	}
	if path := p.Path(); path != "" {
		props["path"] = ast.NewLiteralNode(path, zeroPos)
	} else {
		props["value"] = ast.NewLiteralNode(p.Text(), zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// NodeToInterface converts an AST node to native Go types.
func NodeToInterface(node ast.SchemaNode) interface{} {
	switch n := node.(type) {
	case *ast.LiteralNode:
		return n.Value()
	case *ast.ArrayDataNode:
		elements := n.Elements()
		arr := make([]interface{}, len(elements))
		for i, elem := range elements {
			arr[i] = NodeToInterface(elem)
		}
		return arr
	case *ast.ObjectNode:
		props := n.Properties()
		m := make(map[string]interface{}, len(props))
		for k, v := range props {
			m[k] = NodeToInterface(v)
		}
		return m
	default:
		return nil
	}
}

// NodeToFields converts a FormToNode tree back to encodable fields. Parts
// whose body was spooled have no value and are rejected.
func NodeToFields(node ast.SchemaNode) ([]Field, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("formdata: expected ObjectNode, got %T", node)
	}
	arr, ok := obj.Properties()["parts"].(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("formdata: missing 'parts' array")
	}

	elements := arr.Elements()
	fields := make([]Field, 0, len(elements))
	for i, elem := range elements {
		po, ok := elem.(*ast.ObjectNode)
		if !ok {
			return nil, fmt.Errorf("formdata: part %d: expected ObjectNode, got %T", i, elem)
		}
		props := po.Properties()

		f := Field{Name: literalString(props["name"]), Filename: literalString(props["filename"])}
		if f.Name == "" {
			return nil, fmt.Errorf("formdata: part %d: missing name", i)
		}
		if ctNode, ok := props["contentType"]; ok {
			ct, err := parser.NodeToMediaType(ctNode)
			if err != nil {
				return nil, fmt.Errorf("formdata: part %d: %w", i, err)
			}
			f.ContentType = ct.Essence()
		}
		value, ok := props["value"].(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("formdata: part %d (%s): no in-memory value", i, f.Name)
		}
		s, _ := value.Value().(string)
		f.Body = []byte(s)
		fields = append(fields, f)
	}
	return fields, nil
}

func headersToNode(headers []Header) ast.SchemaNode {
	elements := make([]ast.SchemaNode, len(headers))
	for i, h := range headers {
		elements[i] = ast.NewObjectNode(map[string]ast.SchemaNode{
			"key":   ast.NewLiteralNode(h.Name, zeroPos),
			"value": ast.NewLiteralNode(h.Value, zeroPos),
		}, zeroPos)
	}
	return ast.NewArrayDataNode(elements, zeroPos)
}

func literalString(node ast.SchemaNode) string {
	lit, ok := node.(*ast.LiteralNode)
	if !ok {
		return ""
	}
	s, _ := lit.Value().(string)
	return s
}
