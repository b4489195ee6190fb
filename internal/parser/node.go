package parser

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

var zeroPos = ast.Position{}

// MediaTypeToNode converts a MediaType to an AST ObjectNode.
func MediaTypeToNode(mt *MediaType) ast.SchemaNode {
	params := make(map[string]ast.SchemaNode, len(mt.Params))
	for k, v := range mt.Params {
		params[k] = ast.NewLiteralNode(v, zeroPos)
	}

	props := map[string]ast.SchemaNode{
		"type":       ast.NewLiteralNode(mt.Type, zeroPos),
		"parameters": ast.NewObjectNode(params, zeroPos),
	}
	if mt.Subtype != "" {
		props["subtype"] = ast.NewLiteralNode(mt.Subtype, zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// NodeToMediaType converts an AST ObjectNode back to a MediaType.
func NodeToMediaType(node ast.SchemaNode) (*MediaType, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("expected ObjectNode, got %T", node)
	}

	props := obj.Properties()
	mt := &MediaType{Params: Params{}}

	if v, ok := props["type"]; ok {
		if lit, ok := v.(*ast.LiteralNode); ok {
			mt.Type, _ = lit.Value().(string)
		}
	}
	if mt.Type == "" {
		return nil, fmt.Errorf("media type node has no type")
	}
	if v, ok := props["subtype"]; ok {
		if lit, ok := v.(*ast.LiteralNode); ok {
			mt.Subtype, _ = lit.Value().(string)
		}
	}
	if v, ok := props["parameters"]; ok {
		params, ok := v.(*ast.ObjectNode)
		if !ok {
			return nil, fmt.Errorf("expected ObjectNode for parameters, got %T", v)
		}
		for k, pv := range params.Properties() {
			if lit, ok := pv.(*ast.LiteralNode); ok {
				if s, ok := lit.Value().(string); ok {
					mt.Params.Set(k, s)
				}
			}
		}
	}

	return mt, nil
}
