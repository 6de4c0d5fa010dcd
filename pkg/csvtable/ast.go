package csvtable

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// ToAST converts the table to Shape's unified AST representation:
//   - *ast.ArrayDataNode for the table (array of records)
//   - each record is an *ast.ArrayDataNode of fields
//   - each field is an *ast.LiteralNode holding a string
//
// The header record, when present, comes first. Absent trailing fields of
// ragged records are left out.
func (t *Table) ToAST() *ast.ArrayDataNode {
	records := make([]ast.SchemaNode, 0, t.frame.Rows)
	if t.header {
		records = append(records, recordNode(t.names))
	}
	for r := 0; r < t.Rows(); r++ {
		records = append(records, recordNode(t.Record(r)))
	}
	return ast.NewArrayDataNode(records, ast.ZeroPosition())
}

func recordNode(fields []string) *ast.ArrayDataNode {
	nodes := make([]ast.SchemaNode, len(fields))
	for i, f := range fields {
		nodes[i] = ast.NewLiteralNode(f, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(nodes, ast.ZeroPosition())
}

// NodeRecords converts an AST produced by ToAST, or by any Shape CSV parser,
// back into records.
func NodeRecords(node ast.SchemaNode) ([][]string, error) {
	table, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	elements := table.Elements()
	records := make([][]string, 0, len(elements))
	for _, elem := range elements {
		recordNode, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("expected record to be *ast.ArrayDataNode, got %T", elem)
		}

		fields := make([]string, 0, recordNode.Len())
		for _, fieldNode := range recordNode.Elements() {
			literal, ok := fieldNode.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("expected field to be *ast.LiteralNode, got %T", fieldNode)
			}
			value, ok := literal.Value().(string)
			if !ok {
				return nil, fmt.Errorf("expected field value to be string, got %T", literal.Value())
			}
			fields = append(fields, value)
		}
		records = append(records, fields)
	}
	return records, nil
}
