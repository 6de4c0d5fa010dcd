package csvtable

import (
	"bytes"
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// RenderOptions controls how Render writes CSV text.
type RenderOptions struct {
	// Delimiter separates fields.
	// Default: ','
	Delimiter byte

	// Quote encloses fields that need it and is doubled inside them.
	// Default: '"'
	Quote byte

	// CRLF ends records with \r\n instead of \n.
	CRLF bool
}

// Render converts an AST node to CSV bytes.
//
// The node should be the result of Table.ToAST, or any array of records
// of string literals. Rendering handles:
//   - Quoting of fields containing the delimiter, the quote, CR or LF
//   - Escaping of quotes by doubling them
//   - Preservation of empty fields
//   - A line ending after every record
//
// Example:
//
//	table, _ := csvtable.Parse([]byte("name;age\nAlice;30\n"), csvtable.Options{Delimiter: ';'})
//	out, _ := csvtable.Render(table.ToAST(), csvtable.RenderOptions{Delimiter: ';'})
//	// out: name;age\nAlice;30\n
func Render(node ast.SchemaNode, opts RenderOptions) ([]byte, error) {
	if node == nil {
		return []byte{}, nil
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}

	r := renderer{delim: opts.Delimiter, quote: opts.Quote, lineEnding: "\n"}
	if opts.CRLF {
		r.lineEnding = "\r\n"
	}
	if err := r.node(node); err != nil {
		return nil, err
	}
	return r.buf.Bytes(), nil
}

type renderer struct {
	buf        bytes.Buffer
	delim      byte
	quote      byte
	lineEnding string
}

// node recursively renders an AST node to the buffer.
func (r *renderer) node(node ast.SchemaNode) error {
	switch n := node.(type) {
	case *ast.ArrayDataNode:
		return r.array(n)
	case *ast.LiteralNode:
		r.literal(n)
		return nil
	default:
		return fmt.Errorf("unsupported node type for CSV rendering: %T", node)
	}
}

// array renders both the file level (array of records) and the record
// level (array of fields).
func (r *renderer) array(node *ast.ArrayDataNode) error {
	elements := node.Elements()
	if len(elements) == 0 {
		return nil
	}

	switch elements[0].(type) {
	case *ast.ArrayDataNode:
		for _, elem := range elements {
			if err := r.node(elem); err != nil {
				return err
			}
			r.buf.WriteString(r.lineEnding)
		}
		return nil

	case *ast.LiteralNode:
		for i, elem := range elements {
			if i > 0 {
				r.buf.WriteByte(r.delim)
			}
			if err := r.node(elem); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unexpected element type in array: %T", elements[0])
	}
}

// literal writes one field, quoting it when it holds a structural byte.
func (r *renderer) literal(node *ast.LiteralNode) {
	var value string
	switch v := node.Value().(type) {
	case string:
		value = v
	case nil:
	default:
		value = fmt.Sprintf("%v", v)
	}

	if !r.needsQuoting(value) {
		r.buf.WriteString(value)
		return
	}
	r.buf.WriteByte(r.quote)
	for i := 0; i < len(value); i++ {
		if value[i] == r.quote {
			r.buf.WriteByte(r.quote)
		}
		r.buf.WriteByte(value[i])
	}
	r.buf.WriteByte(r.quote)
}

func (r *renderer) needsQuoting(value string) bool {
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case r.delim, r.quote, '\n', '\r':
			return true
		}
	}
	return false
}
