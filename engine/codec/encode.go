package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
)

// nilNode is the tag byte marking an absent child.
const nilNode = 0xFF

type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *encoder) u16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *encoder) u32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) i32(v int32) {
	e.u32(uint32(v))
}

func (e *encoder) f64(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

// str writes a length-prefixed string. The empty string and an absent
// string are indistinguishable on the wire; both carry a zero length.
func (e *encoder) str(s string) {
	if len(s) > math.MaxUint16 {
		s = s[:math.MaxUint16]
	}
	e.u16(uint16(len(s)))
	e.buf = append(e.buf, s...)
}

// node recursively encodes one node: tag byte, line number, then the
// kind-specific fields. nil encodes as a single sentinel byte.
func (e *encoder) node(n ast.Node) error {
	if n == nil {
		e.u8(nilNode)
		return nil
	}

	e.u8(uint8(n.Kind()))
	e.u32(uint32(n.Line()))

	switch n := n.(type) {
	case *ast.AskQuery:
		return e.nodes(nodeOrNil(n.Source), nodeOrNil(n.Fields), n.Condition,
			nodeOrNil(n.GroupBy), nodeOrNil(n.OrderBy), nodeOrNil(n.Limit))

	case *ast.TellQuery:
		return e.nodes(nodeOrNil(n.Source), n.Action, n.Condition)

	case *ast.FindQuery:
		return e.nodes(nodeOrNil(n.Source), n.Condition,
			nodeOrNil(n.GroupBy), nodeOrNil(n.OrderBy), nodeOrNil(n.Limit))

	case *ast.ShowQuery:
		return e.nodes(nodeOrNil(n.Source), nodeOrNil(n.Fields), n.Condition,
			nodeOrNil(n.GroupBy), nodeOrNil(n.OrderBy), nodeOrNil(n.Limit))

	case *ast.GetQuery:
		return e.nodes(nodeOrNil(n.Source), nodeOrNil(n.Fields), n.Condition,
			nodeOrNil(n.GroupBy), nodeOrNil(n.OrderBy), nodeOrNil(n.Limit))

	case *ast.FieldList:
		e.u16(uint16(len(n.Fields)))
		for _, f := range n.Fields {
			if err := e.node(f); err != nil {
				return err
			}
		}
		return nil

	case *ast.Source:
		var name string
		if n.Identifier != nil {
			name = n.Identifier.Name
		}
		e.str(name)
		if n.Join != nil {
			e.u8(1)
			return e.node(n.Join)
		}
		e.u8(0)
		return nil

	case *ast.Join:
		return e.nodes(nodeOrNil(n.Source), n.Condition)

	case *ast.GroupBy:
		return e.nodes(nodeOrNil(n.Fields), n.Having)

	case *ast.OrderBy:
		e.u16(uint16(len(n.Fields)))
		for i, f := range n.Fields {
			if err := e.node(f); err != nil {
				return err
			}
			asc := uint8(0)
			if i < len(n.Ascending) && n.Ascending[i] {
				asc = 1
			}
			e.u8(asc)
		}
		return nil

	case *ast.Limit:
		e.i32(int32(n.Count))
		e.i32(int32(n.Offset))
		return nil

	case *ast.AddAction:
		return e.nodes(n.Value, nodeOrNil(n.RecordSpec))

	case *ast.RemoveAction:
		return e.node(n.Condition)

	case *ast.UpdateAction:
		e.u16(uint16(len(n.Fields)))
		for i, f := range n.Fields {
			if err := e.node(f); err != nil {
				return err
			}
			var value ast.Node
			if i < len(n.Values) {
				value = n.Values[i]
			}
			if err := e.node(value); err != nil {
				return err
			}
		}
		return nil

	case *ast.CreateAction:
		e.u16(uint16(len(n.FieldDefs)))
		for _, fd := range n.FieldDefs {
			if err := e.node(fd); err != nil {
				return err
			}
		}
		return nil

	case *ast.FieldDef:
		if err := e.node(nodeOrNil(n.Name)); err != nil {
			return err
		}
		e.str(n.Type)
		e.u16(uint16(len(n.Constraints)))
		for _, c := range n.Constraints {
			if err := e.node(c); err != nil {
				return err
			}
		}
		return nil

	case *ast.Constraint:
		e.u8(uint8(n.Type))
		return e.node(n.DefaultValue)

	case *ast.BinaryExpr:
		e.u8(uint8(n.Op))
		return e.nodes(n.Left, n.Right)

	case *ast.UnaryExpr:
		e.u8(uint8(n.Op))
		return e.node(n.Operand)

	case *ast.Identifier:
		e.str(n.Name)
		return nil

	case *ast.Literal:
		e.u8(uint8(n.LitKind))
		if n.LitKind == lexer.TOKEN_STRING {
			e.str(n.Str)
		} else {
			e.f64(n.Num)
		}
		return nil

	case *ast.FunctionCall:
		e.str(n.Name)
		e.u16(uint16(len(n.Args)))
		for _, a := range n.Args {
			if err := e.node(a); err != nil {
				return err
			}
		}
		return nil

	case *ast.ErrorNode:
		e.str(n.Message)
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNotEncodable, n.Kind())
}

func (e *encoder) nodes(children ...ast.Node) error {
	for _, c := range children {
		if err := e.node(c); err != nil {
			return err
		}
	}
	return nil
}

// metadata appends the fixed-layout metadata block: hints, priority,
// engine, estimated rows, timeout, target index name. nil writes the
// defaults.
func (e *encoder) metadata(m *ExecutionMetadata) {
	if m == nil {
		d := DefaultMetadata()
		m = &d
	}
	e.u16(uint16(m.Hints))
	e.u8(m.Priority)
	e.u8(uint8(m.Engine))
	e.u32(m.EstimatedRows)
	e.u32(m.TimeoutMS)
	e.str(m.TargetIndex)
}

// nodeOrNil converts a typed nil pointer into a true nil interface so the
// sentinel check in node stays a plain comparison.
func nodeOrNil[T any, P interface {
	*T
	ast.Node
}](n P) ast.Node {
	if n == nil {
		return nil
	}
	return n
}
