package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/mapping"
)

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.pos
}

func (d *decoder) u8() (uint8, error) {
	if d.remaining() < 1 {
		return 0, ErrTruncated
	}
	v := d.data[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) u16() (uint16, error) {
	if d.remaining() < 2 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if d.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) i32() (int32, error) {
	v, err := d.u32()
	return int32(v), err
}

func (d *decoder) f64() (float64, error) {
	if d.remaining() < 8 {
		return 0, ErrTruncated
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.pos:]))
	d.pos += 8
	return v, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u16()
	if err != nil {
		return "", err
	}
	if d.remaining() < int(n) {
		return "", ErrTruncated
	}
	s := string(d.data[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

// node reads one encoded node, recursing into children. A 0xFF tag yields
// a nil node.
func (d *decoder) node() (ast.Node, error) {
	tag, err := d.u8()
	if err != nil {
		return nil, err
	}
	if tag == nilNode {
		return nil, nil
	}

	line32, err := d.u32()
	if err != nil {
		return nil, err
	}
	line := int(line32)

	switch ast.NodeType(tag) {
	case ast.NodeAskQuery:
		n := &ast.AskQuery{LineNo: line}
		if n.Source, err = d.sourceNode(); err != nil {
			return nil, err
		}
		if n.Fields, err = d.fieldListNode(); err != nil {
			return nil, err
		}
		if n.Condition, err = d.node(); err != nil {
			return nil, err
		}
		return n, d.queryTail(&n.GroupBy, &n.OrderBy, &n.Limit)

	case ast.NodeTellQuery:
		n := &ast.TellQuery{LineNo: line}
		if n.Source, err = d.sourceNode(); err != nil {
			return nil, err
		}
		if n.Action, err = d.node(); err != nil {
			return nil, err
		}
		n.Condition, err = d.node()
		return n, err

	case ast.NodeFindQuery:
		n := &ast.FindQuery{LineNo: line}
		if n.Source, err = d.sourceNode(); err != nil {
			return nil, err
		}
		if n.Condition, err = d.node(); err != nil {
			return nil, err
		}
		return n, d.queryTail(&n.GroupBy, &n.OrderBy, &n.Limit)

	case ast.NodeShowQuery:
		n := &ast.ShowQuery{LineNo: line}
		if n.Source, err = d.sourceNode(); err != nil {
			return nil, err
		}
		if n.Fields, err = d.fieldListNode(); err != nil {
			return nil, err
		}
		if n.Condition, err = d.node(); err != nil {
			return nil, err
		}
		return n, d.queryTail(&n.GroupBy, &n.OrderBy, &n.Limit)

	case ast.NodeGetQuery:
		n := &ast.GetQuery{LineNo: line}
		if n.Source, err = d.sourceNode(); err != nil {
			return nil, err
		}
		if n.Fields, err = d.fieldListNode(); err != nil {
			return nil, err
		}
		if n.Condition, err = d.node(); err != nil {
			return nil, err
		}
		return n, d.queryTail(&n.GroupBy, &n.OrderBy, &n.Limit)

	case ast.NodeFieldList:
		n := &ast.FieldList{LineNo: line}
		count, err := d.u16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			id, err := d.identifierNode()
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, id)
		}
		return n, nil

	case ast.NodeSource:
		n := &ast.Source{LineNo: line}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		// The source identifier's own line is not carried on the wire.
		n.Identifier = &ast.Identifier{LineNo: line, Name: name}
		hasJoin, err := d.u8()
		if err != nil {
			return nil, err
		}
		if hasJoin != 0 {
			join, err := d.node()
			if err != nil {
				return nil, err
			}
			j, ok := join.(*ast.Join)
			if !ok {
				return nil, fmt.Errorf("%w: source join is %T", ErrTruncated, join)
			}
			n.Join = j
		}
		return n, nil

	case ast.NodeJoin:
		n := &ast.Join{LineNo: line}
		if n.Source, err = d.sourceNode(); err != nil {
			return nil, err
		}
		n.Condition, err = d.node()
		return n, err

	case ast.NodeGroupBy:
		n := &ast.GroupBy{LineNo: line}
		if n.Fields, err = d.fieldListNode(); err != nil {
			return nil, err
		}
		n.Having, err = d.node()
		return n, err

	case ast.NodeOrderBy:
		n := &ast.OrderBy{LineNo: line}
		count, err := d.u16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			id, err := d.identifierNode()
			if err != nil {
				return nil, err
			}
			asc, err := d.u8()
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, id)
			n.Ascending = append(n.Ascending, asc != 0)
		}
		return n, nil

	case ast.NodeLimit:
		n := &ast.Limit{LineNo: line}
		count, err := d.i32()
		if err != nil {
			return nil, err
		}
		offset, err := d.i32()
		if err != nil {
			return nil, err
		}
		n.Count, n.Offset = int(count), int(offset)
		return n, nil

	case ast.NodeAddAction:
		n := &ast.AddAction{LineNo: line}
		if n.Value, err = d.node(); err != nil {
			return nil, err
		}
		n.RecordSpec, err = d.fieldListNode()
		return n, err

	case ast.NodeRemoveAction:
		n := &ast.RemoveAction{LineNo: line}
		n.Condition, err = d.node()
		return n, err

	case ast.NodeUpdateAction:
		n := &ast.UpdateAction{LineNo: line}
		count, err := d.u16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			field, err := d.identifierNode()
			if err != nil {
				return nil, err
			}
			value, err := d.node()
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, field)
			n.Values = append(n.Values, value)
		}
		return n, nil

	case ast.NodeCreateAction:
		n := &ast.CreateAction{LineNo: line}
		count, err := d.u16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			child, err := d.node()
			if err != nil {
				return nil, err
			}
			fd, ok := child.(*ast.FieldDef)
			if !ok {
				return nil, fmt.Errorf("%w: create action holds %T", ErrTruncated, child)
			}
			n.FieldDefs = append(n.FieldDefs, fd)
		}
		return n, nil

	case ast.NodeFieldDef:
		n := &ast.FieldDef{LineNo: line}
		if n.Name, err = d.identifierNode(); err != nil {
			return nil, err
		}
		if n.Type, err = d.str(); err != nil {
			return nil, err
		}
		count, err := d.u16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			child, err := d.node()
			if err != nil {
				return nil, err
			}
			c, ok := child.(*ast.Constraint)
			if !ok {
				return nil, fmt.Errorf("%w: field def holds %T", ErrTruncated, child)
			}
			n.Constraints = append(n.Constraints, c)
		}
		return n, nil

	case ast.NodeConstraint:
		n := &ast.Constraint{LineNo: line}
		typ, err := d.u8()
		if err != nil {
			return nil, err
		}
		n.Type = ast.ConstraintType(typ)
		n.DefaultValue, err = d.node()
		return n, err

	case ast.NodeBinaryExpr:
		n := &ast.BinaryExpr{LineNo: line}
		op, err := d.u8()
		if err != nil {
			return nil, err
		}
		n.Op = lexer.TokenKind(op)
		if n.Left, err = d.node(); err != nil {
			return nil, err
		}
		n.Right, err = d.node()
		return n, err

	case ast.NodeUnaryExpr:
		n := &ast.UnaryExpr{LineNo: line}
		op, err := d.u8()
		if err != nil {
			return nil, err
		}
		n.Op = lexer.TokenKind(op)
		n.Operand, err = d.node()
		return n, err

	case ast.NodeIdentifier:
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		return &ast.Identifier{LineNo: line, Name: name}, nil

	case ast.NodeLiteral:
		n := &ast.Literal{LineNo: line}
		kind, err := d.u8()
		if err != nil {
			return nil, err
		}
		n.LitKind = lexer.TokenKind(kind)
		if n.LitKind == lexer.TOKEN_STRING {
			n.Str, err = d.str()
		} else {
			n.Num, err = d.f64()
		}
		return n, err

	case ast.NodeFunctionCall:
		n := &ast.FunctionCall{LineNo: line}
		if n.Name, err = d.str(); err != nil {
			return nil, err
		}
		count, err := d.u16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			arg, err := d.node()
			if err != nil {
				return nil, err
			}
			n.Args = append(n.Args, arg)
		}
		return n, nil

	case ast.NodeError:
		msg, err := d.str()
		if err != nil {
			return nil, err
		}
		return &ast.ErrorNode{LineNo: line, Message: msg}, nil
	}

	return nil, fmt.Errorf("codec: unknown node tag 0x%02X", tag)
}

func (d *decoder) queryTail(groupBy **ast.GroupBy, orderBy **ast.OrderBy, limit **ast.Limit) error {
	child, err := d.node()
	if err != nil {
		return err
	}
	if child != nil {
		g, ok := child.(*ast.GroupBy)
		if !ok {
			return fmt.Errorf("%w: group-by slot holds %T", ErrTruncated, child)
		}
		*groupBy = g
	}
	child, err = d.node()
	if err != nil {
		return err
	}
	if child != nil {
		o, ok := child.(*ast.OrderBy)
		if !ok {
			return fmt.Errorf("%w: order-by slot holds %T", ErrTruncated, child)
		}
		*orderBy = o
	}
	child, err = d.node()
	if err != nil {
		return err
	}
	if child != nil {
		l, ok := child.(*ast.Limit)
		if !ok {
			return fmt.Errorf("%w: limit slot holds %T", ErrTruncated, child)
		}
		*limit = l
	}
	return nil
}

func (d *decoder) sourceNode() (*ast.Source, error) {
	child, err := d.node()
	if err != nil || child == nil {
		return nil, err
	}
	s, ok := child.(*ast.Source)
	if !ok {
		return nil, fmt.Errorf("%w: source slot holds %T", ErrTruncated, child)
	}
	return s, nil
}

func (d *decoder) fieldListNode() (*ast.FieldList, error) {
	child, err := d.node()
	if err != nil || child == nil {
		return nil, err
	}
	f, ok := child.(*ast.FieldList)
	if !ok {
		return nil, fmt.Errorf("%w: field-list slot holds %T", ErrTruncated, child)
	}
	return f, nil
}

func (d *decoder) identifierNode() (*ast.Identifier, error) {
	child, err := d.node()
	if err != nil || child == nil {
		return nil, err
	}
	id, ok := child.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("%w: identifier slot holds %T", ErrTruncated, child)
	}
	return id, nil
}

// metadata reads the fixed-layout metadata block.
func (d *decoder) metadata() (*ExecutionMetadata, error) {
	var m ExecutionMetadata
	hints, err := d.u16()
	if err != nil {
		return nil, err
	}
	m.Hints = mapping.Hint(hints)
	priority, err := d.u8()
	if err != nil {
		return nil, err
	}
	m.Priority = priority
	engine, err := d.u8()
	if err != nil {
		return nil, err
	}
	m.Engine = mapping.Engine(engine)
	if m.EstimatedRows, err = d.u32(); err != nil {
		return nil, err
	}
	if m.TimeoutMS, err = d.u32(); err != nil {
		return nil, err
	}
	if m.TargetIndex, err = d.str(); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeTree decodes the full syntax tree and metadata from a verified
// record. Records that failed checksum verification refuse to decode.
func (r *Record) DecodeTree() (ast.Node, *ExecutionMetadata, error) {
	if !r.Valid {
		return nil, nil, ErrChecksum
	}
	return r.DecodeTreeUnchecked()
}

// DecodeTreeUnchecked decodes the payload without requiring a valid
// checksum, so corrupted records can still be inspected.
func (r *Record) DecodeTreeUnchecked() (ast.Node, *ExecutionMetadata, error) {
	d := &decoder{data: r.Payload}
	node, err := d.node()
	if err != nil {
		return nil, nil, err
	}
	meta, err := d.metadata()
	if err != nil {
		return nil, nil, err
	}
	return node, meta, nil
}

// ExtractMetadata decodes only the metadata block of a verified record.
// The tree is still walked to locate the block, since the metadata sits
// after the variable-length tree encoding.
func (r *Record) ExtractMetadata() (*ExecutionMetadata, error) {
	_, meta, err := r.DecodeTree()
	return meta, err
}
