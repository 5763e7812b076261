package render

import (
	"fmt"
	"strings"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
)

// DOT renders the tree as a GraphViz digraph. Each node becomes a labeled
// box; edges carry the child's role name.
func DOT(node ast.Node) string {
	var b strings.Builder
	b.WriteString("digraph nsql_ast {\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")
	d := &dotWriter{b: &b}
	d.emit(node)
	b.WriteString("}\n")
	return b.String()
}

type dotWriter struct {
	b    *strings.Builder
	next int
}

func (d *dotWriter) emit(node ast.Node) int {
	id := d.next
	d.next++

	if node == nil {
		fmt.Fprintf(d.b, "  n%d [label=\"null\", style=dashed];\n", id)
		return id
	}

	fmt.Fprintf(d.b, "  n%d [label=\"%s\"];\n", id, dotEscape(dotLabel(node)))

	for _, c := range dotChildren(node) {
		if c.node == nil && !c.showNil {
			continue
		}
		child := d.emit(c.node)
		fmt.Fprintf(d.b, "  n%d -> n%d [label=\"%s\"];\n", id, child, dotEscape(c.role))
	}
	return id
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func dotLabel(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Identifier:
		return "identifier\n" + n.Name
	case *ast.Literal:
		switch n.LitKind {
		case lexer.TOKEN_STRING:
			return "literal\n" + n.Str
		default:
			return fmt.Sprintf("literal\n%g", n.Num)
		}
	case *ast.BinaryExpr:
		return "binary_expr\n" + lexer.OperatorString(n.Op)
	case *ast.UnaryExpr:
		return "unary_expr\n" + lexer.OperatorString(n.Op)
	case *ast.Limit:
		return fmt.Sprintf("limit\n%d+%d", n.Count, n.Offset)
	case *ast.FunctionCall:
		return "function_call\n" + n.Name
	case *ast.Constraint:
		return "constraint\n" + n.Type.String()
	case *ast.ErrorNode:
		return "error\n" + n.Message
	default:
		return typeName(node.Kind())
	}
}

type dotChild struct {
	role    string
	node    ast.Node
	showNil bool
}

func dotChildren(node ast.Node) []dotChild {
	switch n := node.(type) {
	case *ast.AskQuery:
		return []dotChild{
			{"source", nodeIf(n.Source), false},
			{"fields", nodeIf(n.Fields), false},
			{"condition", n.Condition, false},
			{"group_by", nodeIf(n.GroupBy), false},
			{"order_by", nodeIf(n.OrderBy), false},
			{"limit", nodeIf(n.Limit), false},
		}
	case *ast.TellQuery:
		return []dotChild{
			{"source", nodeIf(n.Source), false},
			{"action", n.Action, true},
			{"condition", n.Condition, false},
		}
	case *ast.FindQuery:
		return []dotChild{
			{"source", nodeIf(n.Source), false},
			{"condition", n.Condition, false},
			{"group_by", nodeIf(n.GroupBy), false},
			{"order_by", nodeIf(n.OrderBy), false},
			{"limit", nodeIf(n.Limit), false},
		}
	case *ast.ShowQuery:
		return []dotChild{
			{"fields", nodeIf(n.Fields), false},
			{"source", nodeIf(n.Source), false},
			{"condition", n.Condition, false},
			{"group_by", nodeIf(n.GroupBy), false},
			{"order_by", nodeIf(n.OrderBy), false},
			{"limit", nodeIf(n.Limit), false},
		}
	case *ast.GetQuery:
		return []dotChild{
			{"fields", nodeIf(n.Fields), false},
			{"source", nodeIf(n.Source), false},
			{"condition", n.Condition, false},
			{"group_by", nodeIf(n.GroupBy), false},
			{"order_by", nodeIf(n.OrderBy), false},
			{"limit", nodeIf(n.Limit), false},
		}
	case *ast.FieldList:
		out := make([]dotChild, 0, len(n.Fields))
		for _, f := range n.Fields {
			out = append(out, dotChild{"field", f, false})
		}
		return out
	case *ast.Source:
		return []dotChild{
			{"name", nodeIf(n.Identifier), false},
			{"join", nodeIf(n.Join), false},
		}
	case *ast.Join:
		return []dotChild{
			{"source", nodeIf(n.Source), false},
			{"condition", n.Condition, false},
		}
	case *ast.GroupBy:
		return []dotChild{
			{"fields", nodeIf(n.Fields), false},
			{"having", n.Having, false},
		}
	case *ast.OrderBy:
		out := make([]dotChild, 0, len(n.Fields))
		for i, f := range n.Fields {
			role := "asc"
			if i < len(n.Ascending) && !n.Ascending[i] {
				role = "desc"
			}
			out = append(out, dotChild{role, f, false})
		}
		return out
	case *ast.AddAction:
		return []dotChild{
			{"value", n.Value, false},
			{"record_spec", nodeIf(n.RecordSpec), false},
		}
	case *ast.RemoveAction:
		return []dotChild{{"condition", n.Condition, false}}
	case *ast.UpdateAction:
		out := make([]dotChild, 0, 2*len(n.Fields))
		for i, f := range n.Fields {
			out = append(out, dotChild{"field", f, false})
			if i < len(n.Values) {
				out = append(out, dotChild{"value", n.Values[i], false})
			}
		}
		return out
	case *ast.CreateAction:
		out := make([]dotChild, 0, len(n.FieldDefs))
		for _, fd := range n.FieldDefs {
			out = append(out, dotChild{"field_def", fd, false})
		}
		return out
	case *ast.FieldDef:
		out := []dotChild{{"name", nodeIf(n.Name), false}}
		for _, c := range n.Constraints {
			out = append(out, dotChild{"constraint", c, false})
		}
		return out
	case *ast.Constraint:
		return []dotChild{{"default", n.DefaultValue, false}}
	case *ast.BinaryExpr:
		return []dotChild{
			{"left", n.Left, true},
			{"right", n.Right, true},
		}
	case *ast.UnaryExpr:
		return []dotChild{{"operand", n.Operand, true}}
	case *ast.FunctionCall:
		out := make([]dotChild, 0, len(n.Args))
		for _, a := range n.Args {
			out = append(out, dotChild{"arg", a, false})
		}
		return out
	case *ast.Program:
		out := make([]dotChild, 0, len(n.Statements))
		for _, s := range n.Statements {
			out = append(out, dotChild{"statement", s, false})
		}
		return out
	}
	return nil
}
