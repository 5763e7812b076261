// Package render turns syntax trees into human-oriented formats: an
// indented text outline for terminals, JSON for tooling, and GraphViz DOT
// for visualization.
package render

import (
	"fmt"
	"strings"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
)

// typeName returns the lowercase snake_case node type name used by the
// JSON and DOT formats.
func typeName(t ast.NodeType) string {
	return strings.ToLower(t.String())
}

// Text renders the tree as an indented outline, two spaces per level.
func Text(node ast.Node) string {
	var b strings.Builder
	text(&b, node, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func textChild(b *strings.Builder, label string, child ast.Node, depth int) {
	if child == nil {
		return
	}
	indent(b, depth)
	b.WriteString(label)
	b.WriteString(":\n")
	text(b, child, depth+1)
}

func text(b *strings.Builder, node ast.Node, depth int) {
	if node == nil {
		indent(b, depth)
		b.WriteString("NULL\n")
		return
	}

	indent(b, depth)

	switch n := node.(type) {
	case *ast.AskQuery:
		fmt.Fprintf(b, "ASK QUERY (line %d)\n", n.LineNo)
		textChild(b, "Source", nodeIf(n.Source), depth+1)
		textChild(b, "Fields", nodeIf(n.Fields), depth+1)
		textChild(b, "Condition", n.Condition, depth+1)
		textChild(b, "Group By", nodeIf(n.GroupBy), depth+1)
		textChild(b, "Order By", nodeIf(n.OrderBy), depth+1)
		textChild(b, "Limit", nodeIf(n.Limit), depth+1)

	case *ast.TellQuery:
		fmt.Fprintf(b, "TELL QUERY (line %d)\n", n.LineNo)
		textChild(b, "Source", nodeIf(n.Source), depth+1)
		textChild(b, "Action", n.Action, depth+1)
		textChild(b, "Condition", n.Condition, depth+1)

	case *ast.FindQuery:
		fmt.Fprintf(b, "FIND QUERY (line %d)\n", n.LineNo)
		textChild(b, "Source", nodeIf(n.Source), depth+1)
		textChild(b, "Condition", n.Condition, depth+1)
		textChild(b, "Group By", nodeIf(n.GroupBy), depth+1)
		textChild(b, "Order By", nodeIf(n.OrderBy), depth+1)
		textChild(b, "Limit", nodeIf(n.Limit), depth+1)

	case *ast.ShowQuery:
		fmt.Fprintf(b, "SHOW QUERY (line %d)\n", n.LineNo)
		textChild(b, "Fields", nodeIf(n.Fields), depth+1)
		textChild(b, "Source", nodeIf(n.Source), depth+1)
		textChild(b, "Condition", n.Condition, depth+1)
		textChild(b, "Group By", nodeIf(n.GroupBy), depth+1)
		textChild(b, "Order By", nodeIf(n.OrderBy), depth+1)
		textChild(b, "Limit", nodeIf(n.Limit), depth+1)

	case *ast.GetQuery:
		fmt.Fprintf(b, "GET QUERY (line %d)\n", n.LineNo)
		textChild(b, "Fields", nodeIf(n.Fields), depth+1)
		textChild(b, "Source", nodeIf(n.Source), depth+1)
		textChild(b, "Condition", n.Condition, depth+1)
		textChild(b, "Group By", nodeIf(n.GroupBy), depth+1)
		textChild(b, "Order By", nodeIf(n.OrderBy), depth+1)
		textChild(b, "Limit", nodeIf(n.Limit), depth+1)

	case *ast.FieldList:
		b.WriteString("FIELD LIST:\n")
		for _, f := range n.Fields {
			text(b, f, depth+1)
		}

	case *ast.Source:
		b.WriteString("SOURCE:\n")
		textChild(b, "Name", nodeIf(n.Identifier), depth+1)
		textChild(b, "Join", nodeIf(n.Join), depth+1)

	case *ast.Join:
		b.WriteString("JOIN:\n")
		textChild(b, "Source", nodeIf(n.Source), depth+1)
		textChild(b, "Condition", n.Condition, depth+1)

	case *ast.GroupBy:
		b.WriteString("GROUP BY:\n")
		textChild(b, "Fields", nodeIf(n.Fields), depth+1)
		textChild(b, "Having", n.Having, depth+1)

	case *ast.OrderBy:
		b.WriteString("ORDER BY:\n")
		for i, f := range n.Fields {
			direction := "ASC"
			if i < len(n.Ascending) && !n.Ascending[i] {
				direction = "DESC"
			}
			indent(b, depth+1)
			fmt.Fprintf(b, "%s %s\n", f.Name, direction)
		}

	case *ast.Limit:
		if n.Offset != 0 {
			fmt.Fprintf(b, "LIMIT: %d OFFSET %d\n", n.Count, n.Offset)
		} else {
			fmt.Fprintf(b, "LIMIT: %d\n", n.Count)
		}

	case *ast.AddAction:
		b.WriteString("ADD ACTION:\n")
		textChild(b, "Value", n.Value, depth+1)
		textChild(b, "Record Spec", nodeIf(n.RecordSpec), depth+1)

	case *ast.RemoveAction:
		b.WriteString("REMOVE ACTION:\n")
		if n.Condition == nil {
			indent(b, depth+1)
			b.WriteString("(all records)\n")
		} else {
			textChild(b, "Condition", n.Condition, depth+1)
		}

	case *ast.UpdateAction:
		b.WriteString("UPDATE ACTION:\n")
		for i, f := range n.Fields {
			indent(b, depth+1)
			fmt.Fprintf(b, "%s =\n", f.Name)
			if i < len(n.Values) {
				text(b, n.Values[i], depth+2)
			}
		}

	case *ast.CreateAction:
		b.WriteString("CREATE ACTION:\n")
		for _, fd := range n.FieldDefs {
			text(b, fd, depth+1)
		}

	case *ast.FieldDef:
		name := ""
		if n.Name != nil {
			name = n.Name.Name
		}
		if n.Type != "" {
			fmt.Fprintf(b, "FIELD DEF: %s AS %s\n", name, n.Type)
		} else {
			fmt.Fprintf(b, "FIELD DEF: %s\n", name)
		}
		for _, c := range n.Constraints {
			text(b, c, depth+1)
		}

	case *ast.Constraint:
		fmt.Fprintf(b, "CONSTRAINT: %s\n", n.Type)
		textChild(b, "Default", n.DefaultValue, depth+1)

	case *ast.BinaryExpr:
		b.WriteString("BINARY EXPRESSION:\n")
		indent(b, depth+1)
		fmt.Fprintf(b, "Operator: %s\n", lexer.OperatorString(n.Op))
		textChild(b, "Left", n.Left, depth+1)
		textChild(b, "Right", n.Right, depth+1)

	case *ast.UnaryExpr:
		b.WriteString("UNARY EXPRESSION:\n")
		indent(b, depth+1)
		fmt.Fprintf(b, "Operator: %s\n", lexer.OperatorString(n.Op))
		textChild(b, "Operand", n.Operand, depth+1)

	case *ast.Identifier:
		fmt.Fprintf(b, "IDENTIFIER: %s\n", n.Name)

	case *ast.Literal:
		switch n.LitKind {
		case lexer.TOKEN_STRING:
			fmt.Fprintf(b, "STRING: %q\n", n.Str)
		case lexer.TOKEN_INTEGER:
			fmt.Fprintf(b, "INTEGER: %g\n", n.Num)
		default:
			fmt.Fprintf(b, "DECIMAL: %g\n", n.Num)
		}

	case *ast.FunctionCall:
		fmt.Fprintf(b, "FUNCTION CALL: %s\n", n.Name)
		for _, a := range n.Args {
			text(b, a, depth+1)
		}

	case *ast.ErrorNode:
		fmt.Fprintf(b, "ERROR: %s\n", n.Message)

	case *ast.Program:
		fmt.Fprintf(b, "PROGRAM (%d statements)\n", len(n.Statements))
		for _, s := range n.Statements {
			text(b, s, depth+1)
		}
	}
}

// nodeIf lifts a concrete pointer into the interface, keeping absent
// children nil.
func nodeIf[T any, P interface {
	*T
	ast.Node
}](n P) ast.Node {
	if n == nil {
		return nil
	}
	return n
}
