package render

import (
	"encoding/json"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
)

// JSON renders the tree as a JSON document. Every node becomes an object
// with "type" and "line"; children appear under stable field names.
func JSON(node ast.Node, pretty bool) (string, error) {
	tree := jsonNode(node)
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(tree, "", "  ")
	} else {
		data, err = json.Marshal(tree)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func jsonNode(node ast.Node) any {
	if node == nil {
		return nil
	}

	obj := map[string]any{
		"type": typeName(node.Kind()),
		"line": node.Line(),
	}

	switch n := node.(type) {
	case *ast.AskQuery:
		obj["source"] = jsonNode(nodeIf(n.Source))
		obj["fields"] = jsonNode(nodeIf(n.Fields))
		obj["condition"] = jsonNode(n.Condition)
		obj["groupBy"] = jsonNode(nodeIf(n.GroupBy))
		obj["orderBy"] = jsonNode(nodeIf(n.OrderBy))
		obj["limit"] = jsonNode(nodeIf(n.Limit))

	case *ast.TellQuery:
		obj["source"] = jsonNode(nodeIf(n.Source))
		obj["action"] = jsonNode(n.Action)
		obj["condition"] = jsonNode(n.Condition)

	case *ast.FindQuery:
		obj["source"] = jsonNode(nodeIf(n.Source))
		obj["condition"] = jsonNode(n.Condition)
		obj["groupBy"] = jsonNode(nodeIf(n.GroupBy))
		obj["orderBy"] = jsonNode(nodeIf(n.OrderBy))
		obj["limit"] = jsonNode(nodeIf(n.Limit))

	case *ast.ShowQuery:
		obj["fields"] = jsonNode(nodeIf(n.Fields))
		obj["source"] = jsonNode(nodeIf(n.Source))
		obj["condition"] = jsonNode(n.Condition)
		obj["groupBy"] = jsonNode(nodeIf(n.GroupBy))
		obj["orderBy"] = jsonNode(nodeIf(n.OrderBy))
		obj["limit"] = jsonNode(nodeIf(n.Limit))

	case *ast.GetQuery:
		obj["fields"] = jsonNode(nodeIf(n.Fields))
		obj["source"] = jsonNode(nodeIf(n.Source))
		obj["condition"] = jsonNode(n.Condition)
		obj["groupBy"] = jsonNode(nodeIf(n.GroupBy))
		obj["orderBy"] = jsonNode(nodeIf(n.OrderBy))
		obj["limit"] = jsonNode(nodeIf(n.Limit))

	case *ast.FieldList:
		fields := make([]any, 0, len(n.Fields))
		for _, f := range n.Fields {
			fields = append(fields, jsonNode(f))
		}
		obj["fields"] = fields

	case *ast.Source:
		obj["name"] = jsonNode(nodeIf(n.Identifier))
		if n.Join != nil {
			obj["join"] = jsonNode(n.Join)
		}

	case *ast.Join:
		obj["source"] = jsonNode(nodeIf(n.Source))
		obj["condition"] = jsonNode(n.Condition)

	case *ast.GroupBy:
		obj["fields"] = jsonNode(nodeIf(n.Fields))
		obj["having"] = jsonNode(n.Having)

	case *ast.OrderBy:
		fields := make([]any, 0, len(n.Fields))
		for i, f := range n.Fields {
			ascending := i >= len(n.Ascending) || n.Ascending[i]
			fields = append(fields, map[string]any{
				"field":     jsonNode(f),
				"ascending": ascending,
			})
		}
		obj["fields"] = fields

	case *ast.Limit:
		obj["count"] = n.Count
		obj["offset"] = n.Offset

	case *ast.AddAction:
		obj["value"] = jsonNode(n.Value)
		obj["recordSpec"] = jsonNode(nodeIf(n.RecordSpec))

	case *ast.RemoveAction:
		obj["condition"] = jsonNode(n.Condition)

	case *ast.UpdateAction:
		pairs := make([]any, 0, len(n.Fields))
		for i, f := range n.Fields {
			var value any
			if i < len(n.Values) {
				value = jsonNode(n.Values[i])
			}
			pairs = append(pairs, map[string]any{
				"field": jsonNode(f),
				"value": value,
			})
		}
		obj["assignments"] = pairs

	case *ast.CreateAction:
		defs := make([]any, 0, len(n.FieldDefs))
		for _, fd := range n.FieldDefs {
			defs = append(defs, jsonNode(fd))
		}
		obj["fieldDefs"] = defs

	case *ast.FieldDef:
		obj["name"] = jsonNode(nodeIf(n.Name))
		if n.Type != "" {
			obj["fieldType"] = n.Type
		}
		if len(n.Constraints) > 0 {
			constraints := make([]any, 0, len(n.Constraints))
			for _, c := range n.Constraints {
				constraints = append(constraints, jsonNode(c))
			}
			obj["constraints"] = constraints
		}

	case *ast.Constraint:
		obj["constraintType"] = n.Type.String()
		if n.DefaultValue != nil {
			obj["default"] = jsonNode(n.DefaultValue)
		}

	case *ast.BinaryExpr:
		obj["operator"] = lexer.OperatorString(n.Op)
		obj["left"] = jsonNode(n.Left)
		obj["right"] = jsonNode(n.Right)

	case *ast.UnaryExpr:
		obj["operator"] = lexer.OperatorString(n.Op)
		obj["operand"] = jsonNode(n.Operand)

	case *ast.Identifier:
		obj["name"] = n.Name

	case *ast.Literal:
		switch n.LitKind {
		case lexer.TOKEN_STRING:
			obj["value"] = n.Str
			obj["literalType"] = "string"
		case lexer.TOKEN_INTEGER:
			obj["value"] = n.Num
			obj["literalType"] = "integer"
		default:
			obj["value"] = n.Num
			obj["literalType"] = "decimal"
		}

	case *ast.FunctionCall:
		obj["name"] = n.Name
		args := make([]any, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, jsonNode(a))
		}
		obj["args"] = args

	case *ast.ErrorNode:
		obj["message"] = n.Message

	case *ast.Program:
		stmts := make([]any, 0, len(n.Statements))
		for _, s := range n.Statements {
			stmts = append(stmts, jsonNode(s))
		}
		obj["statements"] = stmts
	}

	return obj
}
