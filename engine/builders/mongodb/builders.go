// Package mongodb lowers document-engine queries (FIND, SHOW, GET) into
// MongoDB filters, projections and find options.
package mongodb

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
)

// Plan is a ready-to-run MongoDB find: collection, filter, projection and
// options. An empty filter matches everything.
type Plan struct {
	Collection string
	Filter     bson.M
	Projection bson.M
	Options    *options.FindOptions
}

// CollectionName maps a source to its collection: lowercased and
// pluralized, so "User" targets "users". The wildcard source is kept
// as-is for the caller to expand.
func CollectionName(source *ast.Source) string {
	if source == nil || source.Identifier == nil {
		return ""
	}
	name := source.Identifier.Name
	if name == "*" {
		return name
	}
	return inflection.Plural(strings.ToLower(name))
}

// BuildQuery lowers a document-engine query into a find plan. Relational
// forms (ASK, TELL) are rejected; they belong to the postgres builder.
func BuildQuery(node ast.Node) (*Plan, error) {
	var (
		source    *ast.Source
		fields    *ast.FieldList
		condition ast.Node
		orderBy   *ast.OrderBy
		limit     *ast.Limit
	)

	switch n := node.(type) {
	case *ast.FindQuery:
		source, condition, orderBy, limit = n.Source, n.Condition, n.OrderBy, n.Limit
	case *ast.ShowQuery:
		source, fields, condition, orderBy, limit = n.Source, n.Fields, n.Condition, n.OrderBy, n.Limit
	case *ast.GetQuery:
		source, fields, condition, orderBy, limit = n.Source, n.Fields, n.Condition, n.OrderBy, n.Limit
	default:
		return nil, fmt.Errorf("mongodb: cannot build plan for %s", node.Kind())
	}

	filter, err := BuildFilter(condition)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Collection: CollectionName(source),
		Filter:     filter,
		Projection: BuildProjection(fields),
		Options:    buildFindOptions(orderBy, limit),
	}
	return plan, nil
}

// BuildFilter lowers a condition expression into a BSON filter. A nil
// condition matches everything.
func BuildFilter(condition ast.Node) (bson.M, error) {
	if condition == nil {
		return bson.M{}, nil
	}
	return filterExpr(condition)
}

func filterExpr(node ast.Node) (bson.M, error) {
	switch n := node.(type) {
	case *ast.BinaryExpr:
		return filterBinary(n)
	case *ast.UnaryExpr:
		if n.Op == lexer.TOKEN_NOT {
			inner, err := filterExpr(n.Operand)
			if err != nil {
				return nil, err
			}
			return bson.M{"$nor": bson.A{inner}}, nil
		}
		return nil, fmt.Errorf("mongodb: unsupported unary operator %s in filter", n.Op)
	case *ast.Identifier:
		// A bare field reference filters on truthiness.
		return bson.M{n.Name: bson.M{"$exists": true}}, nil
	case *ast.FunctionCall:
		return nil, fmt.Errorf("mongodb: function %s not supported in filters", n.Name)
	}
	return nil, fmt.Errorf("mongodb: unsupported filter node %s", node.Kind())
}

func filterBinary(n *ast.BinaryExpr) (bson.M, error) {
	switch n.Op {
	case lexer.TOKEN_AND:
		left, err := filterExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := filterExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return bson.M{"$and": bson.A{left, right}}, nil

	case lexer.TOKEN_OR:
		left, err := filterExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := filterExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return bson.M{"$or": bson.A{left, right}}, nil
	}

	field, value, err := comparisonOperands(n)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case lexer.TOKEN_EQUAL:
		return bson.M{field: value}, nil
	case lexer.TOKEN_NEQ:
		return bson.M{field: bson.M{"$ne": value}}, nil
	case lexer.TOKEN_GT:
		return bson.M{field: bson.M{"$gt": value}}, nil
	case lexer.TOKEN_GTE:
		return bson.M{field: bson.M{"$gte": value}}, nil
	case lexer.TOKEN_LT:
		return bson.M{field: bson.M{"$lt": value}}, nil
	case lexer.TOKEN_LTE:
		return bson.M{field: bson.M{"$lte": value}}, nil
	case lexer.TOKEN_LIKE:
		pattern, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("mongodb: LIKE needs a string pattern")
		}
		return bson.M{field: bson.M{"$regex": likeToRegex(pattern)}}, nil
	}

	return nil, fmt.Errorf("mongodb: unsupported filter operator %s", n.Op)
}

// comparisonOperands expects a field reference on the left and a literal
// on the right of a comparison.
func comparisonOperands(n *ast.BinaryExpr) (string, any, error) {
	id, ok := n.Left.(*ast.Identifier)
	if !ok {
		return "", nil, fmt.Errorf("mongodb: comparison needs a field on the left")
	}
	value, err := LiteralValue(n.Right)
	if err != nil {
		return "", nil, err
	}
	return id.Name, value, nil
}

// LiteralValue converts a literal (or negated literal) into its Go value:
// string, int64 for whole numbers, float64 otherwise.
func LiteralValue(node ast.Node) (any, error) {
	switch n := node.(type) {
	case *ast.Literal:
		if n.LitKind == lexer.TOKEN_STRING {
			return n.Str, nil
		}
		if n.LitKind == lexer.TOKEN_INTEGER {
			return int64(n.Num), nil
		}
		return n.Num, nil
	case *ast.UnaryExpr:
		if n.Op != lexer.TOKEN_MINUS {
			break
		}
		inner, err := LiteralValue(n.Operand)
		if err != nil {
			return nil, err
		}
		switch v := inner.(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		}
	case *ast.Identifier:
		return n.Name, nil
	}
	return nil, fmt.Errorf("mongodb: expected a literal value, got %s", node.Kind())
}

// likeToRegex translates SQL LIKE wildcards into an anchored regex.
func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		case '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '^', '$', '\\', '|':
			b.WriteString(`\`)
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("$")
	return b.String()
}

// BuildProjection turns a field list into an inclusion projection. A nil
// or empty list projects everything.
func BuildProjection(fields *ast.FieldList) bson.M {
	if fields == nil || len(fields.Fields) == 0 {
		return nil
	}
	projection := bson.M{}
	for _, f := range fields.Fields {
		if f.Name == "*" {
			return nil
		}
		projection[f.Name] = 1
	}
	return projection
}

func buildFindOptions(orderBy *ast.OrderBy, limit *ast.Limit) *options.FindOptions {
	opts := options.Find()
	if orderBy != nil {
		sort := bson.D{}
		for i, f := range orderBy.Fields {
			direction := 1
			if i < len(orderBy.Ascending) && !orderBy.Ascending[i] {
				direction = -1
			}
			sort = append(sort, bson.E{Key: f.Name, Value: direction})
		}
		opts.SetSort(sort)
	}
	if limit != nil {
		opts.SetLimit(int64(limit.Count))
		if limit.Offset > 0 {
			opts.SetSkip(int64(limit.Offset))
		}
	}
	return opts
}

// BuildUpdateDocument lowers an UPDATE action into a $set document.
func BuildUpdateDocument(action *ast.UpdateAction) (bson.M, error) {
	set := bson.M{}
	for i, f := range action.Fields {
		if i >= len(action.Values) {
			break
		}
		value, err := LiteralValue(action.Values[i])
		if err != nil {
			return nil, err
		}
		set[f.Name] = value
	}
	return bson.M{"$set": set}, nil
}

// BuildDeleteFilter lowers a REMOVE action into a delete filter; removing
// without a condition matches every document.
func BuildDeleteFilter(action *ast.RemoveAction) (bson.M, error) {
	return BuildFilter(action.Condition)
}
