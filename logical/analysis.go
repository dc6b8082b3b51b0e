package logical

import (
	"github.com/pkg/errors"

	"github.com/cube2222/lazyplan"
)

var (
	ErrAmbiguousRoot  = errors.New("expression doesn't reduce to a single root column")
	ErrColumnNotFound = errors.New("column not found")
)

// Columns returns the distinct column names expr reads, in order of first appearance.
func Columns(expr Expression) []string {
	var out []string
	seen := make(map[string]bool)
	Walk(expr, func(expr Expression) {
		if column, ok := expr.(*Column); ok && !seen[column.Name] {
			seen[column.Name] = true
			out = append(out, column.Name)
		}
	})
	return out
}

// RootColumn returns the single source column expr reads.
func RootColumn(expr Expression) (string, error) {
	columns := Columns(expr)
	if len(columns) != 1 {
		return "", errors.Wrapf(ErrAmbiguousRoot, "%s reads %d columns", expr, len(columns))
	}
	return columns[0], nil
}

// PredicateKind classifies the shapes that decide whether a predicate may cross a node.
// Kinds form a bit set, so a predicate may have several.
type PredicateKind uint8

const (
	KindIsNull PredicateKind = 1 << iota
	KindIsNotNull
	KindIsUnique
	KindIsDuplicated
	// KindCrossColumn marks a comparison or boolean connective whose operands read two or more distinct columns.
	KindCrossColumn
	KindAggregation
)

const (
	KindNullTest       = KindIsNull | KindIsNotNull
	KindUniquenessTest = KindIsUnique | KindIsDuplicated
	// KindColumnWide predicates are evaluated over the whole column, their value for a row
	// depends on which other rows are present.
	KindColumnWide = KindUniquenessTest | KindAggregation
)

// Classify returns the union of the kinds present anywhere in expr.
func Classify(expr Expression) PredicateKind {
	var out PredicateKind
	Walk(expr, func(expr Expression) {
		switch expr := expr.(type) {
		case *IsNull:
			out |= KindIsNull
		case *IsNotNull:
			out |= KindIsNotNull
		case *IsUnique:
			out |= KindIsUnique
		case *IsDuplicated:
			out |= KindIsDuplicated
		case *Agg:
			out |= KindAggregation
		case *BinaryExpr:
			if !expr.Op.IsComparison() && !expr.Op.IsLogical() {
				return
			}
			left, right := Columns(expr.Left), Columns(expr.Right)
			if len(left) == 0 || len(right) == 0 {
				return
			}
			if len(Columns(expr)) > 1 {
				out |= KindCrossColumn
			}
		}
	})
	return out
}

// HasKind reports whether expr contains any of the given kinds, regardless of operand values.
func HasKind(expr Expression, kind PredicateKind) bool {
	return Classify(expr)&kind != 0
}

// RenameRoot renames the single root column of expr.
func RenameRoot(expr Expression, newName string) (Expression, error) {
	root, err := RootColumn(expr)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get root column to rename")
	}
	return RenameColumns(expr, map[string]string{root: newName}), nil
}

// RenameColumns returns expr with columns renamed according to mapping.
// Columns missing from mapping are kept as they are.
func RenameColumns(expr Expression, mapping map[string]string) Expression {
	t := Transformers{
		ExpressionTransformer: func(expr Expression) Expression {
			if column, ok := expr.(*Column); ok {
				if newName, ok := mapping[column.Name]; ok {
					return &Column{Name: newName}
				}
			}
			return expr
		},
	}
	return t.TransformExpr(expr)
}

// ReferencesOnly reports whether every column expr reads exists in schema.
func ReferencesOnly(expr Expression, schema Schema) bool {
	for _, column := range Columns(expr) {
		if !schema.Has(column) {
			return false
		}
	}
	return true
}

// CountProjectionsBelow counts the Projection nodes in the subtree rooted at node.
func CountProjectionsBelow(node Node) int {
	count := 0
	if _, ok := node.(*Projection); ok {
		count++
	}
	for _, child := range node.Children() {
		count += CountProjectionsBelow(child)
	}
	return count
}

// ToField returns the name and type of the column expr produces when evaluated against schema.
func ToField(expr Expression, schema Schema) (Field, error) {
	switch expr := expr.(type) {
	case *Column:
		field, ok := schema.Field(expr.Name)
		if !ok {
			return Field{}, errors.Wrapf(ErrColumnNotFound, "%s not in %s", expr.Name, schema)
		}
		return field, nil

	case *Literal:
		return Field{Name: "literal", Type: expr.Value.Type}, nil

	case *Alias:
		field, err := ToField(expr.Expr, schema)
		if err != nil {
			return Field{}, errors.Wrapf(err, "couldn't get field of aliased expression %s", expr.Name)
		}
		return Field{Name: expr.Name, Type: field.Type}, nil

	case *BinaryExpr:
		left, err := ToField(expr.Left, schema)
		if err != nil {
			return Field{}, errors.Wrap(err, "couldn't get field of left operand")
		}
		right, err := ToField(expr.Right, schema)
		if err != nil {
			return Field{}, errors.Wrap(err, "couldn't get field of right operand")
		}
		if expr.Op.IsArithmetic() {
			return Field{Name: left.Name, Type: lazyplan.TypeSum(left.Type, right.Type)}, nil
		}
		return Field{Name: left.Name, Type: lazyplan.Boolean}, nil

	case *Not:
		return booleanField(expr.Expr, schema)
	case *IsNull:
		return booleanField(expr.Expr, schema)
	case *IsNotNull:
		return booleanField(expr.Expr, schema)
	case *IsUnique:
		return booleanField(expr.Expr, schema)
	case *IsDuplicated:
		return booleanField(expr.Expr, schema)

	case *Agg:
		field, err := ToField(expr.Expr, schema)
		if err != nil {
			return Field{}, errors.Wrapf(err, "couldn't get field of %s argument", expr.Func)
		}
		switch expr.Func {
		case AggCount:
			field.Type = lazyplan.Int
		case AggMean:
			field.Type = lazyplan.Float
		}
		return field, nil
	}

	panic("unexhaustive expression type match")
}

func booleanField(inner Expression, schema Schema) (Field, error) {
	field, err := ToField(inner, schema)
	if err != nil {
		return Field{}, err
	}
	return Field{Name: field.Name, Type: lazyplan.Boolean}, nil
}
