package logical

import (
	"fmt"

	"github.com/cube2222/lazyplan"
)

// Expression is an immutable computation over the columns of a single row.
// It's a sealed interface, only the types in this file implement it.
type Expression interface {
	fmt.Stringer
	expression()
}

type Column struct {
	Name string
}

func NewColumn(name string) *Column {
	return &Column{Name: name}
}

func (*Column) expression() {}

func (e *Column) String() string {
	return e.Name
}

type Literal struct {
	Value lazyplan.Value
}

func NewLiteral(value lazyplan.Value) *Literal {
	return &Literal{Value: value}
}

func (*Literal) expression() {}

func (e *Literal) String() string {
	return e.Value.String()
}

type Alias struct {
	Expr Expression
	Name string
}

func NewAlias(expr Expression, name string) *Alias {
	return &Alias{Expr: expr, Name: name}
}

func (*Alias) expression() {}

func (e *Alias) String() string {
	return fmt.Sprintf("%s AS %s", e.Expr, e.Name)
}

type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpAnd
	OpOr
)

func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	}
	return "???"
}

func (op Operator) IsComparison() bool {
	return op >= OpEqual && op <= OpGreaterEqual
}

func (op Operator) IsArithmetic() bool {
	return op >= OpPlus && op <= OpDivide
}

func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

type BinaryExpr struct {
	Left  Expression
	Op    Operator
	Right Expression
}

func NewBinaryExpr(left Expression, op Operator, right Expression) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right}
}

func (*BinaryExpr) expression() {}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// And combines two predicates without evaluating either.
func And(left, right Expression) Expression {
	return NewBinaryExpr(left, OpAnd, right)
}

// SplitByAnd returns the conjuncts of top-level AND chains, left to right.
func SplitByAnd(expr Expression) []Expression {
	if binary, ok := expr.(*BinaryExpr); ok && binary.Op == OpAnd {
		return append(SplitByAnd(binary.Left), SplitByAnd(binary.Right)...)
	}
	return []Expression{expr}
}

type Not struct {
	Expr Expression
}

func NewNot(expr Expression) *Not {
	return &Not{Expr: expr}
}

func (*Not) expression() {}

func (e *Not) String() string {
	return fmt.Sprintf("NOT %s", e.Expr)
}

type IsNull struct {
	Expr Expression
}

func NewIsNull(expr Expression) *IsNull {
	return &IsNull{Expr: expr}
}

func (*IsNull) expression() {}

func (e *IsNull) String() string {
	return fmt.Sprintf("%s IS NULL", e.Expr)
}

type IsNotNull struct {
	Expr Expression
}

func NewIsNotNull(expr Expression) *IsNotNull {
	return &IsNotNull{Expr: expr}
}

func (*IsNotNull) expression() {}

func (e *IsNotNull) String() string {
	return fmt.Sprintf("%s IS NOT NULL", e.Expr)
}

// IsUnique is true for rows whose value occurs exactly once in the column.
type IsUnique struct {
	Expr Expression
}

func NewIsUnique(expr Expression) *IsUnique {
	return &IsUnique{Expr: expr}
}

func (*IsUnique) expression() {}

func (e *IsUnique) String() string {
	return fmt.Sprintf("is_unique(%s)", e.Expr)
}

// IsDuplicated is true for rows whose value occurs more than once in the column.
type IsDuplicated struct {
	Expr Expression
}

func NewIsDuplicated(expr Expression) *IsDuplicated {
	return &IsDuplicated{Expr: expr}
}

func (*IsDuplicated) expression() {}

func (e *IsDuplicated) String() string {
	return fmt.Sprintf("is_duplicated(%s)", e.Expr)
}

type AggFunc int

const (
	AggMin AggFunc = iota
	AggMax
	AggSum
	AggMean
	AggCount
	AggFirst
	AggLast
)

var aggFuncNames = map[AggFunc]string{
	AggMin:   "min",
	AggMax:   "max",
	AggSum:   "sum",
	AggMean:  "mean",
	AggCount: "count",
	AggFirst: "first",
	AggLast:  "last",
}

func (f AggFunc) String() string {
	if name, ok := aggFuncNames[f]; ok {
		return name
	}
	return "???"
}

// ParseAggFunc is the inverse of AggFunc.String.
func ParseAggFunc(name string) (AggFunc, bool) {
	for f, fname := range aggFuncNames {
		if fname == name {
			return f, true
		}
	}
	return 0, false
}

type Agg struct {
	Func AggFunc
	Expr Expression
}

func NewAgg(f AggFunc, expr Expression) *Agg {
	return &Agg{Func: f, Expr: expr}
}

func (*Agg) expression() {}

func (e *Agg) String() string {
	return fmt.Sprintf("%s(%s)", e.Func, e.Expr)
}
