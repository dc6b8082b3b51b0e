package logical

import (
	"reflect"

	"github.com/pkg/errors"
)

// EqualNodes compares two plans structurally, returning an error describing the first difference.
func EqualNodes(node1, node2 Node) error {
	switch node1 := node1.(type) {
	case *Selection:
		if node2, ok := node2.(*Selection); ok {
			if err := EqualExpressions(node1.Predicate, node2.Predicate); err != nil {
				return errors.Wrap(err, "predicates not equal")
			}
			if err := EqualNodes(node1.Input, node2.Input); err != nil {
				return errors.Wrap(err, "selection inputs not equal")
			}
			return nil
		}

	case *Projection:
		if node2, ok := node2.(*Projection); ok {
			if err := equalExpressionLists(node1.Exprs, node2.Exprs); err != nil {
				return errors.Wrap(err, "projection expressions not equal")
			}
			if err := EqualNodes(node1.Input, node2.Input); err != nil {
				return errors.Wrap(err, "projection inputs not equal")
			}
			return nil
		}

	case *LocalProjection:
		if node2, ok := node2.(*LocalProjection); ok {
			if err := equalExpressionLists(node1.Exprs, node2.Exprs); err != nil {
				return errors.Wrap(err, "local projection expressions not equal")
			}
			if err := EqualNodes(node1.Input, node2.Input); err != nil {
				return errors.Wrap(err, "local projection inputs not equal")
			}
			return nil
		}

	case *DataFrameScan:
		if node2, ok := node2.(*DataFrameScan); ok {
			if node1.Frame.Name != node2.Frame.Name {
				return errors.Errorf("frames not equal: %v, %v", node1.Frame.Name, node2.Frame.Name)
			}
			if !reflect.DeepEqual(node1.schema, node2.schema) {
				return errors.Errorf("schemas not equal: %v, %v", node1.schema, node2.schema)
			}
			return nil
		}

	case *CsvScan:
		if node2, ok := node2.(*CsvScan); ok {
			if node1.Path != node2.Path {
				return errors.Errorf("paths not equal: %v, %v", node1.Path, node2.Path)
			}
			if !reflect.DeepEqual(node1.Options, node2.Options) {
				return errors.Errorf("csv options not equal: %+v, %+v", node1.Options, node2.Options)
			}
			if !reflect.DeepEqual(node1.schema, node2.schema) {
				return errors.Errorf("schemas not equal: %v, %v", node1.schema, node2.schema)
			}
			return nil
		}

	case *DataFrameOp:
		if node2, ok := node2.(*DataFrameOp); ok {
			if node1.Operation != node2.Operation {
				return errors.Errorf("operations not equal: %v, %v", node1.Operation, node2.Operation)
			}
			if err := EqualNodes(node1.Input, node2.Input); err != nil {
				return errors.Wrap(err, "operation inputs not equal")
			}
			return nil
		}

	case *Distinct:
		if node2, ok := node2.(*Distinct); ok {
			if !reflect.DeepEqual(node1.Subset, node2.Subset) {
				return errors.Errorf("distinct subsets not equal: %v, %v", node1.Subset, node2.Subset)
			}
			if node1.MaintainOrder != node2.MaintainOrder {
				return errors.Errorf("maintain order flags not equal: %v, %v", node1.MaintainOrder, node2.MaintainOrder)
			}
			if err := EqualNodes(node1.Input, node2.Input); err != nil {
				return errors.Wrap(err, "distinct inputs not equal")
			}
			return nil
		}

	case *Aggregate:
		if node2, ok := node2.(*Aggregate); ok {
			if err := equalExpressionLists(node1.Keys, node2.Keys); err != nil {
				return errors.Wrap(err, "aggregate keys not equal")
			}
			if err := equalExpressionLists(node1.Aggs, node2.Aggs); err != nil {
				return errors.Wrap(err, "aggregations not equal")
			}
			if err := EqualNodes(node1.Input, node2.Input); err != nil {
				return errors.Wrap(err, "aggregate inputs not equal")
			}
			return nil
		}

	case *Join:
		if node2, ok := node2.(*Join); ok {
			if node1.How != node2.How {
				return errors.Errorf("join types not equal: %v, %v", node1.How, node2.How)
			}
			if err := EqualExpressions(node1.LeftOn, node2.LeftOn); err != nil {
				return errors.Wrap(err, "left join keys not equal")
			}
			if err := EqualExpressions(node1.RightOn, node2.RightOn); err != nil {
				return errors.Wrap(err, "right join keys not equal")
			}
			if err := EqualNodes(node1.Left, node2.Left); err != nil {
				return errors.Wrap(err, "left join inputs not equal")
			}
			if err := EqualNodes(node1.Right, node2.Right); err != nil {
				return errors.Wrap(err, "right join inputs not equal")
			}
			return nil
		}

	case *HStack:
		if node2, ok := node2.(*HStack); ok {
			if err := equalExpressionLists(node1.Exprs, node2.Exprs); err != nil {
				return errors.Wrap(err, "added columns not equal")
			}
			if err := EqualNodes(node1.Input, node2.Input); err != nil {
				return errors.Wrap(err, "hstack inputs not equal")
			}
			return nil
		}

	default:
		panic("unexhaustive node type match")
	}

	return errors.Errorf("node types not equal: %T, %T", node1, node2)
}

// EqualExpressions compares two expressions structurally, including operand values.
func EqualExpressions(expr1, expr2 Expression) error {
	switch expr1 := expr1.(type) {
	case *Column:
		if expr2, ok := expr2.(*Column); ok {
			if expr1.Name != expr2.Name {
				return errors.Errorf("column names not equal: %v, %v", expr1.Name, expr2.Name)
			}
			return nil
		}

	case *Literal:
		if expr2, ok := expr2.(*Literal); ok {
			if !expr1.Value.Equal(expr2.Value) {
				return errors.Errorf("literals not equal: %v, %v", expr1.Value, expr2.Value)
			}
			return nil
		}

	case *Alias:
		if expr2, ok := expr2.(*Alias); ok {
			if expr1.Name != expr2.Name {
				return errors.Errorf("aliases not equal: %v, %v", expr1.Name, expr2.Name)
			}
			return EqualExpressions(expr1.Expr, expr2.Expr)
		}

	case *BinaryExpr:
		if expr2, ok := expr2.(*BinaryExpr); ok {
			if expr1.Op != expr2.Op {
				return errors.Errorf("operators not equal: %v, %v", expr1.Op, expr2.Op)
			}
			if err := EqualExpressions(expr1.Left, expr2.Left); err != nil {
				return errors.Wrap(err, "left operands not equal")
			}
			if err := EqualExpressions(expr1.Right, expr2.Right); err != nil {
				return errors.Wrap(err, "right operands not equal")
			}
			return nil
		}

	case *Not:
		if expr2, ok := expr2.(*Not); ok {
			return EqualExpressions(expr1.Expr, expr2.Expr)
		}
	case *IsNull:
		if expr2, ok := expr2.(*IsNull); ok {
			return EqualExpressions(expr1.Expr, expr2.Expr)
		}
	case *IsNotNull:
		if expr2, ok := expr2.(*IsNotNull); ok {
			return EqualExpressions(expr1.Expr, expr2.Expr)
		}
	case *IsUnique:
		if expr2, ok := expr2.(*IsUnique); ok {
			return EqualExpressions(expr1.Expr, expr2.Expr)
		}
	case *IsDuplicated:
		if expr2, ok := expr2.(*IsDuplicated); ok {
			return EqualExpressions(expr1.Expr, expr2.Expr)
		}

	case *Agg:
		if expr2, ok := expr2.(*Agg); ok {
			if expr1.Func != expr2.Func {
				return errors.Errorf("aggregate functions not equal: %v, %v", expr1.Func, expr2.Func)
			}
			return EqualExpressions(expr1.Expr, expr2.Expr)
		}

	default:
		panic("unexhaustive expression type match")
	}

	return errors.Errorf("expression types not equal: %T, %T", expr1, expr2)
}

func equalExpressionLists(exprs1, exprs2 []Expression) error {
	if len(exprs1) != len(exprs2) {
		return errors.Errorf("expression counts not equal: %v, %v", len(exprs1), len(exprs2))
	}
	for i := range exprs1 {
		if err := EqualExpressions(exprs1[i], exprs2[i]); err != nil {
			return errors.Wrapf(err, "expression %v not equal", i)
		}
	}
	return nil
}
