package logical

// Transformers rebuilds expression trees bottom-up, giving the transformer
// a chance to replace every rebuilt node.
type Transformers struct {
	ExpressionTransformer func(expr Expression) Expression
}

func (t *Transformers) TransformExpr(expr Expression) Expression {
	var out Expression
	switch expr := expr.(type) {
	case *Column:
		out = &Column{
			Name: expr.Name,
		}
	case *Literal:
		out = &Literal{
			Value: expr.Value,
		}
	case *Alias:
		out = &Alias{
			Expr: t.TransformExpr(expr.Expr),
			Name: expr.Name,
		}
	case *BinaryExpr:
		out = &BinaryExpr{
			Left:  t.TransformExpr(expr.Left),
			Op:    expr.Op,
			Right: t.TransformExpr(expr.Right),
		}
	case *Not:
		out = &Not{
			Expr: t.TransformExpr(expr.Expr),
		}
	case *IsNull:
		out = &IsNull{
			Expr: t.TransformExpr(expr.Expr),
		}
	case *IsNotNull:
		out = &IsNotNull{
			Expr: t.TransformExpr(expr.Expr),
		}
	case *IsUnique:
		out = &IsUnique{
			Expr: t.TransformExpr(expr.Expr),
		}
	case *IsDuplicated:
		out = &IsDuplicated{
			Expr: t.TransformExpr(expr.Expr),
		}
	case *Agg:
		out = &Agg{
			Func: expr.Func,
			Expr: t.TransformExpr(expr.Expr),
		}
	default:
		panic("unexhaustive expression type match")
	}

	if t.ExpressionTransformer != nil {
		out = t.ExpressionTransformer(out)
	}

	return out
}

// Walk calls visit for expr and all its subexpressions, parents first.
func Walk(expr Expression, visit func(expr Expression)) {
	visit(expr)
	switch expr := expr.(type) {
	case *Column, *Literal:
	case *Alias:
		Walk(expr.Expr, visit)
	case *BinaryExpr:
		Walk(expr.Left, visit)
		Walk(expr.Right, visit)
	case *Not:
		Walk(expr.Expr, visit)
	case *IsNull:
		Walk(expr.Expr, visit)
	case *IsNotNull:
		Walk(expr.Expr, visit)
	case *IsUnique:
		Walk(expr.Expr, visit)
	case *IsDuplicated:
		Walk(expr.Expr, visit)
	case *Agg:
		Walk(expr.Expr, visit)
	default:
		panic("unexhaustive expression type match")
	}
}
