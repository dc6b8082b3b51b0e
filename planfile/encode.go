package planfile

import (
	"github.com/cube2222/lazyplan/logical"
)

func encodeNode(node logical.Node) map[string]interface{} {
	switch node := node.(type) {
	case *logical.Selection:
		return map[string]interface{}{
			"filter": map[string]interface{}{
				"predicate": encodeExpression(node.Predicate),
				"input":     encodeNode(node.Input),
			},
		}

	case *logical.Projection:
		return map[string]interface{}{
			"project": map[string]interface{}{
				"exprs": encodeExpressions(node.Exprs),
				"input": encodeNode(node.Input),
			},
		}

	case *logical.LocalProjection:
		return map[string]interface{}{
			"localProject": map[string]interface{}{
				"exprs": encodeExpressions(node.Exprs),
				"input": encodeNode(node.Input),
			},
		}

	case *logical.DataFrameScan:
		return map[string]interface{}{
			"dataframe": map[string]interface{}{
				"name":   node.Frame.Name,
				"schema": encodeSchema(node.Schema()),
			},
		}

	case *logical.CsvScan:
		return map[string]interface{}{
			"csv": map[string]interface{}{
				"path":    node.Path,
				"schema":  encodeSchema(node.Schema()),
				"options": encodeCsvOptions(node.Options),
			},
		}

	case *logical.DataFrameOp:
		if node.Operation.Type == logical.OperationReverse {
			return map[string]interface{}{
				"reverse": map[string]interface{}{
					"input": encodeNode(node.Input),
				},
			}
		}
		return map[string]interface{}{
			"sort": map[string]interface{}{
				"by":         node.Operation.By,
				"descending": node.Operation.Descending,
				"input":      encodeNode(node.Input),
			},
		}

	case *logical.Distinct:
		spec := map[string]interface{}{
			"maintainOrder": node.MaintainOrder,
			"input":         encodeNode(node.Input),
		}
		if len(node.Subset) > 0 {
			spec["subset"] = node.Subset
		}
		return map[string]interface{}{
			"distinct": spec,
		}

	case *logical.Aggregate:
		return map[string]interface{}{
			"aggregate": map[string]interface{}{
				"keys":  encodeExpressions(node.Keys),
				"aggs":  encodeExpressions(node.Aggs),
				"input": encodeNode(node.Input),
			},
		}

	case *logical.Join:
		return map[string]interface{}{
			"join": map[string]interface{}{
				"how":     node.How.String(),
				"leftOn":  encodeExpression(node.LeftOn),
				"rightOn": encodeExpression(node.RightOn),
				"left":    encodeNode(node.Left),
				"right":   encodeNode(node.Right),
			},
		}

	case *logical.HStack:
		return map[string]interface{}{
			"withColumns": map[string]interface{}{
				"exprs": encodeExpressions(node.Exprs),
				"input": encodeNode(node.Input),
			},
		}
	}

	panic("unexhaustive node type match")
}

func encodeSchema(schema logical.Schema) []interface{} {
	out := make([]interface{}, len(schema.Fields))
	for i, field := range schema.Fields {
		out[i] = map[string]interface{}{
			"name": field.Name,
			"type": field.Type.String(),
		}
	}
	return out
}

func encodeCsvOptions(options logical.CsvOptions) map[string]interface{} {
	out := map[string]interface{}{
		"hasHeader":    options.HasHeader,
		"delimiter":    string(options.Delimiter),
		"ignoreErrors": options.IgnoreErrors,
		"skipRows":     options.SkipRows,
	}
	if options.StopAfterNRows != nil {
		out["stopAfterNRows"] = *options.StopAfterNRows
	}
	if options.WithColumns != nil {
		out["withColumns"] = options.WithColumns
	}
	return out
}

func encodeExpressions(exprs []logical.Expression) []interface{} {
	out := make([]interface{}, len(exprs))
	for i := range exprs {
		out[i] = encodeExpression(exprs[i])
	}
	return out
}

func encodeExpression(expr logical.Expression) map[string]interface{} {
	switch expr := expr.(type) {
	case *logical.Column:
		return map[string]interface{}{"col": expr.Name}
	case *logical.Literal:
		return map[string]interface{}{"lit": expr.Value.ToRaw()}
	case *logical.Alias:
		return map[string]interface{}{
			"alias": map[string]interface{}{
				"expr": encodeExpression(expr.Expr),
				"name": expr.Name,
			},
		}
	case *logical.BinaryExpr:
		name := operatorName(expr.Op)
		return map[string]interface{}{
			name: []interface{}{encodeExpression(expr.Left), encodeExpression(expr.Right)},
		}
	case *logical.Not:
		return map[string]interface{}{"not": encodeExpression(expr.Expr)}
	case *logical.IsNull:
		return map[string]interface{}{"isNull": encodeExpression(expr.Expr)}
	case *logical.IsNotNull:
		return map[string]interface{}{"isNotNull": encodeExpression(expr.Expr)}
	case *logical.IsUnique:
		return map[string]interface{}{"isUnique": encodeExpression(expr.Expr)}
	case *logical.IsDuplicated:
		return map[string]interface{}{"isDuplicated": encodeExpression(expr.Expr)}
	case *logical.Agg:
		return map[string]interface{}{
			"agg": map[string]interface{}{
				"func": expr.Func.String(),
				"expr": encodeExpression(expr.Expr),
			},
		}
	}

	panic("unexhaustive expression type match")
}

func operatorName(op logical.Operator) string {
	switch op {
	case logical.OpAnd:
		return "and"
	case logical.OpOr:
		return "or"
	}
	for name, candidate := range binaryOperators {
		if candidate == op {
			return name
		}
	}
	panic("unknown operator")
}
