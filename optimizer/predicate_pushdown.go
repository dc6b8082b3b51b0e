package optimizer

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/lazyplan/logical"
)

// PredicatePushdown moves filters as close to the data sources as they can go without
// changing the query result. Filters stopping at the same place are merged.
type PredicatePushdown struct{}

func (*PredicatePushdown) Name() string {
	return "predicate_pushdown"
}

func (rule *PredicatePushdown) Optimize(node logical.Node) (logical.Node, error) {
	return rule.pushDown(node, newPredicates())
}

func (rule *PredicatePushdown) pushDown(node logical.Node, acc *predicates) (logical.Node, error) {
	switch node := node.(type) {
	case *logical.Selection:
		// Column wide predicates see every row of their input, so nothing may cross them.
		if logical.HasKind(node.Predicate, logical.KindColumnWide) {
			input, err := rule.pushDown(node.Input, newPredicates())
			if err != nil {
				return nil, errors.Wrap(err, "couldn't push down predicates into selection input")
			}
			return finish(logical.From(input).Filter(node.Predicate), acc.values())
		}
		if err := acc.add(node.Predicate); err != nil {
			return nil, errors.Wrap(err, "couldn't accumulate selection predicate")
		}
		return rule.pushDown(node.Input, acc)

	case *logical.Projection:
		// Once no projection below can reshape columns there is nothing to gain by going further.
		if logical.CountProjectionsBelow(node.Input) == 0 {
			input, err := rule.pushDown(node.Input, newPredicates())
			if err != nil {
				return nil, errors.Wrap(err, "couldn't push down predicates into projection input")
			}
			return finish(logical.From(input).Project(node.Exprs...), acc.values())
		}

		passThrough := passThroughColumns(node.Exprs, true)
		pushable := newPredicates()
		var local []logical.Expression
		for _, predicate := range acc.values() {
			renamed, ok := renameThrough(predicate, passThrough)
			if !ok {
				local = append(local, predicate)
				continue
			}
			if err := pushable.add(renamed); err != nil {
				return nil, errors.Wrap(err, "couldn't accumulate renamed predicate")
			}
		}
		input, err := rule.pushDown(node.Input, pushable)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't push down predicates into projection input")
		}
		return finish(logical.From(input).Project(node.Exprs...), local)

	case *logical.LocalProjection:
		passThrough := passThroughColumns(node.Exprs, false)
		pushable, local := acc.split(func(predicate logical.Expression) bool {
			_, ok := renameThrough(predicate, passThrough)
			return ok
		})
		input, err := rule.pushDown(node.Input, pushable)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't push down predicates into local projection input")
		}
		schema := input.Schema()
		exprs := make([]logical.Expression, 0, len(node.Exprs))
		for _, expr := range node.Exprs {
			if logical.ReferencesOnly(expr, schema) {
				exprs = append(exprs, expr)
			}
		}
		return finish(logical.From(input).ProjectLocal(exprs...), local)

	case *logical.DataFrameScan, *logical.CsvScan:
		return finish(logical.From(node), acc.values())

	case *logical.DataFrameOp:
		input, err := rule.pushDown(node.Input, acc)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't push down predicates into operation input")
		}
		return finish(logical.From(input).Apply(node.Operation), nil)

	case *logical.Distinct:
		// Filtering earlier may change which row of a group is the first one.
		pushable, local := acc.split(func(predicate logical.Expression) bool {
			if logical.HasKind(predicate, logical.KindCrossColumn) {
				return false
			}
			return len(node.Subset) == 0 || readsOnly(predicate, node.Subset)
		})
		input, err := rule.pushDown(node.Input, pushable)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't push down predicates into distinct input")
		}
		return finish(logical.From(input).Distinct(node.MaintainOrder, node.Subset...), local)

	case *logical.Aggregate:
		input, err := rule.pushDown(node.Input, newPredicates())
		if err != nil {
			return nil, errors.Wrap(err, "couldn't push down predicates into aggregate input")
		}
		return finish(logical.From(logical.NewAggregate(input, node.Keys, node.Aggs, node.Schema())), acc.values())

	case *logical.Join:
		return rule.pushDownJoin(node, acc)

	case *logical.HStack:
		inputSchema := node.Input.Schema()
		added := make(map[string]bool, len(node.Exprs))
		for i, expr := range node.Exprs {
			field, err := logical.ToField(expr, inputSchema)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't get field of added column with index %d", i)
			}
			added[field.Name] = true
		}
		pushable, local := acc.split(func(predicate logical.Expression) bool {
			if !logical.ReferencesOnly(predicate, inputSchema) {
				return false
			}
			for _, column := range logical.Columns(predicate) {
				if added[column] {
					return false
				}
			}
			return true
		})
		input, err := rule.pushDown(node.Input, pushable)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't push down predicates into hstack input")
		}
		return finish(logical.From(input).WithColumns(node.Exprs...), local)
	}

	panic("unexhaustive node type match")
}

func (rule *PredicatePushdown) pushDownJoin(node *logical.Join, acc *predicates) (logical.Node, error) {
	leftSchema, rightSchema := node.Left.Schema(), node.Right.Schema()
	sharedKey := logical.SharedJoinKey(node.LeftOn, node.RightOn)

	pushdownLeft, pushdownRight := newPredicates(), newPredicates()
	var local []logical.Expression
	for _, predicate := range acc.values() {
		// Joins can create and remove duplicates.
		if logical.HasKind(predicate, logical.KindColumnWide) {
			local = append(local, predicate)
			continue
		}
		// Left and outer joins fill unmatched rows with nulls.
		if node.How != logical.JoinInner && logical.HasKind(predicate, logical.KindNullTest) {
			local = append(local, predicate)
			continue
		}

		filterLeft, filterRight := false, false
		if logical.ReferencesOnly(predicate, leftSchema) {
			if err := pushdownLeft.add(predicate); err != nil {
				return nil, errors.Wrap(err, "couldn't accumulate left join predicate")
			}
			filterLeft = true
		}
		if mapping, ok := rightColumns(predicate, leftSchema, rightSchema, sharedKey, node.How); ok {
			if err := pushdownRight.add(logical.RenameColumns(predicate, mapping)); err != nil {
				return nil, errors.Wrap(err, "couldn't accumulate right join predicate")
			}
			filterRight = true
		}

		switch {
		case !filterLeft && !filterRight:
			local = append(local, predicate)
		case filterLeft && node.How == logical.JoinOuter:
			local = append(local, predicate)
		case filterRight && node.How != logical.JoinInner:
			local = append(local, predicate)
		}
	}

	left, err := rule.pushDown(node.Left, pushdownLeft)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't push down predicates into left join input")
	}
	right, err := rule.pushDown(node.Right, pushdownRight)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't push down predicates into right join input")
	}
	return finish(logical.From(left).Join(right, node.How, node.LeftOn, node.RightOn), local)
}

// rightColumns maps the join output columns read by predicate to right input columns.
// A column shared by both inputs only maps to the right when it's the merged key of an inner join.
func rightColumns(predicate logical.Expression, leftSchema, rightSchema logical.Schema, sharedKey string, how logical.JoinType) (map[string]string, bool) {
	mapping := make(map[string]string)
	for _, column := range logical.Columns(predicate) {
		switch {
		case leftSchema.Has(column):
			if column != sharedKey || how != logical.JoinInner {
				return nil, false
			}
			mapping[column] = column
		case rightSchema.Has(column):
			mapping[column] = column
		case strings.HasSuffix(column, logical.RightSuffix):
			base := strings.TrimSuffix(column, logical.RightSuffix)
			if base == sharedKey || !leftSchema.Has(base) || !rightSchema.Has(base) {
				return nil, false
			}
			mapping[column] = base
		default:
			return nil, false
		}
	}
	return mapping, true
}

// passThroughColumns maps output column names to the input columns they pass through unchanged.
func passThroughColumns(exprs []logical.Expression, withAliases bool) map[string]string {
	out := make(map[string]string)
	for _, expr := range exprs {
		switch expr := expr.(type) {
		case *logical.Column:
			out[expr.Name] = expr.Name
		case *logical.Alias:
			if column, ok := expr.Expr.(*logical.Column); ok && withAliases {
				out[expr.Name] = column.Name
			}
		}
	}
	return out
}

// renameThrough rewrites predicate to read the input columns behind the pass through ones.
// It fails if predicate reads any computed column.
func renameThrough(predicate logical.Expression, passThrough map[string]string) (logical.Expression, bool) {
	columns := logical.Columns(predicate)
	for _, column := range columns {
		if _, ok := passThrough[column]; !ok {
			return nil, false
		}
	}
	if len(columns) == 1 {
		renamed, err := logical.RenameRoot(predicate, passThrough[columns[0]])
		if err != nil {
			return nil, false
		}
		return renamed, true
	}
	return logical.RenameColumns(predicate, passThrough), true
}

func readsOnly(predicate logical.Expression, columns []string) bool {
	for _, column := range logical.Columns(predicate) {
		found := false
		for i := range columns {
			if columns[i] == column {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// finish builds the plan and wraps it with a filter holding the predicates, if there are any.
func finish(builder *logical.Builder, predicates []logical.Expression) (logical.Node, error) {
	if len(predicates) > 0 {
		builder = builder.Filter(reduceAnd(predicates))
	}
	node, err := builder.Build()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't rebuild plan")
	}
	return node, nil
}
