package logical

import (
	"github.com/pkg/errors"
)

// Builder wraps plan nodes one on top of another, deriving each new node's schema
// from its input. The first error encountered is kept and returned by Build.
type Builder struct {
	node Node
	err  error
}

func From(node Node) *Builder {
	return &Builder{node: node}
}

func ScanDataFrame(frame *DataFrame, schema Schema) *Builder {
	return From(NewDataFrameScan(frame, schema))
}

func ScanCsv(path string, schema Schema, options CsvOptions) *Builder {
	return From(NewCsvScan(path, schema, options))
}

func (b *Builder) Build() (Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.node, nil
}

func (b *Builder) fail(err error) *Builder {
	return &Builder{err: err}
}

func (b *Builder) Filter(predicate Expression) *Builder {
	if b.err != nil {
		return b
	}
	if !ReferencesOnly(predicate, b.node.Schema()) {
		return b.fail(errors.Wrapf(ErrColumnNotFound, "filter predicate %s reads columns missing from %s", predicate, b.node.Schema()))
	}
	return From(&Selection{
		Predicate: predicate,
		Input:     b.node,
	})
}

func (b *Builder) Project(exprs ...Expression) *Builder {
	if b.err != nil {
		return b
	}
	schema, err := exprsSchema(exprs, b.node.Schema())
	if err != nil {
		return b.fail(errors.Wrap(err, "couldn't derive projection schema"))
	}
	return From(&Projection{
		Exprs:  exprs,
		Input:  b.node,
		schema: schema,
	})
}

func (b *Builder) ProjectLocal(exprs ...Expression) *Builder {
	if b.err != nil {
		return b
	}
	schema, err := exprsSchema(exprs, b.node.Schema())
	if err != nil {
		return b.fail(errors.Wrap(err, "couldn't derive local projection schema"))
	}
	return From(&LocalProjection{
		Exprs:  exprs,
		Input:  b.node,
		schema: schema,
	})
}

func (b *Builder) WithColumns(exprs ...Expression) *Builder {
	if b.err != nil {
		return b
	}
	input := b.node.Schema()
	fields := make([]Field, len(input.Fields))
	copy(fields, input.Fields)
	for i := range exprs {
		field, err := ToField(exprs[i], input)
		if err != nil {
			return b.fail(errors.Wrapf(err, "couldn't derive field of added column with index %d", i))
		}
		replaced := false
		for j := range fields {
			if fields[j].Name == field.Name {
				fields[j] = field
				replaced = true
				break
			}
		}
		if !replaced {
			fields = append(fields, field)
		}
	}
	return From(&HStack{
		Input:  b.node,
		Exprs:  exprs,
		schema: NewSchema(fields...),
	})
}

func (b *Builder) Join(right Node, how JoinType, leftOn, rightOn Expression) *Builder {
	if b.err != nil {
		return b
	}
	leftSchema, rightSchema := b.node.Schema(), right.Schema()
	if _, err := ToField(leftOn, leftSchema); err != nil {
		return b.fail(errors.Wrap(err, "couldn't resolve left join key"))
	}
	if _, err := ToField(rightOn, rightSchema); err != nil {
		return b.fail(errors.Wrap(err, "couldn't resolve right join key"))
	}

	fields := make([]Field, len(leftSchema.Fields), len(leftSchema.Fields)+len(rightSchema.Fields))
	copy(fields, leftSchema.Fields)
	mergedKey := SharedJoinKey(leftOn, rightOn)
	for _, field := range rightSchema.Fields {
		if mergedKey != "" && field.Name == mergedKey {
			continue
		}
		if leftSchema.Has(field.Name) {
			field.Name += RightSuffix
		}
		fields = append(fields, field)
	}

	return From(&Join{
		Left:    b.node,
		Right:   right,
		LeftOn:  leftOn,
		RightOn: rightOn,
		How:     how,
		schema:  NewSchema(fields...),
	})
}

// SharedJoinKey returns the column name both join keys read when they are the same plain column.
// That column appears once in the join output. Otherwise it returns an empty string.
func SharedJoinKey(leftOn, rightOn Expression) string {
	left, ok := leftOn.(*Column)
	if !ok {
		return ""
	}
	right, ok := rightOn.(*Column)
	if !ok {
		return ""
	}
	if left.Name != right.Name {
		return ""
	}
	return left.Name
}

func (b *Builder) Distinct(maintainOrder bool, subset ...string) *Builder {
	if b.err != nil {
		return b
	}
	schema := b.node.Schema()
	for _, column := range subset {
		if !schema.Has(column) {
			return b.fail(errors.Wrapf(ErrColumnNotFound, "distinct subset column %s not in %s", column, schema))
		}
	}
	return From(&Distinct{
		Input:         b.node,
		Subset:        subset,
		MaintainOrder: maintainOrder,
	})
}

func (b *Builder) Sort(by string, descending bool) *Builder {
	return b.Apply(DataFrameOperation{
		Type:       OperationSort,
		By:         by,
		Descending: descending,
	})
}

func (b *Builder) Reverse() *Builder {
	return b.Apply(DataFrameOperation{
		Type: OperationReverse,
	})
}

// Apply wraps the plan with a row reordering operation.
func (b *Builder) Apply(op DataFrameOperation) *Builder {
	if b.err != nil {
		return b
	}
	if op.Type == OperationSort && !b.node.Schema().Has(op.By) {
		return b.fail(errors.Wrapf(ErrColumnNotFound, "sort column %s not in %s", op.By, b.node.Schema()))
	}
	return From(&DataFrameOp{
		Input:     b.node,
		Operation: op,
	})
}

func (b *Builder) GroupBy(keys ...Expression) *GroupBy {
	return &GroupBy{builder: b, keys: keys}
}

type GroupBy struct {
	builder *Builder
	keys    []Expression
}

func (g *GroupBy) Agg(aggs ...Expression) *Builder {
	b := g.builder
	if b.err != nil {
		return b
	}
	schema, err := exprsSchema(append(append([]Expression{}, g.keys...), aggs...), b.node.Schema())
	if err != nil {
		return b.fail(errors.Wrap(err, "couldn't derive aggregate schema"))
	}
	return From(NewAggregate(b.node, g.keys, aggs, schema))
}

func exprsSchema(exprs []Expression, input Schema) (Schema, error) {
	fields := make([]Field, len(exprs))
	for i := range exprs {
		field, err := ToField(exprs[i], input)
		if err != nil {
			return Schema{}, errors.Wrapf(err, "couldn't derive field of expression with index %d", i)
		}
		fields[i] = field
	}
	return NewSchema(fields...), nil
}
