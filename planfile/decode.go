package planfile

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"

	"github.com/cube2222/lazyplan"
	"github.com/cube2222/lazyplan/config"
	"github.com/cube2222/lazyplan/logical"
)

var binaryOperators = map[string]logical.Operator{
	"eq":  logical.OpEqual,
	"neq": logical.OpNotEqual,
	"lt":  logical.OpLess,
	"lte": logical.OpLessEqual,
	"gt":  logical.OpGreater,
	"gte": logical.OpGreaterEqual,
	"add": logical.OpPlus,
	"sub": logical.OpMinus,
	"mul": logical.OpMultiply,
	"div": logical.OpDivide,
}

// single returns the only key of a node or expression description and its body.
func single(description map[string]interface{}) (string, interface{}, error) {
	if len(description) != 1 {
		keys := make([]string, 0, len(description))
		for k := range description {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", nil, errors.Errorf("expected exactly one key, got %v", keys)
	}
	for k, v := range description {
		return k, v, nil
	}
	panic("unreachable")
}

func asMap(value interface{}) (map[string]interface{}, error) {
	out, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("expected map, got %v", reflect.TypeOf(value))
	}
	return out, nil
}

func decodeNode(description map[string]interface{}) (logical.Node, error) {
	kind, body, err := single(description)
	if err != nil {
		return nil, errors.Wrap(err, "invalid node")
	}
	spec, err := asMap(body)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s node", kind)
	}

	var builder *logical.Builder
	switch kind {
	case "dataframe":
		name, err := config.GetString(spec, "name")
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get dataframe name")
		}
		schema, err := decodeSchema(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't decode schema of dataframe %s", name)
		}
		builder = logical.ScanDataFrame(&logical.DataFrame{Name: name}, schema)

	case "csv":
		path, err := config.GetString(spec, "path")
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get csv path")
		}
		schema, err := decodeSchema(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't decode schema of csv file %s", path)
		}
		options, err := decodeCsvOptions(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't decode options of csv file %s", path)
		}
		builder = logical.ScanCsv(path, schema, options)

	case "join":
		left, err := decodeChild(spec, "left")
		if err != nil {
			return nil, err
		}
		right, err := decodeChild(spec, "right")
		if err != nil {
			return nil, err
		}
		howName, err := config.GetString(spec, "how", config.WithDefault("inner"))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get join type")
		}
		how, ok := logical.ParseJoinType(howName)
		if !ok {
			return nil, errors.Errorf("invalid join type: %s", howName)
		}
		leftOn, err := decodeExpressionField(spec, "leftOn")
		if err != nil {
			return nil, err
		}
		rightOn, err := decodeExpressionField(spec, "rightOn")
		if err != nil {
			return nil, err
		}
		builder = logical.From(left).Join(right, how, leftOn, rightOn)

	default:
		input, err := decodeChild(spec, "input")
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s node", kind)
		}
		if builder, err = decodeUnary(kind, spec, logical.From(input)); err != nil {
			return nil, err
		}
	}

	node, err := builder.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't build %s node", kind)
	}
	return node, nil
}

func decodeUnary(kind string, spec map[string]interface{}, input *logical.Builder) (*logical.Builder, error) {
	switch kind {
	case "filter":
		predicate, err := decodeExpressionField(spec, "predicate")
		if err != nil {
			return nil, err
		}
		return input.Filter(predicate), nil

	case "project", "localProject", "withColumns":
		exprs, err := decodeExpressionList(spec, "exprs")
		if err != nil {
			return nil, err
		}
		switch kind {
		case "project":
			return input.Project(exprs...), nil
		case "localProject":
			return input.ProjectLocal(exprs...), nil
		}
		return input.WithColumns(exprs...), nil

	case "sort":
		by, err := config.GetString(spec, "by")
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get sort column")
		}
		descending, err := config.GetBool(spec, "descending", config.WithDefault(false))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get sort direction")
		}
		return input.Sort(by, descending), nil

	case "reverse":
		return input.Reverse(), nil

	case "distinct":
		subset, err := config.GetStringList(spec, "subset", config.WithDefault([]string(nil)))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get distinct subset")
		}
		maintainOrder, err := config.GetBool(spec, "maintainOrder", config.WithDefault(false))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get distinct order flag")
		}
		return input.Distinct(maintainOrder, subset...), nil

	case "aggregate":
		keys, err := decodeExpressionList(spec, "keys")
		if err != nil {
			return nil, err
		}
		aggs, err := decodeExpressionList(spec, "aggs")
		if err != nil {
			return nil, err
		}
		return input.GroupBy(keys...).Agg(aggs...), nil
	}

	return nil, errors.Errorf("unknown node kind: %s", kind)
}

func decodeChild(spec map[string]interface{}, field string) (logical.Node, error) {
	child, err := config.GetMap(spec, field)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't get %s", field)
	}
	node, err := decodeNode(child)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode %s", field)
	}
	return node, nil
}

func decodeSchema(spec map[string]interface{}) (logical.Schema, error) {
	fieldsUntyped, err := config.GetInterfaceList(spec, "schema")
	if err != nil {
		return logical.Schema{}, errors.Wrap(err, "couldn't get schema")
	}
	fields := make([]logical.Field, len(fieldsUntyped))
	for i := range fieldsUntyped {
		fieldSpec, err := asMap(fieldsUntyped[i])
		if err != nil {
			return logical.Schema{}, errors.Wrapf(err, "invalid field with index %d", i)
		}
		name, err := config.GetString(fieldSpec, "name")
		if err != nil {
			return logical.Schema{}, errors.Wrapf(err, "couldn't get name of field with index %d", i)
		}
		typeName, err := config.GetString(fieldSpec, "type")
		if err != nil {
			return logical.Schema{}, errors.Wrapf(err, "couldn't get type of field %s", name)
		}
		t, err := lazyplan.ParseType(typeName)
		if err != nil {
			return logical.Schema{}, errors.Wrapf(err, "couldn't parse type of field %s", name)
		}
		fields[i] = logical.NewField(name, t)
	}
	return logical.NewSchema(fields...), nil
}

func decodeCsvOptions(spec map[string]interface{}) (logical.CsvOptions, error) {
	options := logical.DefaultCsvOptions()
	raw, err := config.GetMap(spec, "options", config.WithDefault(map[string]interface{}{}))
	if err != nil {
		return options, errors.Wrap(err, "couldn't get options")
	}

	if options.HasHeader, err = config.GetBool(raw, "hasHeader", config.WithDefault(options.HasHeader)); err != nil {
		return options, errors.Wrap(err, "couldn't get header flag")
	}
	delimiter, err := config.GetString(raw, "delimiter", config.WithDefault(string(options.Delimiter)))
	if err != nil {
		return options, errors.Wrap(err, "couldn't get delimiter")
	}
	if len(delimiter) != 1 {
		return options, errors.Errorf("delimiter must be a single byte, got %q", delimiter)
	}
	options.Delimiter = delimiter[0]
	if options.IgnoreErrors, err = config.GetBool(raw, "ignoreErrors", config.WithDefault(false)); err != nil {
		return options, errors.Wrap(err, "couldn't get ignore errors flag")
	}
	if options.SkipRows, err = config.GetInt(raw, "skipRows", config.WithDefault(0)); err != nil {
		return options, errors.Wrap(err, "couldn't get rows to skip")
	}
	stopAfter, err := config.GetInt(raw, "stopAfterNRows", config.WithDefault(-1))
	if err != nil {
		return options, errors.Wrap(err, "couldn't get row limit")
	}
	if stopAfter >= 0 {
		options.StopAfterNRows = &stopAfter
	}
	if options.WithColumns, err = config.GetStringList(raw, "withColumns", config.WithDefault([]string(nil))); err != nil {
		return options, errors.Wrap(err, "couldn't get columns to read")
	}
	return options, nil
}

func decodeExpressionField(spec map[string]interface{}, field string) (logical.Expression, error) {
	raw, err := config.GetMap(spec, field)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't get %s", field)
	}
	expr, err := decodeExpression(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode %s", field)
	}
	return expr, nil
}

func decodeExpressionList(spec map[string]interface{}, field string) ([]logical.Expression, error) {
	raw, err := config.GetInterfaceList(spec, field, config.WithDefault([]interface{}{}))
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't get %s", field)
	}
	exprs, err := decodeExpressions(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode %s", field)
	}
	return exprs, nil
}

func decodeExpressions(raw []interface{}) ([]logical.Expression, error) {
	out := make([]logical.Expression, len(raw))
	for i := range raw {
		description, err := asMap(raw[i])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid expression with index %d", i)
		}
		if out[i], err = decodeExpression(description); err != nil {
			return nil, errors.Wrapf(err, "couldn't decode expression with index %d", i)
		}
	}
	return out, nil
}

func decodeExpression(description map[string]interface{}) (logical.Expression, error) {
	kind, body, err := single(description)
	if err != nil {
		return nil, errors.Wrap(err, "invalid expression")
	}

	if op, ok := binaryOperators[kind]; ok {
		operands, err := decodeOperands(kind, body)
		if err != nil {
			return nil, err
		}
		if len(operands) != 2 {
			return nil, errors.Errorf("%s takes 2 operands, got %d", kind, len(operands))
		}
		return logical.NewBinaryExpr(operands[0], op, operands[1]), nil
	}

	switch kind {
	case "col":
		name, ok := body.(string)
		if !ok {
			return nil, errors.Errorf("column name should be a string, got %v", reflect.TypeOf(body))
		}
		return logical.NewColumn(name), nil

	case "lit":
		value, err := lazyplan.NormalizeType(body)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't decode literal")
		}
		return logical.NewLiteral(value), nil

	case "alias":
		spec, err := asMap(body)
		if err != nil {
			return nil, errors.Wrap(err, "invalid alias")
		}
		name, err := config.GetString(spec, "name")
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get alias name")
		}
		expr, err := decodeExpressionField(spec, "expr")
		if err != nil {
			return nil, err
		}
		return logical.NewAlias(expr, name), nil

	case "and", "or":
		operands, err := decodeOperands(kind, body)
		if err != nil {
			return nil, err
		}
		if len(operands) < 2 {
			return nil, errors.Errorf("%s takes at least 2 operands, got %d", kind, len(operands))
		}
		op := logical.OpAnd
		if kind == "or" {
			op = logical.OpOr
		}
		out := operands[0]
		for _, operand := range operands[1:] {
			out = logical.NewBinaryExpr(out, op, operand)
		}
		return out, nil

	case "not", "isNull", "isNotNull", "isUnique", "isDuplicated":
		spec, err := asMap(body)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", kind)
		}
		expr, err := decodeExpression(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't decode %s argument", kind)
		}
		switch kind {
		case "not":
			return logical.NewNot(expr), nil
		case "isNull":
			return logical.NewIsNull(expr), nil
		case "isNotNull":
			return logical.NewIsNotNull(expr), nil
		case "isUnique":
			return logical.NewIsUnique(expr), nil
		}
		return logical.NewIsDuplicated(expr), nil

	case "agg":
		spec, err := asMap(body)
		if err != nil {
			return nil, errors.Wrap(err, "invalid aggregate")
		}
		funcName, err := config.GetString(spec, "func")
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get aggregate function")
		}
		f, ok := logical.ParseAggFunc(funcName)
		if !ok {
			return nil, errors.Errorf("unknown aggregate function: %s", funcName)
		}
		expr, err := decodeExpressionField(spec, "expr")
		if err != nil {
			return nil, err
		}
		return logical.NewAgg(f, expr), nil
	}

	return nil, errors.Errorf("unknown expression kind: %s", kind)
}

func decodeOperands(kind string, body interface{}) ([]logical.Expression, error) {
	raw, ok := body.([]interface{})
	if !ok {
		return nil, errors.Errorf("%s operands should be a list, got %v", kind, reflect.TypeOf(body))
	}
	operands, err := decodeExpressions(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode %s operands", kind)
	}
	return operands, nil
}
