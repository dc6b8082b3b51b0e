package planfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/lazyplan"
	"github.com/cube2222/lazyplan/logical"
)

func TestReadFilterCsv(t *testing.T) {
	stopAfter := 100
	options := logical.DefaultCsvOptions()
	options.HasHeader = false
	options.Delimiter = ';'
	options.StopAfterNRows = &stopAfter

	want, err := logical.ScanCsv(
		"data.csv",
		logical.NewSchema(
			logical.NewField("a", lazyplan.Int),
			logical.NewField("b", lazyplan.String),
		),
		options,
	).
		Filter(logical.NewBinaryExpr(logical.NewColumn("a"), logical.OpGreater, logical.NewLiteral(lazyplan.NewInt(1)))).
		Build()
	require.NoError(t, err)

	got, err := Read("testdata/filter_csv.yaml")
	require.NoError(t, err)
	assert.NoError(t, logical.EqualNodes(want, got))
}

func TestReadJoin(t *testing.T) {
	got, err := Read("testdata/join.yaml")
	require.NoError(t, err)

	selection, ok := got.(*logical.Selection)
	require.True(t, ok, "expected a selection on top, got %T", got)
	assert.Len(t, logical.SplitByAnd(selection.Predicate), 3)

	join, ok := selection.Input.(*logical.Join)
	require.True(t, ok, "expected a join below the selection, got %T", selection.Input)
	assert.Equal(t, logical.JoinLeft, join.How)
	assert.Equal(t, []string{"id", "price", "city", "name"}, join.Schema().Names())

	distinct, ok := join.Right.(*logical.Distinct)
	require.True(t, ok, "expected a distinct on the right, got %T", join.Right)
	assert.Equal(t, []string{"id"}, distinct.Subset)
	assert.True(t, distinct.MaintainOrder)
}

func TestRoundTrip(t *testing.T) {
	tests := []string{
		"testdata/filter_csv.yaml",
		"testdata/join.yaml",
		"testdata/aggregate.yaml",
	}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			node, err := Read(path)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, node))
			assert.Contains(t, buf.String(), `version: "1.0"`)

			decoded, err := Decode(&buf)
			require.NoError(t, err)
			assert.NoError(t, logical.EqualNodes(node, decoded))
		})
	}
}

func TestWrite(t *testing.T) {
	node, err := Read("testdata/aggregate.yaml")
	require.NoError(t, err)

	path := t.TempDir() + "/plan.yaml"
	require.NoError(t, Write(path, node))

	reread, err := Read(path)
	require.NoError(t, err)
	assert.NoError(t, logical.EqualNodes(node, reread))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
	}{
		{
			name:  "unsupported version",
			input: "testdata/unsupported_version.yaml",
			cause: ErrUnsupportedVersion,
		},
		{
			name:  "unknown column",
			input: "testdata/unknown_column.yaml",
			cause: logical.ErrColumnNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.cause, errors.Cause(err))
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing version",
			input: "plan: { dataframe: { name: a, schema: [] } }",
		},
		{
			name: "two node kinds",
			input: `version: "1.0"
plan:
  reverse: { input: { dataframe: { name: a, schema: [ { name: x, type: Int } ] } } }
  dataframe: { name: a, schema: [ { name: x, type: Int } ] }`,
		},
		{
			name: "unknown expression",
			input: `version: "1.0"
plan:
  filter:
    predicate: { like: [ { col: x }, { lit: "a%" } ] }
    input: { dataframe: { name: a, schema: [ { name: x, type: String } ] } }`,
		},
		{
			name: "unknown type",
			input: `version: "1.0"
plan:
  dataframe: { name: a, schema: [ { name: x, type: Decimal } ] }`,
		},
		{
			name: "bad delimiter",
			input: `version: "1.0"
plan:
  csv: { path: a.csv, schema: [ { name: x, type: Int } ], options: { delimiter: "ab" } }`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
