package logical

import (
	"fmt"
	"strings"

	"github.com/cube2222/lazyplan/graph"
)

// Node is a node of the lazy query plan. Nodes are immutable once built,
// each carries the schema of the rows it produces.
type Node interface {
	graph.Visualizer
	Schema() Schema
	Children() []Node
	node()
}

func expressionsString(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i := range exprs {
		parts[i] = exprs[i].String()
	}
	return strings.Join(parts, ", ")
}

type Selection struct {
	Predicate Expression
	Input     Node
}

func (*Selection) node() {}

func (node *Selection) Schema() Schema {
	return node.Input.Schema()
}

func (node *Selection) Children() []Node {
	return []Node{node.Input}
}

func (node *Selection) Visualize() *graph.Node {
	n := graph.NewNode("Selection")
	n.AddField("predicate", node.Predicate.String())
	n.AddChild("input", node.Input.Visualize())
	return n
}

type Projection struct {
	Exprs  []Expression
	Input  Node
	schema Schema
}

func (*Projection) node() {}

func (node *Projection) Schema() Schema {
	return node.schema
}

func (node *Projection) Children() []Node {
	return []Node{node.Input}
}

func (node *Projection) Visualize() *graph.Node {
	n := graph.NewNode("Projection")
	n.AddField("exprs", expressionsString(node.Exprs))
	n.AddChild("input", node.Input.Visualize())
	return n
}

// LocalProjection selects columns produced by a wildcard expansion.
// Its expressions may be dropped when the input no longer provides them.
type LocalProjection struct {
	Exprs  []Expression
	Input  Node
	schema Schema
}

func (*LocalProjection) node() {}

func (node *LocalProjection) Schema() Schema {
	return node.schema
}

func (node *LocalProjection) Children() []Node {
	return []Node{node.Input}
}

func (node *LocalProjection) Visualize() *graph.Node {
	n := graph.NewNode("LocalProjection")
	n.AddField("exprs", expressionsString(node.Exprs))
	n.AddChild("input", node.Input.Visualize())
	return n
}

// DataFrame describes an in-memory frame registered under a name.
type DataFrame struct {
	Name string
}

type DataFrameScan struct {
	Frame  *DataFrame
	schema Schema
}

func NewDataFrameScan(frame *DataFrame, schema Schema) *DataFrameScan {
	return &DataFrameScan{Frame: frame, schema: schema}
}

func (*DataFrameScan) node() {}

func (node *DataFrameScan) Schema() Schema {
	return node.schema
}

func (node *DataFrameScan) Children() []Node {
	return nil
}

func (node *DataFrameScan) Visualize() *graph.Node {
	n := graph.NewNode("DataFrameScan")
	n.AddField("frame", node.Frame.Name)
	n.AddField("schema", node.schema.String())
	return n
}

type CsvOptions struct {
	HasHeader    bool
	Delimiter    byte
	IgnoreErrors bool
	SkipRows     int
	// StopAfterNRows is nil when the whole file should be read.
	StopAfterNRows *int
	// WithColumns restricts the columns read, nil means all.
	WithColumns []string
}

func DefaultCsvOptions() CsvOptions {
	return CsvOptions{
		HasHeader: true,
		Delimiter: ',',
	}
}

type CsvScan struct {
	Path    string
	Options CsvOptions
	schema  Schema
}

func NewCsvScan(path string, schema Schema, options CsvOptions) *CsvScan {
	return &CsvScan{Path: path, Options: options, schema: schema}
}

func (*CsvScan) node() {}

func (node *CsvScan) Schema() Schema {
	return node.schema
}

func (node *CsvScan) Children() []Node {
	return nil
}

func (node *CsvScan) Visualize() *graph.Node {
	n := graph.NewNode("CsvScan")
	n.AddField("path", node.Path)
	n.AddField("schema", node.schema.String())
	return n
}

type OperationType int

const (
	OperationSort OperationType = iota
	OperationReverse
)

func (t OperationType) String() string {
	switch t {
	case OperationSort:
		return "sort"
	case OperationReverse:
		return "reverse"
	}
	return "unknown"
}

// DataFrameOperation reorders rows without adding, removing or changing any.
type DataFrameOperation struct {
	Type OperationType
	// By and Descending are only set for sorts.
	By         string
	Descending bool
}

func (op DataFrameOperation) String() string {
	if op.Type == OperationSort {
		if op.Descending {
			return fmt.Sprintf("sort(%s desc)", op.By)
		}
		return fmt.Sprintf("sort(%s)", op.By)
	}
	return op.Type.String()
}

type DataFrameOp struct {
	Input     Node
	Operation DataFrameOperation
}

func (*DataFrameOp) node() {}

func (node *DataFrameOp) Schema() Schema {
	return node.Input.Schema()
}

func (node *DataFrameOp) Children() []Node {
	return []Node{node.Input}
}

func (node *DataFrameOp) Visualize() *graph.Node {
	n := graph.NewNode("DataFrameOp")
	n.AddField("operation", node.Operation.String())
	n.AddChild("input", node.Input.Visualize())
	return n
}

// Distinct keeps the first row for each distinct combination of the subset columns,
// or of all columns if the subset is empty.
type Distinct struct {
	Input         Node
	Subset        []string
	MaintainOrder bool
}

func (*Distinct) node() {}

func (node *Distinct) Schema() Schema {
	return node.Input.Schema()
}

func (node *Distinct) Children() []Node {
	return []Node{node.Input}
}

func (node *Distinct) Visualize() *graph.Node {
	n := graph.NewNode("Distinct")
	if len(node.Subset) > 0 {
		n.AddField("subset", strings.Join(node.Subset, ", "))
	}
	n.AddField("maintain_order", fmt.Sprint(node.MaintainOrder))
	n.AddChild("input", node.Input.Visualize())
	return n
}

type Aggregate struct {
	Input  Node
	Keys   []Expression
	Aggs   []Expression
	schema Schema
}

func NewAggregate(input Node, keys, aggs []Expression, schema Schema) *Aggregate {
	return &Aggregate{Input: input, Keys: keys, Aggs: aggs, schema: schema}
}

func (*Aggregate) node() {}

func (node *Aggregate) Schema() Schema {
	return node.schema
}

func (node *Aggregate) Children() []Node {
	return []Node{node.Input}
}

func (node *Aggregate) Visualize() *graph.Node {
	n := graph.NewNode("Aggregate")
	n.AddField("keys", expressionsString(node.Keys))
	n.AddField("aggs", expressionsString(node.Aggs))
	n.AddChild("input", node.Input.Visualize())
	return n
}

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinOuter
)

func (t JoinType) String() string {
	switch t {
	case JoinInner:
		return "inner"
	case JoinLeft:
		return "left"
	case JoinOuter:
		return "outer"
	}
	return "unknown"
}

func ParseJoinType(s string) (JoinType, bool) {
	switch strings.ToLower(s) {
	case "inner", "":
		return JoinInner, true
	case "left":
		return JoinLeft, true
	case "outer", "full":
		return JoinOuter, true
	}
	return 0, false
}

// RightSuffix is appended to right side column names clashing with the left side.
const RightSuffix = "_right"

type Join struct {
	Left, Right     Node
	LeftOn, RightOn Expression
	How             JoinType
	schema          Schema
}

func (*Join) node() {}

func (node *Join) Schema() Schema {
	return node.schema
}

func (node *Join) Children() []Node {
	return []Node{node.Left, node.Right}
}

func (node *Join) Visualize() *graph.Node {
	n := graph.NewNode("Join")
	n.AddField("how", node.How.String())
	n.AddField("on", fmt.Sprintf("%s = %s", node.LeftOn, node.RightOn))
	n.AddChild("left", node.Left.Visualize())
	n.AddChild("right", node.Right.Visualize())
	return n
}

// HStack adds columns computed from the input, replacing existing ones with the same name.
type HStack struct {
	Input  Node
	Exprs  []Expression
	schema Schema
}

func (*HStack) node() {}

func (node *HStack) Schema() Schema {
	return node.schema
}

func (node *HStack) Children() []Node {
	return []Node{node.Input}
}

func (node *HStack) Visualize() *graph.Node {
	n := graph.NewNode("HStack")
	n.AddField("exprs", expressionsString(node.Exprs))
	n.AddChild("input", node.Input.Visualize())
	return n
}
