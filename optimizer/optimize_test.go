package optimizer

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/lazyplan/config"
	"github.com/cube2222/lazyplan/logical"
)

type countingRule struct {
	calls int
}

func (*countingRule) Name() string {
	return "counting"
}

func (rule *countingRule) Optimize(node logical.Node) (logical.Node, error) {
	rule.calls++
	return node, nil
}

type failingRule struct{}

func (failingRule) Name() string {
	return "failing"
}

func (failingRule) Optimize(node logical.Node) (logical.Node, error) {
	return nil, errors.New("always fails")
}

func TestOptimizer(t *testing.T) {
	logger, _ := test.NewNullLogger()
	plan := build(t, orders().Reverse().Filter(gt(col("price"), lit(10))))
	want := build(t, orders().Filter(gt(col("price"), lit(10))).Reverse())

	got, err := New(config.Optimizer{PredicatePushdown: true}, logger).Optimize(plan)
	require.NoError(t, err)
	assert.NoError(t, logical.EqualNodes(want, got))

	got, err = New(config.Optimizer{PredicatePushdown: false}, logger).Optimize(plan)
	require.NoError(t, err)
	assert.NoError(t, logical.EqualNodes(plan, got))
}

func TestOptimizerRunsUntilFixpoint(t *testing.T) {
	logger, _ := test.NewNullLogger()
	counting := &countingRule{}
	plan := build(t, orders().Reverse().Filter(gt(col("price"), lit(10))))

	_, err := NewWithRules([]Rule{&PredicatePushdown{}, counting}, false, logger).Optimize(plan)
	require.NoError(t, err)
	// The first pass changes the plan, the second one confirms nothing changes anymore.
	assert.Equal(t, 2, counting.calls)
}

func TestOptimizerFallback(t *testing.T) {
	plan := build(t, orders().Reverse().
		Filter(gt(logical.NewBinaryExpr(col("id"), logical.OpPlus, col("price")), lit(1))))

	t.Run("lenient", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		got, err := New(config.Optimizer{PredicatePushdown: true}, logger).Optimize(plan)
		require.NoError(t, err)
		assert.NoError(t, logical.EqualNodes(plan, got))

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, "predicate_pushdown", hook.LastEntry().Data["rule"])
	})

	t.Run("strict", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		got, err := New(config.Optimizer{PredicatePushdown: true, Strict: true}, logger).Optimize(plan)
		assert.Nil(t, got)
		assert.Equal(t, ErrAmbiguousPredicateKey, errors.Cause(err))
	})

	t.Run("failing rule is skipped", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		ok := build(t, orders().Reverse().Filter(gt(col("price"), lit(10))))
		want := build(t, orders().Filter(gt(col("price"), lit(10))).Reverse())

		got, err := NewWithRules([]Rule{failingRule{}, &PredicatePushdown{}}, false, logger).Optimize(ok)
		require.NoError(t, err)
		assert.NoError(t, logical.EqualNodes(want, got))
		assert.Len(t, hook.AllEntries(), 1)
	})
}
