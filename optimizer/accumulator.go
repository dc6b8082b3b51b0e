package optimizer

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/cube2222/lazyplan/logical"
)

var ErrAmbiguousPredicateKey = errors.New("predicate reads neither a single column nor two single column operands")

// AmbiguousPredicateKeyError identifies the filter predicate which couldn't be keyed.
type AmbiguousPredicateKeyError struct {
	Predicate logical.Expression
}

func (err *AmbiguousPredicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAmbiguousPredicateKey, err.Predicate)
}

func (err *AmbiguousPredicateKeyError) Cause() error {
	return ErrAmbiguousPredicateKey
}

func (err *AmbiguousPredicateKeyError) Unwrap() error {
	return ErrAmbiguousPredicateKey
}

// predicateKey returns the accumulator key of a predicate: its root column, or a
// composite key for binary expressions with a distinct single column on each side.
func predicateKey(predicate logical.Expression) (string, error) {
	if root, err := logical.RootColumn(predicate); err == nil {
		return root, nil
	}
	binary, ok := predicate.(*logical.BinaryExpr)
	if !ok {
		return "", &AmbiguousPredicateKeyError{Predicate: predicate}
	}
	left, err := logical.RootColumn(binary.Left)
	if err != nil {
		return "", &AmbiguousPredicateKeyError{Predicate: predicate}
	}
	right, err := logical.RootColumn(binary.Right)
	if err != nil {
		return "", &AmbiguousPredicateKeyError{Predicate: predicate}
	}
	return fmt.Sprintf("%s-binary-%s", left, right), nil
}

// predicates accumulates the row wise filters which haven't been applied yet.
// Each key holds the AND of everything merged under it, iteration follows key order.
type predicates struct {
	tree *btree.Map[string, logical.Expression]
}

func newPredicates() *predicates {
	return &predicates{
		tree: btree.NewMap[string, logical.Expression](0),
	}
}

// add splits the predicate into conjuncts and merges each under its own key.
// Conjuncts end up in the same order they had in the predicate, ahead of what was merged before.
func (p *predicates) add(predicate logical.Expression) error {
	conjuncts := logical.SplitByAnd(predicate)
	for i := len(conjuncts) - 1; i >= 0; i-- {
		key, err := predicateKey(conjuncts[i])
		if err != nil {
			return err
		}
		p.merge(key, conjuncts[i])
	}
	return nil
}

// merge puts the predicate in front of the one already stored under key, if any.
// Predicates already present under the key are skipped.
func (p *predicates) merge(key string, predicate logical.Expression) {
	if existing, ok := p.tree.Get(key); ok {
		for _, conjunct := range logical.SplitByAnd(existing) {
			if logical.EqualExpressions(conjunct, predicate) == nil {
				return
			}
		}
		predicate = logical.And(predicate, existing)
	}
	p.tree.Set(key, predicate)
}

func (p *predicates) len() int {
	return p.tree.Len()
}

type keyedPredicate struct {
	key       string
	predicate logical.Expression
}

func (p *predicates) items() []keyedPredicate {
	out := make([]keyedPredicate, 0, p.tree.Len())
	p.tree.Scan(func(key string, predicate logical.Expression) bool {
		out = append(out, keyedPredicate{key: key, predicate: predicate})
		return true
	})
	return out
}

func (p *predicates) values() []logical.Expression {
	out := make([]logical.Expression, 0, p.tree.Len())
	p.tree.Scan(func(key string, predicate logical.Expression) bool {
		out = append(out, predicate)
		return true
	})
	return out
}

// split moves the predicates which can't be pushed out of the accumulator.
// The pushable ones keep their keys.
func (p *predicates) split(pushable func(predicate logical.Expression) bool) (*predicates, []logical.Expression) {
	out := newPredicates()
	var local []logical.Expression
	for _, item := range p.items() {
		if pushable(item.predicate) {
			out.tree.Set(item.key, item.predicate)
		} else {
			local = append(local, item.predicate)
		}
	}
	return out, local
}

// reduceAnd combines the predicates, left to right.
func reduceAnd(predicates []logical.Expression) logical.Expression {
	if len(predicates) == 0 {
		panic("reduceAnd called with no predicates")
	}
	out := predicates[0]
	for _, predicate := range predicates[1:] {
		out = logical.And(out, predicate)
	}
	return out
}
