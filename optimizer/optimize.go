package optimizer

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cube2222/lazyplan/config"
	"github.com/cube2222/lazyplan/logical"
)

// Rule rewrites a plan into an equivalent one.
type Rule interface {
	Name() string
	Optimize(node logical.Node) (logical.Node, error)
}

// maxPasses bounds the fixpoint loop in case rules keep undoing each other.
const maxPasses = 16

type Optimizer struct {
	rules  []Rule
	strict bool
	logger logrus.FieldLogger
}

func New(cfg config.Optimizer, logger logrus.FieldLogger) *Optimizer {
	var rules []Rule
	if cfg.PredicatePushdown {
		rules = append(rules, &PredicatePushdown{})
	}
	return NewWithRules(rules, cfg.Strict, logger)
}

func NewWithRules(rules []Rule, strict bool, logger logrus.FieldLogger) *Optimizer {
	return &Optimizer{
		rules:  rules,
		strict: strict,
		logger: logger,
	}
}

// Optimize runs the rules until none of them changes the plan.
// A failing rule is dropped and the plan from before it is kept, unless the optimizer is strict.
func (o *Optimizer) Optimize(node logical.Node) (logical.Node, error) {
	logger := o.logger.WithField("run", ulid.MustNew(ulid.Now(), rand.Reader).String())
	start := time.Now()

	rules := o.rules
	changed := true
	passes := 0
	for changed && passes < maxPasses {
		passes++
		changed = false
		active := make([]Rule, 0, len(rules))
		for _, rule := range rules {
			ruleLogger := logger.WithField("rule", rule.Name())
			ruleLogger.Debug("applying rule")

			output, err := rule.Optimize(node)
			if err != nil {
				if o.strict {
					return nil, errors.Wrapf(err, "couldn't apply %s rule", rule.Name())
				}
				ruleLogger.WithError(err).Warn("rule failed, keeping the plan from before it")
				continue
			}
			active = append(active, rule)

			if diff := logical.EqualNodes(node, output); diff != nil {
				ruleLogger.WithField("difference", diff.Error()).Debug("rule changed the plan")
				changed = true
				node = output
			}
		}
		rules = active
	}

	logger.WithFields(logrus.Fields{
		"passes":   passes,
		"duration": time.Since(start),
	}).Debug("optimization finished")

	return node, nil
}
