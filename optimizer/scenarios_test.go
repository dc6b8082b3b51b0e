package optimizer

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/lazyplan/config"
	"github.com/cube2222/lazyplan/graph"
	"github.com/cube2222/lazyplan/planfile"
)

var update = flag.Bool("update", false, "Overwrite the expected scenario outputs.")

// Each scenario is a plan file next to the expected text rendering of its optimized plan.
func TestScenarios(t *testing.T) {
	var scenarios []string
	err := filepath.WalkDir("testdata/scenarios", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filepath.Ext(path) != ".yaml" {
			return nil
		}
		scenarios = append(scenarios, strings.TrimSuffix(path, ".yaml"))
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(filepath.Base(scenario), func(t *testing.T) {
			plan, err := planfile.Read(scenario + ".yaml")
			require.NoError(t, err)

			logger, _ := test.NewNullLogger()
			optimized, err := New(config.Optimizer{PredicatePushdown: true, Strict: true}, logger).Optimize(plan)
			require.NoError(t, err)
			got := graph.Format(optimized.Visualize())

			if *update {
				require.NoError(t, os.WriteFile(scenario+".out", []byte(got), 0644))
				return
			}

			want, err := os.ReadFile(scenario + ".out")
			require.NoError(t, err)
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(string(want)),
				B:        difflib.SplitLines(got),
				FromFile: "Expected Plan",
				ToFile:   "Actual Plan",
				Context:  2,
			})
			require.NoError(t, err)
			if diff != "" {
				t.Errorf("optimized plan differs:\n%s", diff)
			}
		})
	}
}
