package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/cube2222/lazyplan/config"
	"github.com/cube2222/lazyplan/graph"
	"github.com/cube2222/lazyplan/logical"
	"github.com/cube2222/lazyplan/logs"
	"github.com/cube2222/lazyplan/optimizer"
	"github.com/cube2222/lazyplan/planfile"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize PLAN.yaml",
	Short: "Push filters down the plan and print the result.",
	Example: `lazyplan optimize plan.yaml
lazyplan optimize plan.yaml --diff
lazyplan optimize plan.yaml --explain dot --open
lazyplan optimize plan.yaml -o optimized.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := cfg.Explain.Format
		if cmd.Flags().Changed("explain") {
			format = explainFormat
		}
		if format != config.ExplainText && format != config.ExplainDot {
			return fmt.Errorf("invalid explain format '%s', expected %s or %s", format, config.ExplainText, config.ExplainDot)
		}

		plan, err := readPlan(args[0])
		if err != nil {
			return fmt.Errorf("couldn't read plan: %w", err)
		}

		optimized := plan
		if !noOptimize {
			optimized, err = optimizer.New(cfg.Optimizer, logs.Logger).Optimize(plan)
			if err != nil {
				return fmt.Errorf("couldn't optimize plan: %w", err)
			}
		}

		if outputPath != "" {
			if err := planfile.Write(outputPath, optimized); err != nil {
				return fmt.Errorf("couldn't write optimized plan: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		switch {
		case showDiff:
			return printDiff(out, args[0], plan, optimized)
		case openGraph:
			return openRendered(optimized)
		default:
			return explain(out, format, optimized)
		}
	},
}

var explainFormat string
var showDiff bool
var openGraph bool
var outputPath string
var noOptimize bool

func init() {
	optimizeCmd.Flags().StringVar(&explainFormat, "explain", config.ExplainText, "Output format of the optimized plan: text or dot.")
	optimizeCmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff of the plan before and after optimization.")
	optimizeCmd.Flags().BoolVar(&openGraph, "open", false, "Render the optimized plan with Graphviz and open the image.")
	optimizeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the optimized plan to this plan file.")
	optimizeCmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "Skip optimization, only decode and print the plan.")
	rootCmd.AddCommand(optimizeCmd)
}

func explain(w io.Writer, format string, node logical.Node) error {
	if format == config.ExplainDot {
		g, err := graph.Show(node.Visualize())
		if err != nil {
			return fmt.Errorf("couldn't build graph: %w", err)
		}
		_, err = fmt.Fprintln(w, g.String())
		return err
	}
	_, err := io.WriteString(w, graph.Format(node.Visualize()))
	return err
}

func printDiff(w io.Writer, path string, before, after logical.Node) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(graph.Format(before.Visualize())),
		B:        difflib.SplitLines(graph.Format(after.Visualize())),
		FromFile: path,
		ToFile:   path + " (optimized)",
		Context:  2,
	})
	if err != nil {
		return fmt.Errorf("couldn't diff plans: %w", err)
	}
	if diff == "" {
		_, err = fmt.Fprintln(w, "plan unchanged")
		return err
	}
	_, err = io.WriteString(w, diff)
	return err
}

func openRendered(node logical.Node) error {
	g, err := graph.Show(node.Visualize())
	if err != nil {
		return fmt.Errorf("couldn't build graph: %w", err)
	}
	file, err := os.CreateTemp(os.TempDir(), "lazyplan-explain-*.png")
	if err != nil {
		return fmt.Errorf("couldn't create temporary file: %w", err)
	}
	cmd := exec.Command("dot", "-Tpng")
	cmd.Stdin = strings.NewReader(g.String())
	cmd.Stdout = file
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		file.Close()
		return fmt.Errorf("couldn't render graph: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("couldn't close temporary file: %w", err)
	}
	if err := open.Start(file.Name()); err != nil {
		return fmt.Errorf("couldn't open graph: %w", err)
	}
	return nil
}
