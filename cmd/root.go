package cmd

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/cube2222/lazyplan/config"
	"github.com/cube2222/lazyplan/logical"
	"github.com/cube2222/lazyplan/logs"
	"github.com/cube2222/lazyplan/planfile"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lazyplan",
	Short: "Inspect and optimize lazy query plans.",
	Long: `lazyplan reads logical query plans described in YAML and rewrites them,
moving filters as close to the data sources as their semantics allow.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Read(configPath)
		if err != nil {
			return fmt.Errorf("couldn't read config: %w", err)
		}
		if err := logs.InitializeFileLogger(cfg.Logging); err != nil {
			return fmt.Errorf("couldn't initialize logger: %w", err)
		}
		if cpuProfile {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		}
		return nil
	},
}

func Execute(ctx context.Context) {
	cobra.CheckErr(execute(ctx))
}

// execute runs the command tree and releases the profiler and log file, also when the command fails.
func execute(ctx context.Context) error {
	defer cleanup()
	return rootCmd.ExecuteContext(ctx)
}

func cleanup() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
	logs.CloseLogger()
}

var cfg *config.Config
var configPath string
var dump bool
var cpuProfile bool
var profiler interface{ Stop() }

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path, defaults to ~/.lazyplan/config.yaml.")
	rootCmd.PersistentFlags().BoolVar(&dump, "dump", false, "Log a dump of the decoded plan at debug level.")
	rootCmd.PersistentFlags().BoolVar(&cpuProfile, "profile", false, "Write a CPU profile to the working directory.")
}

func readPlan(path string) (logical.Node, error) {
	node, err := planfile.Read(path)
	if err != nil {
		return nil, err
	}
	if dump {
		logs.Logger.WithField("path", path).Debug(spew.Sdump(node))
	}
	return node, nil
}
