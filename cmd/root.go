package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"agent-sim/simulation"
)

var (
	// CLI flags shared by every command
	seed         int64  // Seed overriding the scenario's
	maxSteps     int    // Step limit overriding the scenario's
	runName      string // Output subdirectory overriding the scenario's name
	outDir       string // Base directory for run outputs
	logLevel     string // Log verbosity level
	showProgress bool   // Render a progress bar

	// CLI flags for run
	configPath string // YAML scenario file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:          "agent-sim",
	Short:        "Agent-based simulation of wealth exchange and network epidemics",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// runCmd executes a scenario loaded from a YAML file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		metadata, err := simulation.LoadScenarioMetadata(configPath)
		if err != nil {
			return err
		}
		applyOverrides(cmd, metadata)
		return runScenario(cmd.Context(), metadata)
	},
}

// flags set on the command line win over the scenario
func applyOverrides(cmd *cobra.Command, metadata *simulation.ScenarioMetadata) {
	if cmd.Flags().Changed("seed") {
		metadata.Seed = seed
	}
	if cmd.Flags().Changed("steps") {
		metadata.MaxSimulationStep = maxSteps
	}
	if cmd.Flags().Changed("name") {
		metadata.UniqueName = runName
	}
}

func runScenario(ctx context.Context, metadata *simulation.ScenarioMetadata) error {
	if ctx == nil {
		ctx = context.Background()
	}

	scenario := simulation.NewScenario(outDir, metadata)
	scenario.ShowProgress = showProgress
	if err := scenario.Init(); err != nil {
		return err
	}
	if err := scenario.StepTillEnd(ctx); err != nil {
		return err
	}

	fields := logrus.Fields{}
	for k, v := range scenario.Model().Metrics() {
		fields[k] = v
	}
	logrus.WithFields(fields).Infof("Simulation %q complete after %d steps", metadata.UniqueName, scenario.Model().StepCount())
	return nil
}

// Execute runs the CLI root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed for every random decision of the model")
	rootCmd.PersistentFlags().IntVar(&maxSteps, "steps", 200, "Maximum number of steps")
	rootCmd.PersistentFlags().StringVar(&runName, "name", "run", "Name of the run, used as output subdirectory")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "./run", "Base directory for run outputs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().BoolVar(&showProgress, "progress", false, "Show a progress bar")

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file")
	_ = runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(wealthCmd)
	rootCmd.AddCommand(virusCmd)
}
