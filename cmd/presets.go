package cmd

import (
	"github.com/spf13/cobra"

	"agent-sim/model"
	"agent-sim/simulation"
)

var (
	wealthParams = *model.DefaultWealthModelParams()

	virusParams      = *model.DefaultVirusModelParams()
	stopWhenResolved bool
)

// wealthCmd runs the wealth model with its parameters taken from flags
var wealthCmd = &cobra.Command{
	Use:   "wealth",
	Short: "Run the wealth exchange model on a grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		metadata := simulation.DefaultScenarioMetadata()
		metadata.ModelType = simulation.ModelWealth
		metadata.UniqueName = simulation.ModelWealth
		metadata.StopWhenResolved = false
		metadata.Wealth = wealthParams
		applyOverrides(cmd, metadata)
		return runScenario(cmd.Context(), metadata)
	},
}

// virusCmd runs the virus model with its parameters taken from flags
var virusCmd = &cobra.Command{
	Use:   "virus",
	Short: "Run the virus model on a random contact network",
	RunE: func(cmd *cobra.Command, args []string) error {
		metadata := simulation.DefaultScenarioMetadata()
		metadata.ModelType = simulation.ModelVirus
		metadata.UniqueName = simulation.ModelVirus
		metadata.StopWhenResolved = stopWhenResolved
		metadata.Virus = virusParams
		applyOverrides(cmd, metadata)
		return runScenario(cmd.Context(), metadata)
	},
}

func init() {
	wealthCmd.Flags().IntVar(&wealthParams.N, "n", wealthParams.N, "Number of agents")
	wealthCmd.Flags().IntVar(&wealthParams.Width, "width", wealthParams.Width, "Grid width")
	wealthCmd.Flags().IntVar(&wealthParams.Height, "height", wealthParams.Height, "Grid height")
	wealthCmd.Flags().IntVar(&wealthParams.InitialWealth, "initial-wealth", wealthParams.InitialWealth, "Starting wealth of every agent")
	wealthCmd.Flags().BoolVar(&wealthParams.Torus, "torus", wealthParams.Torus, "Wrap the grid at its edges")

	f := virusCmd.Flags()
	f.IntVar(&virusParams.NumNodes, "num-nodes", virusParams.NumNodes, "Number of agents")
	f.Float64Var(&virusParams.AvgNodeDegree, "avg-node-degree", virusParams.AvgNodeDegree, "Average node degree of the contact network")
	f.IntVar(&virusParams.InitialOutbreakSize, "initial-outbreak-size", virusParams.InitialOutbreakSize, "Number of agents infected at step 0")
	f.Float64Var(&virusParams.VirusSpreadChance, "virus-spread-chance", virusParams.VirusSpreadChance, "Chance to infect a susceptible neighbour")
	f.Float64Var(&virusParams.VirusCheckFrequency, "virus-check-frequency", virusParams.VirusCheckFrequency, "Chance an infected agent checks its situation")
	f.Float64Var(&virusParams.RecoveryChance, "recovery-chance", virusParams.RecoveryChance, "Chance to recover on a check")
	f.Float64Var(&virusParams.GainResistanceChance, "gain-resistance-chance", virusParams.GainResistanceChance, "Chance to become resistant after recovery")
	f.Float64Var(&virusParams.DeathRate, "death-rate", virusParams.DeathRate, "Chance to die on a check")
	f.Float64Var(&virusParams.DoubleVaccinesRate, "double-vaccines-rate", virusParams.DoubleVaccinesRate, "Share of agents receiving two doses")
	f.Float64Var(&virusParams.DoubleVaccinesEfficiency, "double-vaccines-efficiency", virusParams.DoubleVaccinesEfficiency, "Chance two doses grant resistance")
	f.StringVar(&virusParams.NetworkType, "network-type", virusParams.NetworkType, "Contact network (random, small_world)")
	f.Float64Var(&virusParams.RewireProbability, "rewire-probability", virusParams.RewireProbability, "Rewiring probability of the small_world network")
	f.BoolVar(&stopWhenResolved, "stop-when-resolved", true, "Stop once no agent is infected")
}
