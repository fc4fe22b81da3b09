package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-sim/simulation"
)

// every test passes --out, --name, --steps and --log so flag values from
// earlier tests never leak into later ones
func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func loadRunMetadata(t *testing.T, dir, name string) *simulation.ScenarioMetadata {
	t.Helper()
	metadata, err := simulation.LoadScenarioMetadata(filepath.Join(dir, name, "metadata.yaml"))
	require.NoError(t, err)
	return metadata
}

func TestRunCommand_FlagsOverrideScenario(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
name: from-file
model: wealth
seed: 1
max_steps: 100
wealth:
  n: 20
  width: 4
  height: 4
`), 0644))

	err := execute(t, "run", "--config", config, "--out", dir, "--log", "error",
		"--name", "overridden", "--steps", "7", "--seed", "9")
	require.NoError(t, err)

	metadata := loadRunMetadata(t, dir, "overridden")
	assert.Equal(t, int64(9), metadata.Seed)
	assert.Equal(t, 7, metadata.MaxSimulationStep)
	assert.Equal(t, 20, metadata.Wealth.N)

	for _, f := range []string{"snapshot.msgpack", "metrics.lz4", "finished.msgpack"} {
		assert.FileExists(t, filepath.Join(dir, "overridden", f))
	}
	assert.NoFileExists(t, filepath.Join(dir, "overridden", "graph.msgpack"))
}

func TestRunCommand_MissingConfig(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "run", "--config", filepath.Join(dir, "absent.yaml"), "--out", dir,
		"--log", "error", "--name", "absent", "--steps", "1")
	assert.Error(t, err)
}

func TestRunCommand_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(config, []byte("model: boids\n"), 0644))

	err := execute(t, "run", "--config", config, "--out", dir, "--log", "error",
		"--name", "bad", "--steps", "1")
	assert.Error(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "bad"))
}

func TestInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "wealth", "--out", dir, "--log", "loud", "--name", "w", "--steps", "1")
	assert.Error(t, err)
}

func TestWealthCommand(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "wealth", "--out", dir, "--log", "error", "--name", "w",
		"--steps", "10", "--n", "30", "--width", "5", "--height", "6", "--torus=false")
	require.NoError(t, err)

	metadata := loadRunMetadata(t, dir, "w")
	assert.Equal(t, simulation.ModelWealth, metadata.ModelType)
	assert.Equal(t, 30, metadata.Wealth.N)
	assert.Equal(t, 6, metadata.Wealth.Height)
	assert.False(t, metadata.Wealth.Torus)

	state, err := simulation.LoadAccumulativeModelState(filepath.Join(dir, "w", "metrics.lz4"))
	require.NoError(t, err)
	assert.Len(t, state.Values, 11)
}

func TestVirusCommand(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "virus", "--out", dir, "--log", "error", "--name", "v",
		"--steps", "15", "--num-nodes", "80", "--avg-node-degree", "3",
		"--double-vaccines-rate", "0", "--stop-when-resolved=false")
	require.NoError(t, err)

	metadata := loadRunMetadata(t, dir, "v")
	assert.Equal(t, simulation.ModelVirus, metadata.ModelType)
	assert.Equal(t, 80, metadata.Virus.NumNodes)
	assert.Equal(t, 3.0, metadata.Virus.AvgNodeDegree)
	assert.False(t, metadata.StopWhenResolved)
	assert.FileExists(t, filepath.Join(dir, "v", "graph.msgpack"))
}

func TestVirusCommand_InvalidParams(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "virus", "--out", dir, "--log", "error", "--name", "bad-virus",
		"--steps", "5", "--num-nodes", "80", "--death-rate", "1.5")
	assert.Error(t, err)
}
