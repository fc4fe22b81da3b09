package simulation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"agent-sim/model"
	"agent-sim/utils"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallVirusMetadata(name string) *ScenarioMetadata {
	metadata := DefaultScenarioMetadata()
	metadata.UniqueName = name
	metadata.ModelType = ModelVirus
	metadata.Seed = 7
	metadata.MaxSimulationStep = 500
	metadata.Virus.NumNodes = 60
	metadata.Virus.AvgNodeDegree = 4
	metadata.Virus.InitialOutbreakSize = 3
	metadata.Virus.DoubleVaccinesRate = 0
	return metadata
}

func smallWealthMetadata(name string) *ScenarioMetadata {
	metadata := DefaultScenarioMetadata()
	metadata.UniqueName = name
	metadata.ModelType = ModelWealth
	metadata.MaxSimulationStep = 25
	metadata.StopWhenResolved = false
	return metadata
}

func TestScenario_WealthRunsToMaxSteps(t *testing.T) {
	s := NewScenario(t.TempDir(), smallWealthMetadata("wealth"))
	require.NoError(t, s.Init())
	require.NoError(t, s.StepTillEnd(context.Background()))

	assert.Equal(t, 25, s.Model().StepCount())
	assert.Len(t, s.Metrics().Values, 26)
	for _, total := range s.Metrics().Series("total_wealth") {
		assert.Equal(t, 100.0, total)
	}
	assert.Positive(t, s.EventCounts[model.EventTransfer])
	assert.True(t, s.IsFinished())
}

func TestScenario_StopsWhenResolved(t *testing.T) {
	metadata := smallVirusMetadata("resolved")
	metadata.Virus.VirusCheckFrequency = 1
	metadata.Virus.DeathRate = 1
	metadata.Virus.VirusSpreadChance = 0.3

	s := NewScenario(t.TempDir(), metadata)
	require.NoError(t, s.Init())
	require.NoError(t, s.StepTillEnd(context.Background()))

	vm := s.Model().(*model.VirusModel)
	assert.False(t, vm.IsRunning())
	assert.Zero(t, vm.NumberInfected())
	assert.Less(t, vm.StepCount(), metadata.MaxSimulationStep)

	infected := s.Metrics().Series("infected")
	assert.Zero(t, infected[len(infected)-1])
	assert.Positive(t, infected[0])
}

func TestScenario_KeepsRunningWithoutStopCriterion(t *testing.T) {
	metadata := smallVirusMetadata("unresolved")
	metadata.StopWhenResolved = false
	metadata.MaxSimulationStep = 30
	metadata.Virus.InitialOutbreakSize = 0

	s := NewScenario(t.TempDir(), metadata)
	require.NoError(t, s.Init())
	require.NoError(t, s.StepTillEnd(context.Background()))

	assert.True(t, s.Model().IsRunning())
	assert.Equal(t, 30, s.Model().StepCount())
}

func TestScenario_Cancelled(t *testing.T) {
	dir := t.TempDir()
	s := NewScenario(dir, smallWealthMetadata("cancelled"))
	require.NoError(t, s.Init())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.StepTillEnd(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Zero(t, s.Model().StepCount())
	assert.False(t, s.IsFinished())
	// partial outputs are still written
	assert.FileExists(t, filepath.Join(dir, "cancelled", snapshotFile))
}

func TestScenario_WarnsOnExistingOutput(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	dir := t.TempDir()
	require.NoError(t, NewScenario(dir, smallWealthMetadata("fresh")).Init())
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, e.Level, e.Message)
	}

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "taken"), 0755))
	hook.Reset()
	require.NoError(t, NewScenario(dir, smallWealthMetadata("taken")).Init())

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Contains(t, e.Message, "taken")
		}
	}
	assert.True(t, warned, "expected a warning about the existing output directory")
}

func TestScenario_StepTillEndNeedsInit(t *testing.T) {
	s := NewScenario(t.TempDir(), smallWealthMetadata("raw"))
	assert.Error(t, s.StepTillEnd(context.Background()))
}

func TestScenario_InitRejectsBadMetadata(t *testing.T) {
	metadata := smallVirusMetadata("bad")
	metadata.Virus.DeathRate = 2

	err := NewScenario(t.TempDir(), metadata).Init()
	var cfgErr *model.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "death_rate", cfgErr.Field)
}

func TestScenario_GraphFile(t *testing.T) {
	dir := t.TempDir()
	g := utils.CreateSmallWorldNetwork(40, 4, 0.1, utils.NewRandomSource(3))
	graphPath := filepath.Join(dir, "contacts.msgpack")
	require.NoError(t, utils.SaveGraphToFile(g, graphPath))

	metadata := smallVirusMetadata("from-file")
	metadata.GraphFile = graphPath
	s := NewScenario(dir, metadata)
	require.NoError(t, s.Init())

	vm := s.Model().(*model.VirusModel)
	assert.Len(t, vm.Agents(), 40)
	assert.True(t, utils.CompareGraphs(g, vm.Graph))
}

func TestScenario_MissingGraphFile(t *testing.T) {
	metadata := smallVirusMetadata("missing")
	metadata.GraphFile = filepath.Join(t.TempDir(), "nope.msgpack")
	assert.Error(t, NewScenario(t.TempDir(), metadata).Init())
}

func TestScenario_Reproducible(t *testing.T) {
	run := func() *AccumulativeModelState {
		s := NewScenario(t.TempDir(), smallVirusMetadata("repro"))
		require.NoError(t, s.Init())
		require.NoError(t, s.StepTillEnd(context.Background()))
		return s.Metrics()
	}
	assert.Equal(t, run(), run())
}

func TestLoadScenarioMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "covid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: covid
model: virus
seed: 3
max_steps: 50
virus:
  num_nodes: 200
  death_rate: 0.3
`), 0644))

	metadata, err := LoadScenarioMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "covid", metadata.UniqueName)
	assert.Equal(t, int64(3), metadata.Seed)
	assert.Equal(t, 50, metadata.MaxSimulationStep)
	assert.Equal(t, 200, metadata.Virus.NumNodes)
	assert.Equal(t, 0.3, metadata.Virus.DeathRate)
	// untouched keys keep their defaults
	assert.Equal(t, model.DefaultVirusModelParams().VirusSpreadChance, metadata.Virus.VirusSpreadChance)
	assert.True(t, metadata.StopWhenResolved)
	assert.NoError(t, metadata.Validate())
}

func TestLoadScenarioMetadata_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nmax_step: 10\n"), 0644))

	_, err := LoadScenarioMetadata(path)
	assert.Error(t, err)
}

func TestLoadScenarioMetadata_MissingFile(t *testing.T) {
	_, err := LoadScenarioMetadata(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestScenarioMetadata_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *ScenarioMetadata)
		field  string
	}{
		{"empty name", func(m *ScenarioMetadata) { m.UniqueName = "" }, "name"},
		{"no steps", func(m *ScenarioMetadata) { m.MaxSimulationStep = 0 }, "max_steps"},
		{"unknown model", func(m *ScenarioMetadata) { m.ModelType = "boids" }, "model"},
		{"bad wealth", func(m *ScenarioMetadata) { m.ModelType = ModelWealth; m.Wealth.Width = 0 }, "width"},
		{"bad virus", func(m *ScenarioMetadata) { m.Virus.NumNodes = 0 }, "num_nodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := DefaultScenarioMetadata()
			tt.mutate(metadata)
			var cfgErr *model.ConfigurationError
			require.True(t, errors.As(metadata.Validate(), &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestAccumulativeModelState_RoundTrip(t *testing.T) {
	state := &AccumulativeModelState{
		Keys:   []string{"a", "infected"},
		Values: [][]float64{{1, 2}, {3, 4.5}, {-1, 0}},
	}
	path := filepath.Join(t.TempDir(), "metrics.lz4")
	require.NoError(t, SaveAccumulativeModelState(path, state))

	loaded, err := LoadAccumulativeModelState(path)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
	assert.Equal(t, []float64{2, 4.5, 0}, loaded.Series("infected"))
	assert.Nil(t, loaded.Series("missing"))
}

func TestAccumulativeModelState_Rejects(t *testing.T) {
	dir := t.TempDir()

	err := SaveAccumulativeModelState(filepath.Join(dir, "empty.lz4"), NewAccumulativeModelState())
	assert.Error(t, err)

	ragged := &AccumulativeModelState{Keys: []string{"a", "b"}, Values: [][]float64{{1}}}
	assert.Error(t, SaveAccumulativeModelState(filepath.Join(dir, "ragged.lz4"), ragged))

	garbage := filepath.Join(dir, "garbage.lz4")
	require.NoError(t, os.WriteFile(garbage, []byte("not lz4 at all"), 0644))
	_, err = LoadAccumulativeModelState(garbage)
	assert.Error(t, err)
}
