package simulation

import (
	"os"
	"path/filepath"

	"agent-sim/model"
	"agent-sim/utils"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

const (
	snapshotFile = "snapshot.msgpack"
	graphFile    = "graph.msgpack"
	metricsFile  = "metrics.lz4"
	metadataFile = "metadata.yaml"
	finishedFile = "finished.msgpack"
)

// SimulationSerializer writes the outputs of one run under baseDir/simulationID
type SimulationSerializer struct {
	baseDir      string
	simulationID string
}

func NewSimulationSerializer(baseDir string, simulationID string) *SimulationSerializer {
	return &SimulationSerializer{
		baseDir:      baseDir,
		simulationID: simulationID,
	}
}

func (s *SimulationSerializer) getSimulationDir() string {
	return filepath.Join(s.baseDir, s.simulationID)
}

func (s *SimulationSerializer) path(name string) string {
	return filepath.Join(s.getSimulationDir(), name)
}

// Exists reports whether the output directory of this run exists
func (s *SimulationSerializer) Exists() bool {
	_, err := os.Stat(s.getSimulationDir())
	return !os.IsNotExist(err)
}

func (s *SimulationSerializer) ensureSimulationDir() error {
	return os.MkdirAll(s.getSimulationDir(), 0755)
}

// #region snapshot

func (s *SimulationSerializer) SaveSnapshot(snapshot *model.Snapshot) error {
	if err := s.ensureSimulationDir(); err != nil {
		return err
	}
	data, err := model.DumpSnapshot(snapshot)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(snapshotFile), data, 0644)
}

func (s *SimulationSerializer) LoadSnapshot() (*model.Snapshot, error) {
	data, err := os.ReadFile(s.path(snapshotFile))
	if err != nil {
		return nil, err
	}
	return model.LoadSnapshot(data)
}

// #endregion

// #region finished mark

type FinishMark struct {
	Step int `msgpack:"step"`
}

func (s *SimulationSerializer) MarkFinished(step int) error {
	if err := s.ensureSimulationDir(); err != nil {
		return err
	}
	data, err := msgpack.Marshal(&FinishMark{Step: step})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(finishedFile), data, 0644)
}

func (s *SimulationSerializer) IsFinished() bool {
	_, err := os.Stat(s.path(finishedFile))
	return err == nil
}

// #endregion

// #region acc-state

func (s *SimulationSerializer) SaveAccumulativeState(state *AccumulativeModelState) error {
	if err := s.ensureSimulationDir(); err != nil {
		return err
	}
	return SaveAccumulativeModelState(s.path(metricsFile), state)
}

func (s *SimulationSerializer) LoadAccumulativeState() (*AccumulativeModelState, error) {
	return LoadAccumulativeModelState(s.path(metricsFile))
}

// #endregion

// #region graph

func (s *SimulationSerializer) SaveGraph(graph *utils.NetworkXGraph) error {
	if err := s.ensureSimulationDir(); err != nil {
		return err
	}
	data, err := msgpack.Marshal(graph)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(graphFile), data, 0644)
}

// LoadGraph returns nil without error when the run wrote no graph
func (s *SimulationSerializer) LoadGraph() (*utils.NetworkXGraph, error) {
	data, err := os.ReadFile(s.path(graphFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var graph utils.NetworkXGraph
	if err := msgpack.Unmarshal(data, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}

// #endregion

func (s *SimulationSerializer) SaveMetadata(metadata *ScenarioMetadata) error {
	if err := s.ensureSimulationDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(metadata)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(metadataFile), data, 0644)
}

func (s *SimulationSerializer) LoadMetadata() (*ScenarioMetadata, error) {
	return LoadScenarioMetadata(s.path(metadataFile))
}
