package main

import (
	"context"
	"testing"

	"agent-sim/model"
	"agent-sim/simulation"
	"agent-sim/utils"
)

func CompareSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestSerializeAndDeserializeScenario(t *testing.T) {
	metadata := simulation.DefaultScenarioMetadata()
	metadata.UniqueName = "test"
	metadata.ModelType = simulation.ModelVirus
	metadata.MaxSimulationStep = 100
	metadata.Virus.NumNodes = 300
	metadata.Virus.AvgNodeDegree = 6
	metadata.Virus.InitialOutbreakSize = 5

	basePath := t.TempDir()

	// sim until resolved or 100 steps
	scenario := simulation.NewScenario(basePath, metadata)
	if err := scenario.Init(); err != nil {
		t.Fatalf("Error initializing scenario: %v", err)
	}
	if err := scenario.StepTillEnd(context.Background()); err != nil {
		t.Fatalf("Error running scenario: %v", err)
	}
	if !scenario.IsFinished() {
		t.Errorf("Scenario is not marked finished")
	}

	// read the outputs back
	serializer := simulation.NewSimulationSerializer(basePath, metadata.UniqueName)

	m := scenario.Model().(*model.VirusModel)

	nxGraph, err := serializer.LoadGraph()
	if err != nil || nxGraph == nil {
		t.Fatalf("Failed to load graph: %v", err)
	}
	if !utils.CompareGraphs(m.Graph, utils.DeserializeGraph(nxGraph)) {
		t.Errorf("Original and loaded graphs are not equal")
	}

	snapshot, err := serializer.LoadSnapshot()
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if snapshot.Step != m.StepCount() {
		t.Errorf("Original and loaded are not equal: snapshot.Step")
	}
	states := make([]string, len(m.Agents()))
	for i, a := range m.Agents() {
		states[i] = a.State.String()
	}
	loadedStates := make([]string, len(snapshot.Agents))
	for i, a := range snapshot.Agents {
		loadedStates[i] = a.State
	}
	if !CompareSlices(states, loadedStates) {
		t.Errorf("Original and loaded are not equal: agent states")
	}

	acc, err := serializer.LoadAccumulativeState()
	if err != nil {
		t.Fatalf("Failed to load metrics: %v", err)
	}
	if len(acc.Values) != m.StepCount()+1 {
		t.Errorf("Metrics series has %d rows for %d steps", len(acc.Values), m.StepCount())
	}
	if !CompareSlices(acc.Keys, scenario.Metrics().Keys) {
		t.Errorf("Original and loaded are not equal: metric keys")
	}
	for i := range acc.Values {
		if !CompareSlices(acc.Values[i], scenario.Metrics().Values[i]) {
			t.Errorf("Original and loaded are not equal: metrics at step %d", i)
		}
	}

	loadedMetadata, err := serializer.LoadMetadata()
	if err != nil {
		t.Fatalf("Failed to load metadata: %v", err)
	}
	if *loadedMetadata != *metadata {
		t.Errorf("Original and loaded are not equal: metadata")
	}
}
