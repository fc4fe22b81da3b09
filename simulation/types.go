package simulation

import (
	"slices"

	"agent-sim/model"
)

// AccumulativeModelState is the per-step metrics series of the current run
type AccumulativeModelState struct {
	Keys []string
	// (step, metric)
	Values [][]float64
}

func NewAccumulativeModelState() *AccumulativeModelState {
	return &AccumulativeModelState{
		Keys:   make([]string, 0),
		Values: make([][]float64, 0),
	}
}

func (s *AccumulativeModelState) accumulate(m model.Model) {
	metrics := m.Metrics()
	if len(s.Keys) == 0 {
		s.Keys = metrics.Keys()
	}
	row := make([]float64, len(s.Keys))
	for i, k := range s.Keys {
		row[i] = metrics[k]
	}
	s.Values = append(s.Values, row)
}

// one row for the initial state plus one per completed step
func (s *AccumulativeModelState) validate(m model.Model) bool {
	return len(s.Values) == m.StepCount()+1
}

// Series returns the values of one metric over time
func (s *AccumulativeModelState) Series(key string) []float64 {
	idx := slices.Index(s.Keys, key)
	if idx < 0 {
		return nil
	}
	ret := make([]float64, len(s.Values))
	for i, row := range s.Values {
		ret[i] = row[idx]
	}
	return ret
}
