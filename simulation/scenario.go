package simulation

import (
	"context"
	"fmt"

	"agent-sim/model"
	"agent-sim/utils"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

type Scenario struct {
	metadata   *ScenarioMetadata
	model      model.Model
	virus      *model.VirusModel
	acc        *AccumulativeModelState
	serializer *SimulationSerializer

	// EventCounts tallies the events emitted by the model, by type
	EventCounts map[string]int
	// ShowProgress renders a progress bar on stdout during StepTillEnd
	ShowProgress bool
}

func NewScenario(dir string, metadata *ScenarioMetadata) *Scenario {
	return &Scenario{
		metadata:    metadata,
		serializer:  NewSimulationSerializer(dir, metadata.UniqueName),
		EventCounts: make(map[string]int),
	}
}

// Init validates the metadata and builds the model at step 0
func (s *Scenario) Init() error {
	if err := s.metadata.Validate(); err != nil {
		return err
	}
	if s.serializer.Exists() {
		logrus.Warnf("Output directory %s already exists, its files will be overwritten", s.serializer.getSimulationDir())
	}

	switch s.metadata.ModelType {

	case ModelWealth:
		m, err := model.NewWealthModel(&s.metadata.Wealth, s.metadata.Seed, s.logEvent)
		if err != nil {
			return err
		}
		s.model = m

	case ModelVirus:
		var m *model.VirusModel
		var err error
		if s.metadata.GraphFile != "" {
			g, gErr := utils.LoadGraphFromFile(s.metadata.GraphFile)
			if gErr != nil {
				return fmt.Errorf("loading graph: %w", gErr)
			}
			m, err = model.NewVirusModelFromGraph(g, &s.metadata.Virus, s.metadata.Seed, s.logEvent)
		} else {
			m, err = model.NewVirusModel(&s.metadata.Virus, s.metadata.Seed, s.logEvent)
		}
		if err != nil {
			return err
		}
		s.model = m
		s.virus = m
	}

	logrus.WithFields(logrus.Fields(s.metadata.Params())).
		WithField("seed", s.metadata.Seed).
		Infof("Initialized %s model %q", s.metadata.ModelType, s.metadata.UniqueName)

	s.acc = NewAccumulativeModelState()
	s.acc.accumulate(s.model)
	s.checkStop()

	return nil
}

func (s *Scenario) Model() model.Model {
	return s.model
}

func (s *Scenario) Metrics() *AccumulativeModelState {
	return s.acc
}

// Step advances the model one tick and records its metrics
func (s *Scenario) Step() {
	s.model.Step()
	s.acc.accumulate(s.model)
	s.checkStop()

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		row := s.acc.Values[len(s.acc.Values)-1]
		fields := make(logrus.Fields, len(row))
		for i, k := range s.acc.Keys {
			fields[k] = row[i]
		}
		logrus.WithFields(fields).Debugf("Step %d", s.model.StepCount())
	}
}

// the model itself never stops; an epidemic is over once nobody is infected
func (s *Scenario) checkStop() {
	if s.virus == nil || !s.metadata.StopWhenResolved {
		return
	}
	if s.virus.NumberInfected() == 0 && s.model.IsRunning() {
		logrus.Infof("Outbreak resolved at step %d", s.model.StepCount())
		s.model.SetRunning(false)
	}
}

// StepTillEnd runs until max_steps, until the model stops running or until
// ctx is cancelled, then writes the outputs of the run
func (s *Scenario) StepTillEnd(ctx context.Context) error {
	if s.model == nil {
		return fmt.Errorf("scenario %q is not initialized", s.metadata.UniqueName)
	}

	var bar *progressbar.ProgressBar
	if s.ShowProgress {
		bar = progressbar.Default(int64(s.metadata.MaxSimulationStep), s.metadata.UniqueName)
		bar.Set(s.model.StepCount())
	}

	var err error
	for s.model.StepCount() < s.metadata.MaxSimulationStep && s.model.IsRunning() {
		if err = ctx.Err(); err != nil {
			logrus.Warnf("Run interrupted at step %d", s.model.StepCount())
			break
		}
		s.Step()
		if bar != nil {
			bar.Set(s.model.StepCount())
		}
	}
	if bar != nil {
		bar.Finish()
	}

	logrus.WithFields(logrus.Fields{
		"steps":  s.model.StepCount(),
		"events": s.EventCounts,
	}).Info("Run finished")

	// finally save everything
	if dumpErr := s.Dump(); dumpErr != nil {
		return dumpErr
	}
	if err != nil {
		return err
	}
	return s.serializer.MarkFinished(s.model.StepCount())
}

// Dump writes snapshot, metrics series, metadata and, for the virus model,
// the network
func (s *Scenario) Dump() error {
	if !s.acc.validate(s.model) {
		return fmt.Errorf("metrics series has %d rows for %d steps", len(s.acc.Values), s.model.StepCount())
	}
	if err := s.serializer.SaveSnapshot(s.model.Snapshot()); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if err := s.serializer.SaveAccumulativeState(s.acc); err != nil {
		return fmt.Errorf("saving metrics: %w", err)
	}
	if err := s.serializer.SaveMetadata(s.metadata); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}
	if s.virus != nil {
		if err := s.serializer.SaveGraph(utils.SerializeGraph(s.virus.Graph)); err != nil {
			return fmt.Errorf("saving graph: %w", err)
		}
	}
	logrus.Debugf("Outputs written to %s", s.serializer.getSimulationDir())
	return nil
}

func (s *Scenario) IsFinished() bool {
	return s.serializer.IsFinished()
}

func (s *Scenario) logEvent(event *model.EventRecord) {
	s.EventCounts[event.Type]++

	if !logrus.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	logrus.WithFields(logrus.Fields{
		"step":  event.Step,
		"agent": event.AgentID,
		"body":  event.Body,
	}).Trace(event.Type)
}
