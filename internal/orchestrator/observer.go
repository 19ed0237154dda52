package orchestrator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/progress"
)

// Event is one state transition of a run.
type Event struct {
	RunID string
	Topic string
	Stage Stage
	Err   error
}

// Status maps the stage onto a progress status.
func (e Event) Status() string {
	switch e.Stage {
	case StagePersisted:
		return progress.StatusCompleted
	case StageFailed:
		return progress.StatusFailed
	default:
		return progress.StatusRunning
	}
}

func (e Event) errorMessage() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

type Observer interface {
	Transition(ctx context.Context, event Event)
}

// Observers fans an event out in order.
type Observers []Observer

func (o Observers) Transition(ctx context.Context, event Event) {
	for _, observer := range o {
		observer.Transition(ctx, event)
	}
}

type LogObserver struct {
	logger *logrus.Logger
}

func NewLogObserver(logger *logrus.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (l *LogObserver) Transition(_ context.Context, event Event) {
	entry := l.logger.WithFields(logrus.Fields{
		"run_id": event.RunID,
		"topic":  event.Topic,
		"stage":  event.Stage,
		"status": event.Status(),
	})
	if event.Err != nil {
		entry.WithError(event.Err).Error("Blog chain failed")
		return
	}
	entry.Info("Blog chain stage reached")
}

// ProgressWriter is the part of the progress store the chain writes to.
type ProgressWriter interface {
	Update(ctx context.Context, runID, stage, status, errMsg string) error
}

// ProgressObserver mirrors transitions into the progress store. Store
// failures are logged and never affect the run.
type ProgressObserver struct {
	store   ProgressWriter
	timeout time.Duration
	logger  *logrus.Logger
}

func NewProgressObserver(store ProgressWriter, logger *logrus.Logger) *ProgressObserver {
	return &ProgressObserver{store: store, timeout: 2 * time.Second, logger: logger}
}

func (p *ProgressObserver) Transition(ctx context.Context, event Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.store.Update(ctx, event.RunID, string(event.Stage), event.Status(), event.errorMessage()); err != nil {
		p.logger.WithError(err).WithField("run_id", event.RunID).Warn("Failed to record chain progress")
	}
}

// StageRecorder is the metrics surface used by the chain.
type StageRecorder interface {
	ObserveStage(stage, status string)
	ObserveRun(outcome string)
}

type MetricsObserver struct {
	recorder StageRecorder
}

func NewMetricsObserver(recorder StageRecorder) *MetricsObserver {
	return &MetricsObserver{recorder: recorder}
}

func (m *MetricsObserver) Transition(_ context.Context, event Event) {
	m.recorder.ObserveStage(string(event.Stage), event.Status())
	switch event.Stage {
	case StagePersisted:
		m.recorder.ObserveRun("persisted")
	case StageFailed:
		step := "unknown"
		if stageErr, ok := event.Err.(*StageError); ok {
			step = string(stageErr.Step)
		}
		m.recorder.ObserveRun("failed_" + step)
	}
}
