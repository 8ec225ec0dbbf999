// Package lifecycle runs multi-step cascades as an ordered workflow and
// records an outcome for every step instead of aborting on the first error.
package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Severity int

const (
	// Recoverable failures are recorded and the workflow moves on.
	Recoverable Severity = iota
	// Critical failures stop the workflow; later steps are skipped.
	Critical
)

func (s Severity) String() string {
	if s == Critical {
		return "critical"
	}
	return "recoverable"
}

type Status string

const (
	StatusSucceeded         Status = "succeeded"
	StatusFailedRecoverable Status = "failed-recoverable"
	StatusFailedFatal       Status = "failed-fatal"
	StatusSkipped           Status = "skipped"
)

type Step struct {
	Name     string
	Severity Severity
	// Resource optionally names what the step acts on, e.g. an asset url.
	Resource string
	Run      func(ctx context.Context) error
}

type Outcome struct {
	Step     string
	Severity Severity
	Resource string
	Status   Status
	Err      error
	Duration time.Duration
}

// Observer is notified after every executed or skipped step.
type Observer interface {
	StepFinished(workflow, step string, status Status)
}

type Workflow struct {
	name     string
	steps    []Step
	logger   *zap.Logger
	observer Observer
}

func New(name string, logger *zap.Logger, observer Observer) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{name: name, logger: logger, observer: observer}
}

func (w *Workflow) Add(step Step) *Workflow {
	w.steps = append(w.steps, step)
	return w
}

func (w *Workflow) Critical(name string, run func(ctx context.Context) error) *Workflow {
	return w.Add(Step{Name: name, Severity: Critical, Run: run})
}

func (w *Workflow) Recoverable(name string, run func(ctx context.Context) error) *Workflow {
	return w.Add(Step{Name: name, Severity: Recoverable, Run: run})
}

// Run executes the steps sequentially. Steps run detached from ctx
// cancellation: once started, a cascade finishes or fails on its own.
func (w *Workflow) Run(ctx context.Context) Report {
	stepCtx := context.WithoutCancel(ctx)
	report := Report{Workflow: w.name, Outcomes: make([]Outcome, 0, len(w.steps))}

	halted := false
	for _, step := range w.steps {
		outcome := Outcome{Step: step.Name, Severity: step.Severity, Resource: step.Resource}

		if halted {
			outcome.Status = StatusSkipped
			report.Outcomes = append(report.Outcomes, outcome)
			w.notify(step.Name, outcome.Status)
			continue
		}

		start := time.Now()
		err := step.Run(stepCtx)
		outcome.Duration = time.Since(start)
		outcome.Err = err

		switch {
		case err == nil:
			outcome.Status = StatusSucceeded
		case step.Severity == Critical:
			outcome.Status = StatusFailedFatal
			halted = true
			w.logger.Error("workflow step failed, halting",
				zap.String("workflow", w.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
		default:
			outcome.Status = StatusFailedRecoverable
			w.logger.Warn("workflow step failed, continuing",
				zap.String("workflow", w.name),
				zap.String("step", step.Name),
				zap.String("resource", step.Resource),
				zap.Error(err),
			)
		}

		report.Outcomes = append(report.Outcomes, outcome)
		w.notify(step.Name, outcome.Status)
	}
	return report
}

func (w *Workflow) notify(step string, status Status) {
	if w.observer != nil {
		w.observer.StepFinished(w.name, step, status)
	}
}
