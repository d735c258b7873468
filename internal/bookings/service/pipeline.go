package service

import (
	"context"
	"fmt"

	"carrental/pkg/logger"
	"carrental/pkg/model"
)

// admission carries the state shared by the admission steps.
type admission struct {
	request      *model.BookingRequest
	booking      *model.Booking
	car          *model.Car
	driver       *model.Driver
	availability *model.Availability
	lockHolder   string

	// cleanups run in reverse order once the pipeline finishes, whatever
	// the outcome.
	cleanups []func(ctx context.Context)
}

func (a *admission) onFinish(fn func(ctx context.Context)) {
	a.cleanups = append(a.cleanups, fn)
}

type step struct {
	Name    string
	Execute func(ctx context.Context, a *admission) error
}

func newStep(name string, execute func(ctx context.Context, a *admission) error) step {
	return step{Name: name, Execute: execute}
}

type pipeline struct {
	steps []step
	log   *logger.Logger
}

func newPipeline(log *logger.Logger, steps ...step) *pipeline {
	return &pipeline{steps: steps, log: log}
}

// run executes the steps in order and stops at the first failure. The
// returned error wraps the step's error so AppErrors survive errors.As.
func (p *pipeline) run(ctx context.Context, a *admission) (err error) {
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		for i := len(a.cleanups) - 1; i >= 0; i-- {
			a.cleanups[i](cleanupCtx)
		}
	}()

	for _, st := range p.steps {
		if err := st.Execute(ctx, a); err != nil {
			p.log.Debug("admission step failed", "step", st.Name, "error", err)
			return fmt.Errorf("%s step failed: %w", st.Name, err)
		}
	}
	return nil
}
