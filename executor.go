package qsynth

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/theapemachine/errnie"
)

/*
Execution is what is left after a circuit run: the final register and the outcomes of
every mid-circuit measurement, keyed by step label.
*/
type Execution struct {
	Register *Register
	Outcomes map[string]MeasurementResult
}

/*
Executor runs circuits on freshly allocated registers. It introduces no randomness of its
own; draws happen only inside the Sampler it is handed.
*/
type Executor struct {
	retry    *RetryPolicy
	allocate func(qubits int) (*Register, error)
}

func NewExecutor() *Executor {
	return &Executor{
		retry:    degenerateRetry(),
		allocate: Allocate,
	}
}

// Run allocates a register for c and applies every step in order.
func (e *Executor) Run(c *Circuit, sampler *Sampler) (*Execution, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	reg, err := e.allocate(c.qubits)
	if err != nil {
		return nil, err
	}

	exec := &Execution{
		Register: reg,
		Outcomes: make(map[string]MeasurementResult),
	}

	for i, step := range c.steps {
		if step.IsMeasurement() {
			outcome, err := sampler.MeasurePartial(reg, step.Measure)
			if err != nil {
				return nil, e.fail(c, i, step, err)
			}
			exec.Outcomes[step.Label] = outcome
			continue
		}

		if err := reg.Apply(step.Gate); err != nil {
			return nil, e.fail(c, i, step, err)
		}
	}

	return exec, nil
}

/*
Sample runs c and measures it: every qubit when qubits is empty, otherwise only the listed
ones. A degenerate distribution anywhere in the run is retried once on a new register; a
second one is escalated to ErrNumericalInvariant.
*/
func (e *Executor) Sample(c *Circuit, sampler *Sampler, qubits ...int) (MeasurementResult, *Execution, error) {
	var (
		result MeasurementResult
		exec   *Execution
	)

	err := e.retry.Do(func(attempt int) error {
		if attempt > 0 {
			errnie.Warn("circuit %s: degenerate distribution, retrying on a fresh register", c.Name)
		}

		var err error
		if exec, err = e.Run(c, sampler); err != nil {
			return err
		}

		if len(qubits) == 0 {
			result, err = sampler.Measure(exec.Register)
		} else {
			result, err = sampler.MeasurePartial(exec.Register, qubits)
		}

		if err != nil && !errors.Is(err, ErrDegenerateDistribution) {
			return e.fail(c, len(c.steps), Step{Measure: qubits, Label: "final"}, err)
		}

		return err
	})

	if errors.Is(err, ErrDegenerateDistribution) {
		err = fmt.Errorf("%w: circuit %s: %w", ErrNumericalInvariant, c.Name, err)
		errnie.Warn("%v", err)
	}

	if err != nil {
		return MeasurementResult{}, nil, err
	}

	return result, exec, nil
}

func (e *Executor) fail(c *Circuit, index int, step Step, err error) error {
	if errors.Is(err, ErrNumericalInvariant) {
		errnie.Warn("circuit %s step %d: %v\n%s", c.Name, index, err, spew.Sdump(step))
	}
	return fmt.Errorf("circuit %s step %d: %w", c.Name, index, err)
}
