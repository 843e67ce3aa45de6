package qsynth

/*
Step is one entry of a circuit: either a gate, or (when Measure is non-empty) a
mid-circuit partial measurement whose outcome is recorded under Label.
*/
type Step struct {
	Gate    Gate
	Measure []int
	Label   string
}

func (s Step) IsMeasurement() bool {
	return len(s.Measure) > 0
}

/*
Circuit is the generation logic for one feature group: a qubit count plus an ordered list
of steps. It never owns a register, so the same Circuit can be executed any number of
times.
*/
type Circuit struct {
	Name   string
	qubits int
	steps  []Step
}

func NewCircuit(name string, qubits int) *Circuit {
	return &Circuit{
		Name:   name,
		qubits: qubits,
	}
}

func (c *Circuit) Qubits() int {
	return c.qubits
}

func (c *Circuit) Steps() []Step {
	out := make([]Step, len(c.steps))
	copy(out, c.steps)
	return out
}

// Add appends gates in order.
func (c *Circuit) Add(gates ...Gate) *Circuit {
	for _, g := range gates {
		c.steps = append(c.steps, Step{Gate: g})
	}
	return c
}

// MeasureMid appends a partial measurement of qubits; later gates see the collapsed state.
func (c *Circuit) MeasureMid(label string, qubits ...int) *Circuit {
	owned := make([]int, len(qubits))
	copy(owned, qubits)
	c.steps = append(c.steps, Step{Measure: owned, Label: label})
	return c
}

// Validate checks every index against the qubit count without allocating a register.
func (c *Circuit) Validate() error {
	if c.qubits <= 0 || c.qubits > MaxQubits {
		return configError("circuit %s: qubit count %d outside [1, %d]", c.Name, c.qubits, MaxQubits)
	}

	inRange := func(q int) bool { return q >= 0 && q < c.qubits }

	for i, step := range c.steps {
		if step.IsMeasurement() {
			var seen int
			for _, q := range step.Measure {
				if !inRange(q) {
					return configError("circuit %s step %d: measured qubit %d out of range", c.Name, i, q)
				}
				if seen&(1<<q) != 0 {
					return configError("circuit %s step %d: qubit %d measured twice", c.Name, i, q)
				}
				seen |= 1 << q
			}
			continue
		}

		g := step.Gate
		if !g.Kind.Valid() {
			return configError("circuit %s step %d: unknown gate kind %d", c.Name, i, int(g.Kind))
		}
		if !inRange(g.Target) {
			return configError("circuit %s step %d: target %d out of range", c.Name, i, g.Target)
		}

		var seen int
		for _, ctrl := range g.Controls {
			if !inRange(ctrl) || ctrl == g.Target || seen&(1<<ctrl) != 0 {
				return configError("circuit %s step %d: bad control %d", c.Name, i, ctrl)
			}
			seen |= 1 << ctrl
		}
	}

	return nil
}
