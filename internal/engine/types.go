package engine

// Observation is a snapshot of the scalar observables at one instant.
type Observation struct {
	Time    float64
	Norm    float64
	X       float64
	Y       float64
	SpreadX float64
	SpreadY float64
}

// Metric accumulates a scalar over a sequence of observations.
type Metric interface {
	Name() string
	Observe(Observation)
	Value() float64
	Reset()
}
