// Package experiment drives an engine through a fixed number of steps,
// sampling observables and feeding metrics along the way.
package experiment

import (
	"context"

	"github.com/quantlab/schrod2d/internal/engine"
)

// Observer receives every sampled observation during a run.
type Observer func(engine.Observation)

// Result collects everything a finished run produced.
type Result struct {
	Observations []engine.Observation
	FinalDensity []float64
	Metrics      map[string]float64
	StepsTaken   int
}

// Experiment wraps an engine with metrics and observers.
type Experiment struct {
	eng       *engine.Engine
	metrics   []engine.Metric
	observers []Observer
}

func New(eng *engine.Engine) *Experiment {
	return &Experiment{eng: eng}
}

func (e *Experiment) AddMetric(m engine.Metric) {
	e.metrics = append(e.metrics, m)
}

func (e *Experiment) AddObserver(obs Observer) {
	e.observers = append(e.observers, obs)
}

// Engine exposes the underlying engine.
func (e *Experiment) Engine() *engine.Engine {
	return e.eng
}

// Run advances the engine by steps time steps, recording observables
// every sampleEvery steps (and once before the first step). The
// context is checked between steps only; a step in flight always
// completes. Cancellation returns the partial result along with the
// context's error.
func (e *Experiment) Run(ctx context.Context, steps, sampleEvery int) (*Result, error) {
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	res := &Result{
		Metrics: make(map[string]float64),
	}
	e.record(res)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			e.finish(res)
			return res, ctx.Err()
		default:
		}

		if err := e.eng.Step(); err != nil {
			e.finish(res)
			return res, err
		}
		res.StepsTaken++

		if (i+1)%sampleEvery == 0 {
			e.record(res)
		}
	}

	e.finish(res)
	return res, nil
}

func (e *Experiment) record(res *Result) {
	obs := e.eng.Observe()
	res.Observations = append(res.Observations, obs)
	for _, m := range e.metrics {
		m.Observe(obs)
	}
	for _, o := range e.observers {
		o(obs)
	}
}

func (e *Experiment) finish(res *Result) {
	res.FinalDensity = e.eng.ProbabilityDensity()
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}
