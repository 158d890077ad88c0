// Package metrics exposes plant state as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/rcliao/plants/internal/model"
)

// Recorder receives plant observations. NoopRecorder discards them.
type Recorder interface {
	ObserveState(plant string, state model.State, sinceWatered time.Duration)
	IncWatering(plant string, outcome model.Outcome)
	IncDeath(plant string)
}

// NoopRecorder implements Recorder and does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveState(string, model.State, time.Duration) {}
func (NoopRecorder) IncWatering(string, model.Outcome) {}
func (NoopRecorder) IncDeath(string) {}

var allStates = []model.State{model.StateNew, model.StateBlooming, model.StateNeedsWater, model.StateDead}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg          *prom.Registry
	state        *prom.GaugeVec
	sinceWatered *prom.GaugeVec
	waterings    *prom.CounterVec
	deaths       *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the plant metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		state: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "plants",
			Name:      "state",
			Help:      "1 for the plant's current state, 0 for the others",
		}, []string{"plant", "state"}),
		sinceWatered: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "plants",
			Name:      "seconds_since_watered",
			Help:      "Seconds since the plant was last watered",
		}, []string{"plant"}),
		waterings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "plants",
			Name:      "waterings_total",
			Help:      "Watering actions by outcome",
		}, []string{"plant", "outcome"}),
		deaths: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "plants",
			Name:      "deaths_total",
			Help:      "Observed plant deaths",
		}, []string{"plant"}),
	}
	reg.MustRegister(pr.state, pr.sinceWatered, pr.waterings, pr.deaths)
	return pr
}

func (p *PrometheusRecorder) ObserveState(plant string, state model.State, sinceWatered time.Duration) {
	for _, s := range allStates {
		v := 0.0
		if s == state {
			v = 1
		}
		p.state.WithLabelValues(plant, string(s)).Set(v)
	}
	p.sinceWatered.WithLabelValues(plant).Set(sinceWatered.Seconds())
}

func (p *PrometheusRecorder) IncWatering(plant string, outcome model.Outcome) {
	p.waterings.WithLabelValues(plant, string(outcome)).Inc()
}

// AddWaterings adds n journal entries at once, for seeding from stored history.
func (p *PrometheusRecorder) AddWaterings(plant string, outcome model.Outcome, n int) {
	p.waterings.WithLabelValues(plant, string(outcome)).Add(float64(n))
}

func (p *PrometheusRecorder) IncDeath(plant string) {
	p.deaths.WithLabelValues(plant).Inc()
}

// WriteTextfile writes the registry in the text exposition format for
// the node exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
