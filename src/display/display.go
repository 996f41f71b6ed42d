// Package display keeps the five live values shown in the window.
package display

import (
	"fyne.io/fyne/v2/data/binding"

	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

// State holds one bound string per metric, in metric order. Only the latest reading is kept.
type State struct {
	values []binding.String
}

// NewState returns a State with empty values.
func NewState() *State {
	s := &State{values: make([]binding.String, len(sensor.Metrics))}
	for i := range s.values {
		s.values[i] = binding.NewString()
	}
	return s
}

// Binding returns the bound value for metric, for use with widget.NewLabelWithData.
func (s *State) Binding(metric sensor.Metric) binding.String {
	return s.values[metric]
}

// Name identifies the display sink in logs.
func (s *State) Name() string { return "display" }

// Record overwrites all five values with m. It must run on the UI goroutine.
func (s *State) Record(m sensor.Measurement) error {
	for i, metric := range sensor.Metrics {
		if err := s.values[i].Set(m.FormatValue(metric)); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns the current values in metric order.
func (s *State) Snapshot() []string {
	out := make([]string, len(s.values))
	for i, v := range s.values {
		out[i], _ = v.Get()
	}
	return out
}
