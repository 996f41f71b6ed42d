// Package analysis turns the reloaded measurement history into per-metric series and summaries.
package analysis

import (
	"math"
	"time"

	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

// Series is one metric over time; Times and Values are parallel.
type Series struct {
	Metric sensor.Metric
	Times  []time.Time
	Values []float64
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Values) }

// MetricSummary aggregates one metric over a window of rows.
type MetricSummary struct {
	Metric sensor.Metric `json:"-"`
	Key    string        `json:"metric"`
	Count  int           `json:"count"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
	Avg    float64       `json:"avg"`
	Last   float64       `json:"last"`
	LastAt time.Time     `json:"last_at"`
}

// BuildSeries splits rows into the five parallel per-metric sequences, in metric order.
func BuildSeries(rows []sensor.Measurement) []Series {
	out := make([]Series, len(sensor.Metrics))
	for i, metric := range sensor.Metrics {
		s := Series{Metric: metric, Times: make([]time.Time, 0, len(rows)), Values: make([]float64, 0, len(rows))}
		for _, r := range rows {
			s.Times = append(s.Times, r.Timestamp)
			s.Values = append(s.Values, r.Value(metric))
		}
		out[i] = s
	}
	return out
}

// Tail returns at most the last n rows (all rows when n <= 0).
func Tail(rows []sensor.Measurement, n int) []sensor.Measurement {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[len(rows)-n:]
}

// Summarize computes min/max/avg/last per metric. NaN readings are ignored.
func Summarize(rows []sensor.Measurement) []MetricSummary {
	out := make([]MetricSummary, 0, len(sensor.Metrics))
	for _, s := range BuildSeries(rows) {
		sum := MetricSummary{Metric: s.Metric, Key: s.Metric.Key(), Min: math.NaN(), Max: math.NaN(), Avg: math.NaN(), Last: math.NaN()}
		total := 0.0
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			if sum.Count == 0 || v < sum.Min {
				sum.Min = v
			}
			if sum.Count == 0 || v > sum.Max {
				sum.Max = v
			}
			total += v
			sum.Count++
			sum.Last = v
			sum.LastAt = s.Times[i]
		}
		if sum.Count > 0 {
			sum.Avg = total / float64(sum.Count)
		}
		out = append(out, sum)
	}
	return out
}
