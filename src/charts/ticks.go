package charts

import (
	"math"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
)

// panelYTicks is the number of y ticks aimed for on one panel.
const panelYTicks = 5

// panelYRange returns the y range of one panel and its tick step. Both ends sit on a multiple
// of the step and no reading lies on the frame. Flat series get room proportional to their value.
func panelYRange(lo, hi float64) (float64, float64, float64) {
	if hi <= lo {
		pad := math.Max(math.Abs(lo)*0.05, 0.5)
		lo, hi = lo-pad, hi+pad
	}
	step := tickStep(hi-lo, panelYTicks)
	a := math.Floor(lo/step) * step
	b := math.Ceil(hi/step) * step
	if a >= lo {
		a -= step
	}
	if b <= hi {
		b += step
	}
	return round6(a), round6(b), step
}

// tickStep picks the 1, 2, 2.5, 5 multiple of a power of ten that splits span into about n ticks.
func tickStep(span float64, n int) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	best := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		if diff := math.Abs(count - float64(n)); diff < bestScore {
			bestScore = diff
			best = step
		}
	}
	return best
}

// numericTicks places a tick on every multiple of step inside [min,max].
func numericTicks(min, max, step float64) []chart.Tick {
	if step <= 0 || math.IsNaN(min) || math.IsNaN(max) || max <= min {
		return nil
	}
	var out []chart.Tick
	for v := math.Round(min/step) * step; v <= max+step*1e-6; v += step {
		if v < min-step*1e-6 {
			continue
		}
		v = round6(v)
		out = append(out, chart.Tick{Value: v, Label: formatNumericTick(v)})
	}
	return out
}

// round6 rounds to 6 decimal places so labels do not pick up float noise.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// formatNumericTick provides a compact label.
func formatNumericTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	default:
		return strconv.FormatFloat(v, 'f', 3, 64)
	}
}

// pickTimeStep selects a readable step and label format for a given time span.
func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 30*time.Second:
		return 5 * time.Second, "15:04:05"
	case span <= 2*time.Minute:
		return 15 * time.Second, "15:04:05"
	case span <= 10*time.Minute:
		return 1 * time.Minute, "15:04"
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	case span <= 2*time.Hour:
		return 15 * time.Minute, "15:04"
	case span <= 6*time.Hour:
		return 1 * time.Hour, "Jan 2 15:04"
	case span <= 24*time.Hour:
		return 3 * time.Hour, "Jan 2 15:04"
	case span <= 3*24*time.Hour:
		return 12 * time.Hour, "Jan 2 15:04"
	case span <= 14*24*time.Hour:
		return 2 * 24 * time.Hour, "Jan 2"
	default:
		return 7 * 24 * time.Hour, "Jan 2"
	}
}

// maxTimeTicks keeps rotated labels of a half-width panel from overlapping.
const maxTimeTicks = 8

// timeTicks returns step aligned ticks inside [minT,maxT], thinned to maxTimeTicks.
// The range ends are used when no aligned tick falls inside.
func timeTicks(minT, maxT time.Time, step time.Duration, labelFmt string) []chart.Tick {
	if step <= 0 {
		step = time.Second
	}
	st := int64(step / time.Second)
	if st <= 0 {
		st = 1
	}
	s := minT.Unix()
	aligned := time.Unix(((s+st-1)/st)*st, 0)
	var ts []time.Time
	for t := aligned; !t.After(maxT); t = t.Add(step) {
		ts = append(ts, t)
	}
	if len(ts) < 2 {
		ts = []time.Time{minT, maxT}
	}
	if len(ts) > maxTimeTicks {
		every := (len(ts) + maxTimeTicks - 1) / maxTimeTicks
		thin := ts[:0:0]
		for i := 0; i < len(ts); i += every {
			thin = append(thin, ts[i])
		}
		ts = thin
	}
	ticks := make([]chart.Tick, 0, len(ts))
	for _, t := range ts {
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Local().Format(labelFmt)})
	}
	return ticks
}
