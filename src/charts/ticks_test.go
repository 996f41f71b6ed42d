package charts

import (
	"math"
	"testing"
	"time"
)

func TestPanelYRange(t *testing.T) {
	cases := []struct{ min, max float64 }{
		{0, 100},
		{21.9, 23.4},
		{55, 55},
		{512, 512},
		{0, 0},
		{-3, 7},
	}
	for _, c := range cases {
		a, b, step := panelYRange(c.min, c.max)
		if !(a < c.min && b > c.max) {
			t.Fatalf("range [%v,%v] does not strictly cover [%v,%v]", a, b, c.min, c.max)
		}
		ticks := numericTicks(a, b, step)
		if len(ticks) < 2 {
			t.Fatalf("[%v,%v] step %v: too few ticks %v", a, b, step, ticks)
		}
		if math.Abs(ticks[0].Value-a) > 1e-6 || math.Abs(ticks[len(ticks)-1].Value-b) > 1e-6 {
			t.Fatalf("[%v,%v]: ends %v..%v not on ticks (step %v)", a, b, ticks[0].Value, ticks[len(ticks)-1].Value, step)
		}
		for i := 1; i < len(ticks); i++ {
			if ticks[i].Value <= ticks[i-1].Value {
				t.Fatalf("ticks not increasing: %v", ticks)
			}
		}
	}
	// flat series: room scales with the reading
	a, b, _ := panelYRange(512, 512)
	if b-a < 25 {
		t.Fatalf("flat 512 range too tight: [%v,%v]", a, b)
	}
}

func TestTickStep(t *testing.T) {
	cases := map[float64]float64{10: 2.5, 100: 25, 4: 1}
	for span, want := range cases {
		if got := tickStep(span, 5); got != want {
			t.Fatalf("span %v: step %v want %v", span, got, want)
		}
	}
}

func TestNumericTicks_Degenerate(t *testing.T) {
	if numericTicks(0, 1, 0) != nil || numericTicks(1, 1, 0.5) != nil {
		t.Fatalf("degenerate input should yield nil")
	}
}

func TestFormatNumericTick(t *testing.T) {
	cases := map[float64]string{0: "0", 512: "512", 23.4: "23.4", 2.5: "2.50", 0.25: "0.250"}
	for in, want := range cases {
		if got := formatNumericTick(in); got != want {
			t.Fatalf("format %v: got %q want %q", in, got, want)
		}
	}
}

func TestTimeTicks_InsideRangeAndThinned(t *testing.T) {
	minT := time.Date(2025, 1, 1, 10, 0, 3, 0, time.Local)
	maxT := minT.Add(10 * time.Minute)
	step, layout := pickTimeStep(maxT.Sub(minT))
	ticks := timeTicks(minT, maxT, step, layout)
	if len(ticks) < 2 || len(ticks) > maxTimeTicks {
		t.Fatalf("tick count %d", len(ticks))
	}
	lo := float64(minT.UnixNano())
	hi := float64(maxT.UnixNano())
	for _, tk := range ticks {
		if tk.Value < lo || tk.Value > hi {
			t.Fatalf("tick %q outside range", tk.Label)
		}
	}
	// a range narrower than one step falls back to its ends
	ticks = timeTicks(minT, minT.Add(2*time.Second), time.Minute, "15:04:05")
	if len(ticks) != 2 || ticks[0].Label != minT.Format("15:04:05") {
		t.Fatalf("fallback ticks %v", ticks)
	}
}
