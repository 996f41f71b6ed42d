// Package charts renders the measurement history as a fixed 3x2 grid of time-series panels.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"sync"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/BrunoCord1/Microcontroladores-II/src/analysis"
	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

// DefaultTitle is the heading drawn above the grid.
const DefaultTitle = "Gráficas de Sensores"

const (
	gridRows  = 3
	gridCols  = 2
	titleBand = 44
)

// panelColors follows the metric order.
var panelColors = map[sensor.Metric]drawing.Color{
	sensor.SoilHumidity:  drawing.ColorFromHex("008000"),
	sensor.TempLM35:      drawing.ColorFromHex("ff0000"),
	sensor.DistanceCm:    drawing.ColorFromHex("0000ff"),
	sensor.TempDHT22:     drawing.ColorFromHex("ffa500"),
	sensor.HumidityDHT22: drawing.ColorFromHex("800080"),
}

// Options controls the grid size and heading.
type Options struct {
	Width  int
	Height int
	Title  string
}

func (o Options) withDefaults() Options {
	if o.Width < 400 {
		o.Width = 1200
	}
	if o.Height < 300 {
		o.Height = 800
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	return o
}

// RenderGrid draws one panel per series (row-major, at most five) with the last cell left blank.
// Empty series become empty titled panels; any chart render failure fails the whole grid.
func RenderGrid(series []analysis.Series, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	cellW := opts.Width / gridCols
	cellH := (opts.Height - titleBand) / gridRows
	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	titleFace, _ := faces()
	drawCentered(out, titleFace, opts.Title, opts.Width/2, titleBand-14)

	if len(series) > gridRows*gridCols-1 {
		series = series[:gridRows*gridCols-1]
	}
	for i, s := range series {
		img, err := renderPanel(s, cellW, cellH)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Metric.Title(), err)
		}
		x := (i % gridCols) * cellW
		y := titleBand + (i/gridCols)*cellH
		draw.Draw(out, image.Rect(x, y, x+cellW, y+cellH), img, img.Bounds().Min, draw.Over)
	}
	return out, nil
}

// renderPanel charts one metric against time.
func renderPanel(s analysis.Series, w, h int) (image.Image, error) {
	times, ys := finitePoints(s)
	if len(ys) == 0 {
		return emptyPanel(s.Metric.Title(), w, h), nil
	}
	minT, maxT := times[0], times[0]
	minY, maxY := ys[0], ys[0]
	for i := range ys {
		if times[i].Before(minT) {
			minT = times[i]
		}
		if times[i].After(maxT) {
			maxT = times[i]
		}
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}
	step, labelFmt := pickTimeStep(maxT.Sub(minT))
	if !maxT.After(minT) {
		// go-chart needs a non-zero x range
		maxT = minT.Add(step)
		times = append(times, maxT)
		ys = append(ys, ys[len(ys)-1])
	}
	yMin, yMax, yStep := panelYRange(minY, maxY)

	col := panelColors[s.Metric]
	ch := chart.Chart{
		Title:      s.Metric.Title(),
		TitleStyle: chart.Style{FontSize: 11},
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 34, Left: 12, Right: 24, Bottom: 12}},
		XAxis: chart.XAxis{
			Style: chart.Style{TextRotationDegrees: 45, FontSize: 8},
			Range: &chart.ContinuousRange{Min: chart.TimeToFloat64(minT), Max: chart.TimeToFloat64(maxT)},
			Ticks: timeTicks(minT, maxT, step, labelFmt),
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 8},
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: numericTicks(yMin, yMax, yStep),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    s.Metric.Title(),
				XValues: times,
				YValues: ys,
				Style:   chart.Style{StrokeColor: col, StrokeWidth: 1.5},
			},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// finitePoints drops NaN and Inf readings, which go-chart cannot scale.
func finitePoints(s analysis.Series) ([]time.Time, []float64) {
	times := make([]time.Time, 0, len(s.Values))
	ys := make([]float64, 0, len(s.Values))
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) || i >= len(s.Times) {
			continue
		}
		times = append(times, s.Times[i])
		ys = append(ys, v)
	}
	return times, ys
}

// emptyPanel is a white cell with the panel title and a no-data note.
func emptyPanel(title string, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	_, textFace := faces()
	drawCentered(img, textFace, title, w/2, 24)
	drawCentered(img, textFace, "sin datos", w/2, h/2)
	frame := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for x := 12; x < w-12; x++ {
		img.SetRGBA(x, 34, frame)
		img.SetRGBA(x, h-12, frame)
	}
	for y := 34; y <= h-12; y++ {
		img.SetRGBA(12, y, frame)
		img.SetRGBA(w-13, y, frame)
	}
	return img
}

var (
	faceOnce  sync.Once
	boldFace  font.Face
	plainFace font.Face
)

// faces returns the heading and body faces (Go fonts, which cover the Spanish accents).
func faces() (font.Face, font.Face) {
	faceOnce.Do(func() {
		boldFace = mustFace(gobold.TTF, 18)
		plainFace = mustFace(goregular.TTF, 12)
	})
	return boldFace, plainFace
}

func mustFace(ttf []byte, size float64) font.Face {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		panic(fmt.Sprintf("build font face: %v", err))
	}
	return face
}

// drawCentered draws text horizontally centred on cx with its baseline at y.
func drawCentered(dst draw.Image, face font.Face, text string, cx, y int) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.Point26_6{X: fixed.I(cx - w/2), Y: fixed.I(y)}
	d.DrawString(text)
}

// WritePNG encodes img to path.
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
