package main

import (
	"errors"
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/spf13/pflag"

	"github.com/BrunoCord1/Microcontroladores-II/src/datalog"
	"github.com/BrunoCord1/Microcontroladores-II/src/display"
	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

// writeLog creates a log at a temp path holding n one-minute-apart readings.
func writeLog(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sensores.xlsx")
	l := datalog.New(path)
	if err := l.EnsureInitialized(); err != nil {
		t.Fatalf("init: %v", err)
	}
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
	for i := 0; i < n; i++ {
		m := sensor.Measurement{
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
			SoilHumidity:  500 + i,
			TempLM35:      23.4,
			DistanceCm:    float64(80 + i),
			TempDHT22:     21.9,
			HumidityDHT22: 55,
		}
		if err := l.Append(m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return path
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.serial.Port != "COM3" || cfg.serial.BaudRate != 9600 {
		t.Fatalf("serial defaults %+v", cfg.serial)
	}
	if cfg.interval != time.Second || cfg.logFile != "sensores.xlsx" {
		t.Fatalf("interval=%s file=%s", cfg.interval, cfg.logFile)
	}
	if cfg.chartsOut != "" || cfg.metricsAddr != "" || cfg.mqttBroker != "" {
		t.Fatalf("optional outputs should be off by default: %+v", cfg)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	cfg, err := parseFlags([]string{"-p", "/dev/ttyUSB0", "--baud=115200", "-i", "250ms", "--file", "x.xlsx", "--log-level", "debug"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.serial.Port != "/dev/ttyUSB0" || cfg.serial.BaudRate != 115200 || cfg.interval != 250*time.Millisecond || cfg.logFile != "x.xlsx" || cfg.logLevel != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if _, err := parseFlags([]string{"--help"}); !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
}

func TestRunChartsExport_WritesPNG(t *testing.T) {
	for _, n := range []int{0, 1, 12} {
		logPath := writeLog(t, n)
		out := filepath.Join(t.TempDir(), "graficas.png")
		if err := runChartsExport(logPath, out); err != nil {
			t.Fatalf("n=%d export: %v", n, err)
		}
		f, err := os.Open(out)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if cfg.Width != 1200 || cfg.Height != 800 {
			t.Fatalf("n=%d size %dx%d", n, cfg.Width, cfg.Height)
		}
	}
}

func TestRunChartsExport_MissingLog(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "graficas.png")
	if err := runChartsExport(filepath.Join(dir, "nope.xlsx"), out); err == nil {
		t.Fatalf("expected error for missing log")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("no PNG expected when the log cannot be read")
	}
}

func TestWindow_ButtonsUseLog(t *testing.T) {
	a := test.NewTempApp(t)
	logPath := writeLog(t, 3)
	state := buildUI(a, logPath, datalog.New(logPath), display.NewState())

	var opened string
	state.launch = func(p string) error { opened = p; return nil }
	openLog(state)
	if opened != logPath {
		t.Fatalf("launcher got %q want %q", opened, logPath)
	}

	showCharts(state)
	if state.chartWindow == nil || state.chartImage == nil || state.chartImage.Image == nil {
		t.Fatalf("chart window not shown")
	}
	first := state.chartWindow
	showCharts(state)
	if state.chartWindow != first {
		t.Fatalf("chart window should be reused while open")
	}
	first.Close()
	if state.chartWindow != nil {
		t.Fatalf("chart window reference should clear on close")
	}
}

func TestWindow_CorruptLogKeepsRunning(t *testing.T) {
	a := test.NewTempApp(t)
	path := filepath.Join(t.TempDir(), "sensores.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	state := buildUI(a, path, datalog.New(path), display.NewState())
	showCharts(state)
	if state.chartWindow != nil {
		t.Fatalf("no chart window expected for unreadable log")
	}
}
