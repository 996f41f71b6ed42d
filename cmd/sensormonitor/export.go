package main

import (
	"time"

	"github.com/BrunoCord1/Microcontroladores-II/src/charts"
	"github.com/BrunoCord1/Microcontroladores-II/src/datalog"
	"github.com/BrunoCord1/Microcontroladores-II/src/monitor"
)

// runChartsExport renders the chart grid of the log at logPath into a PNG at outPath.
// It needs neither the serial port nor a display.
func runChartsExport(logPath, outPath string) error {
	defer monitor.TimeTrack(time.Now(), "charts export")
	img, err := renderLogCharts(datalog.New(logPath))
	if err != nil {
		return err
	}
	return charts.WritePNG(img, outPath)
}
