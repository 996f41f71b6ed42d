// Package datalog persists measurements to the spreadsheet log. Every append reloads and
// rewrites the whole workbook, the same way the log has always been maintained.
package datalog

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BrunoCord1/Microcontroladores-II/src/monitor"
	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

// DefaultFile is the log file name, relative to the working directory.
const DefaultFile = "sensores.xlsx"

// SheetName is the sheet created for a new log.
const SheetName = "Mediciones"

// Log is the append-only measurement workbook at Path.
type Log struct {
	Path string
}

// New returns a Log for path (DefaultFile when empty).
func New(path string) *Log {
	if path == "" {
		path = DefaultFile
	}
	return &Log{Path: path}
}

// Name identifies the log sink in logs.
func (l *Log) Name() string { return "datalog" }

// EnsureInitialized creates the workbook with its header row if the file does not exist.
// An existing file is left untouched.
func (l *Log) EnsureInitialized() error {
	if _, err := os.Stat(l.Path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", l.Path, err)
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := sensor.Header()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &row); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SaveAs(l.Path); err != nil {
		return fmt.Errorf("create %s: %w", l.Path, err)
	}
	monitor.Infof("[datalog] created %s with sheet %s", l.Path, SheetName)
	return nil
}

// Append opens the workbook, writes m after the last used row of the active sheet and saves.
func (l *Log) Append(m sensor.Measurement) error {
	if _, err := os.Stat(l.Path); errors.Is(err, os.ErrNotExist) {
		monitor.Warnf("[datalog] %s disappeared; recreating", l.Path)
		if err := l.EnsureInitialized(); err != nil {
			return err
		}
	}
	start := time.Now()
	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.Path, err)
	}
	defer f.Close()
	sheet := activeSheet(f)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", l.Path, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	row := m.Row()
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("write row %s: %w", cell, err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save %s: %w", l.Path, err)
	}
	monitor.TimeTrack(start, "append "+cell)
	return nil
}

// Record implements monitor.Sink.
func (l *Log) Record(m sensor.Measurement) error { return l.Append(m) }

// Load reloads every data row (row 2 onward) from disk. Blank rows are skipped; any
// other malformed row fails the whole load.
func (l *Log) Load() ([]sensor.Measurement, error) {
	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.Path, err)
	}
	defer f.Close()
	rows, err := f.GetRows(activeSheet(f), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.Path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	out := make([]sensor.Measurement, 0, len(rows)-1)
	for i, r := range rows[1:] {
		if blankRow(r) {
			continue
		}
		m, err := parseRow(r)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", l.Path, i+2, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func activeSheet(f *excelize.File) string {
	if name := f.GetSheetName(f.GetActiveSheetIndex()); name != "" {
		return name
	}
	return SheetName
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(r []string) (sensor.Measurement, error) {
	if len(r) != len(sensor.Metrics)+1 {
		return sensor.Measurement{}, fmt.Errorf("expected %d fields, got %d", len(sensor.Metrics)+1, len(r))
	}
	ts, err := time.ParseInLocation(sensor.TimestampLayout, strings.TrimSpace(r[0]), time.Local)
	if err != nil {
		return sensor.Measurement{}, fmt.Errorf("timestamp: %w", err)
	}
	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(r[i+1]), 64)
		if err != nil {
			return sensor.Measurement{}, fmt.Errorf("%s: %w", sensor.Metrics[i].Header(), err)
		}
		vals[i] = v
	}
	return sensor.Measurement{
		Timestamp:     ts,
		SoilHumidity:  int(vals[0]),
		TempLM35:      vals[1],
		DistanceCm:    vals[2],
		TempDHT22:     vals[3],
		HumidityDHT22: vals[4],
	}, nil
}
