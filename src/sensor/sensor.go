// Package sensor holds the measurement type produced by the sensor array and the
// parser for its comma separated serial line format.
package sensor

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the layout used for the timestamp column of the log (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// TimestampHeader is the header of the first log column.
const TimestampHeader = "Fecha/Hora"

// FieldCount is the number of comma separated values in one serial line.
const FieldCount = 5

var (
	// ErrMalformed is wrapped by every parse failure.
	ErrMalformed = errors.New("malformed sensor line")
	// ErrFieldCount reports a line that does not carry exactly FieldCount values.
	ErrFieldCount = fmt.Errorf("%w: wrong field count", ErrMalformed)
)

// Measurement is one decoded reading of the sensor array.
type Measurement struct {
	Timestamp     time.Time `json:"timestamp"`
	SoilHumidity  int       `json:"soil_humidity"`
	TempLM35      float64   `json:"temp_lm35"`
	DistanceCm    float64   `json:"distance_cm"`
	TempDHT22     float64   `json:"temp_dht22"`
	HumidityDHT22 float64   `json:"humidity_dht22"`

	// text holds the trimmed fields as received, shown on screen verbatim.
	// Empty for measurements reloaded from the log.
	text [FieldCount]string
}

// Field syntax: optional sign, base-10 digits, optional fraction and exponent.
var (
	integerField = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalField = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// Parse decodes one serial line into a Measurement stamped with ts.
// Field 0 is a decimal integer, fields 1-4 are finite decimal numbers; anything else
// (hex, NaN, Inf, digit separators) is rejected.
func Parse(line string, ts time.Time) (Measurement, error) {
	parts := strings.Split(line, ",")
	if len(parts) != FieldCount {
		return Measurement{}, fmt.Errorf("%w: got %d want %d", ErrFieldCount, len(parts), FieldCount)
	}
	m := Measurement{Timestamp: ts}
	for i := range parts {
		m.text[i] = strings.TrimSpace(parts[i])
	}
	if !integerField.MatchString(m.text[0]) {
		return Measurement{}, fmt.Errorf("%w: field 0: %q is not an integer", ErrMalformed, m.text[0])
	}
	soil, err := strconv.Atoi(m.text[0])
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: field 0: %v", ErrMalformed, err)
	}
	m.SoilHumidity = soil
	var vals [FieldCount - 1]float64
	for i := 1; i < FieldCount; i++ {
		if !decimalField.MatchString(m.text[i]) {
			return Measurement{}, fmt.Errorf("%w: field %d: %q is not a decimal number", ErrMalformed, i, m.text[i])
		}
		v, err := strconv.ParseFloat(m.text[i], 64)
		if err != nil || math.IsInf(v, 0) {
			return Measurement{}, fmt.Errorf("%w: field %d: %q out of range", ErrMalformed, i, m.text[i])
		}
		vals[i-1] = v
	}
	m.TempLM35, m.DistanceCm, m.TempDHT22, m.HumidityDHT22 = vals[0], vals[1], vals[2], vals[3]
	return m, nil
}

// Value returns the reading for metric as float64.
func (m Measurement) Value(metric Metric) float64 {
	switch metric {
	case SoilHumidity:
		return float64(m.SoilHumidity)
	case TempLM35:
		return m.TempLM35
	case DistanceCm:
		return m.DistanceCm
	case TempDHT22:
		return m.TempDHT22
	case HumidityDHT22:
		return m.HumidityDHT22
	}
	return 0
}

// FormatValue renders the reading for metric the way it is shown on screen: the field as the
// device sent it, or the shortest decimal form for reloaded rows.
func (m Measurement) FormatValue(metric Metric) string {
	if metric >= 0 && int(metric) < len(m.text) && m.text[metric] != "" {
		return m.text[metric]
	}
	if metric == SoilHumidity {
		return strconv.Itoa(m.SoilHumidity)
	}
	return strconv.FormatFloat(m.Value(metric), 'f', -1, 64)
}

// Row returns the log row for m: timestamp string followed by the five readings.
func (m Measurement) Row() []interface{} {
	return []interface{}{
		m.Timestamp.Format(TimestampLayout),
		m.SoilHumidity,
		m.TempLM35,
		m.DistanceCm,
		m.TempDHT22,
		m.HumidityDHT22,
	}
}

// Header returns the fixed header row of the log.
func Header() []string {
	out := make([]string, 0, len(Metrics)+1)
	out = append(out, TimestampHeader)
	for _, m := range Metrics {
		out = append(out, m.Header())
	}
	return out
}
