package sensor

import (
	"errors"
	"testing"
	"time"
)

func TestParse_WellFormed(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 30, 0, 0, time.Local)
	m, err := Parse("512,23.4,87.0,21.9,55", ts)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Measurement{Timestamp: ts, SoilHumidity: 512, TempLM35: 23.4, DistanceCm: 87.0, TempDHT22: 21.9, HumidityDHT22: 55,
		text: [FieldCount]string{"512", "23.4", "87.0", "21.9", "55"}}
	if m != want {
		t.Fatalf("got %+v want %+v", m, want)
	}
	row := m.Row()
	if len(row) != 6 {
		t.Fatalf("row len %d", len(row))
	}
	if row[0] != "2025-03-01 12:30:00" {
		t.Fatalf("timestamp cell %v", row[0])
	}
	if row[1] != 512 || row[2] != 23.4 || row[3] != 87.0 || row[4] != 21.9 || row[5] != 55.0 {
		t.Fatalf("row values %v", row)
	}
}

func TestParse_ToleratesFieldSpacesAndNegatives(t *testing.T) {
	m, err := Parse(" 12 , -3.5,0 ,1e2, 40.25", time.Time{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.SoilHumidity != 12 || m.TempLM35 != -3.5 || m.DistanceCm != 0 || m.TempDHT22 != 100 || m.HumidityDHT22 != 40.25 {
		t.Fatalf("unexpected %+v", m)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		line       string
		fieldCount bool
	}{
		{"512,23.4,87.0", true},
		{"", true},
		{"512,23.4,87.0,21.9,55,1", true},
		{"512,23.4,87.0,21.9,", false},
		{"51.2,23.4,87.0,21.9,55", false},
		{"abc,23.4,87.0,21.9,55", false},
		{"512,x,87.0,21.9,55", false},
		{"512;23.4;87.0;21.9;55", true},
		{"512,0x1p4,87,21.9,55", false},
		{"512,23.4,0x10,21.9,55", false},
		{"512,NaN,87,21.9,55", false},
		{"512,23.4,87,nan,55", false},
		{"512,23.4,87,21.9,Inf", false},
		{"512,-infinity,87,21.9,55", false},
		{"512,23.4,1e400,21.9,55", false},
		{"512,1_0,87,21.9,55", false},
		{"1_000,23.4,87,21.9,55", false},
		{"0x200,23.4,87,21.9,55", false},
		{"512,23.4,.,21.9,55", false},
		{"512,23.4,1e,21.9,55", false},
	}
	for _, c := range cases {
		_, err := Parse(c.line, time.Now())
		if err == nil {
			t.Fatalf("expected error for %q", c.line)
		}
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("error for %q does not wrap ErrMalformed: %v", c.line, err)
		}
		if c.fieldCount != errors.Is(err, ErrFieldCount) {
			t.Fatalf("field count classification for %q: %v", c.line, err)
		}
	}
}

func TestHeaderAndCatalogue(t *testing.T) {
	want := []string{"Fecha/Hora", "Humedad Suelo", "Temp LM35 (°C)", "Distancia (cm)", "Temp DHT22 (°C)", "Humedad DHT22 (%)"}
	got := Header()
	if len(got) != len(want) {
		t.Fatalf("header len %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header[%d]=%q want %q", i, got[i], want[i])
		}
	}
	seen := map[string]bool{}
	for _, m := range Metrics {
		if m.Key() == "" || m.Label() == "" || m.Title() == "" {
			t.Fatalf("metric %d incomplete", m)
		}
		if seen[m.Key()] {
			t.Fatalf("duplicate key %s", m.Key())
		}
		seen[m.Key()] = true
	}
}

func TestParse_AcceptsPlainDecimals(t *testing.T) {
	m, err := Parse("+512,+23.4,.5,7.,-1.5E-1", time.Time{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.SoilHumidity != 512 || m.TempLM35 != 23.4 || m.DistanceCm != 0.5 || m.TempDHT22 != 7 || m.HumidityDHT22 != -0.15 {
		t.Fatalf("unexpected %+v", m)
	}
}

func TestFormatValue(t *testing.T) {
	// parsed readings keep the text the device sent
	parsed, err := Parse("512, 23.4,87.0,21.90,55", time.Time{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// reloaded rows only have the numbers
	reloaded := Measurement{SoilHumidity: 512, TempLM35: 23.4, DistanceCm: 87.0, TempDHT22: 21.9, HumidityDHT22: 55}
	cases := []struct {
		m    Measurement
		want []string
	}{
		{parsed, []string{"512", "23.4", "87.0", "21.90", "55"}},
		{reloaded, []string{"512", "23.4", "87", "21.9", "55"}},
	}
	for _, c := range cases {
		for i, metric := range Metrics {
			if got := c.m.FormatValue(metric); got != c.want[i] {
				t.Fatalf("%s: got %q want %q", metric, got, c.want[i])
			}
		}
	}
}
