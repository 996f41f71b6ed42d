package display

import (
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

func TestRecord_OverwritesAllValues(t *testing.T) {
	test.NewTempApp(t)
	s := NewState()
	if got := strings.Join(s.Snapshot(), ","); got != ",,,," {
		t.Fatalf("initial snapshot %q", got)
	}
	m, err := sensor.Parse("512,23.4,87.0,21.9,55", time.Now())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := s.Record(m); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := strings.Join(s.Snapshot(), ","); got != "512,23.4,87.0,21.9,55" {
		t.Fatalf("snapshot %q", got)
	}
	m2, _ := sensor.Parse("400,20,10.5,19.5,60.25", time.Now())
	s.Record(m2)
	if got := strings.Join(s.Snapshot(), ","); got != "400,20,10.5,19.5,60.25" {
		t.Fatalf("snapshot after overwrite %q", got)
	}
	if v, _ := s.Binding(sensor.HumidityDHT22).Get(); v != "60.25" {
		t.Fatalf("binding value %q", v)
	}
}
