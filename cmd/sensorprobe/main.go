// sensorprobe opens the sensor port and prints what arrives, raw and parsed, so wiring and
// baud rate can be checked without the window or the spreadsheet.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/BrunoCord1/Microcontroladores-II/src/monitor"
	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

func main() {
	var cfg monitor.SerialConfig
	var count int
	var wait time.Duration
	fs := pflag.NewFlagSet("sensorprobe", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Port, "port", "p", monitor.DefaultPort, "Serial port of the sensor board")
	fs.IntVarP(&cfg.BaudRate, "baud", "b", monitor.DefaultBaudRate, "Serial baud rate")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", monitor.DefaultReadTimeout, "Per-read serial timeout")
	fs.IntVarP(&count, "count", "c", 5, "Lines to print before exiting")
	fs.DurationVar(&wait, "wait", 15*time.Second, "Give up after this long")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	fmt.Printf("[sensorprobe] opening %s @ %d\n", cfg.Port, cfg.BaudRate)
	r, err := monitor.OpenSerial(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	n, err := probe(ctx, r, os.Stdout, count)
	fmt.Printf("[sensorprobe] %d line(s) read\n", n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		r.Close()
		os.Exit(1)
	}
}

// idleBackoff keeps the loop from spinning on sources without a read timeout.
const idleBackoff = 10 * time.Millisecond

// probe prints up to count lines from src with their parse result. It returns the number of
// lines printed and ctx.Err() when the deadline hits first.
func probe(ctx context.Context, src monitor.LineSource, out io.Writer, count int) (int, error) {
	n := 0
	for n < count {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		line, ok := src.TryReadLine()
		if !ok {
			time.Sleep(idleBackoff)
			continue
		}
		n++
		fmt.Fprintf(out, "raw:    %q\n", line)
		m, err := sensor.Parse(line, time.Now())
		if err != nil {
			fmt.Fprintf(out, "parsed: error: %v\n", err)
			continue
		}
		parts := make([]interface{}, 0, 2*len(sensor.Metrics))
		for _, metric := range sensor.Metrics {
			parts = append(parts, metric.Key(), m.FormatValue(metric))
		}
		fmt.Fprintf(out, "parsed: %s=%s %s=%s %s=%s %s=%s %s=%s\n", parts...)
	}
	return n, nil
}
