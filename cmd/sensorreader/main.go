package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/pflag"

	"github.com/BrunoCord1/Microcontroladores-II/src/analysis"
	"github.com/BrunoCord1/Microcontroladores-II/src/datalog"
	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var file string
	var last int
	var asJSON bool
	fs := pflag.NewFlagSet("sensorreader", pflag.ContinueOnError)
	fs.StringVarP(&file, "file", "f", datalog.DefaultFile, "Path to the spreadsheet log")
	fs.IntVarP(&last, "n", "n", 0, "Only summarize the last N rows (0 = all)")
	fs.BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rows, err := datalog.New(file).Load()
	if err != nil {
		return err
	}
	rows = analysis.Tail(rows, last)
	sums := analysis.Summarize(rows)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Rows    int                      `json:"rows"`
			Metrics []analysis.MetricSummary `json:"metrics"`
		}{len(rows), jsonSafe(sums)})
	}
	fmt.Fprintf(out, "Total rows: %d\n", len(rows))
	if len(rows) > 0 {
		fmt.Fprintf(out, "From %s to %s\n", rows[0].Timestamp.Format(sensor.TimestampLayout), rows[len(rows)-1].Timestamp.Format(sensor.TimestampLayout))
	}
	for _, s := range sums {
		if s.Count == 0 {
			fmt.Fprintf(out, "%s: no data\n", s.Metric.Header())
			continue
		}
		fmt.Fprintf(out, "%s: min=%g avg=%.2f max=%g last=%g\n", s.Metric.Header(), s.Min, s.Avg, s.Max, s.Last)
	}
	return nil
}

// jsonSafe zeroes NaN aggregates, which encoding/json rejects.
func jsonSafe(sums []analysis.MetricSummary) []analysis.MetricSummary {
	out := make([]analysis.MetricSummary, len(sums))
	for i, s := range sums {
		for _, v := range []*float64{&s.Min, &s.Max, &s.Avg, &s.Last} {
			if math.IsNaN(*v) {
				*v = 0
			}
		}
		out[i] = s
	}
	return out
}
