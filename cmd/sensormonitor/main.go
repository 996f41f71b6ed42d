// Sensor monitor desktop entrypoint.
//
// Polls the sensor array on a serial port once per interval, shows the latest values in a
// small window, appends every reading to the spreadsheet log and draws the history on demand.
//
// Design notes:
//   - The serial reader is owned by the poll goroutine. Everything that touches the window or the
//     log file (sink delivery, button handlers) runs on the Fyne UI goroutine, so a chart reload
//     never overlaps an append.
//   - --charts-out renders the chart grid to a PNG and exits without opening the port or a window.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"github.com/spf13/pflag"

	"github.com/BrunoCord1/Microcontroladores-II/src/datalog"
	"github.com/BrunoCord1/Microcontroladores-II/src/display"
	"github.com/BrunoCord1/Microcontroladores-II/src/monitor"
)

type config struct {
	serial      monitor.SerialConfig
	interval    time.Duration
	logFile     string
	logLevel    string
	chartsOut   string
	metricsAddr string
	mqttBroker  string
	mqttTopic   string
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := pflag.NewFlagSet("sensormonitor", pflag.ContinueOnError)
	fs.StringVarP(&cfg.serial.Port, "port", "p", monitor.DefaultPort, "Serial port of the sensor board")
	fs.IntVarP(&cfg.serial.BaudRate, "baud", "b", monitor.DefaultBaudRate, "Serial baud rate")
	fs.DurationVar(&cfg.serial.ReadTimeout, "read-timeout", monitor.DefaultReadTimeout, "Per-read serial timeout")
	fs.DurationVarP(&cfg.interval, "interval", "i", monitor.DefaultPollInterval, "Poll interval")
	fs.StringVarP(&cfg.logFile, "file", "f", datalog.DefaultFile, "Spreadsheet log file")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.chartsOut, "charts-out", "", "Render the chart grid of --file to this PNG and exit")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9101); empty disables")
	fs.StringVar(&cfg.mqttBroker, "mqtt-broker", "", "Publish each measurement to this MQTT broker (e.g. tcp://localhost:1883); empty disables")
	fs.StringVar(&cfg.mqttTopic, "mqtt-topic", monitor.DefaultMQTTTopic, "MQTT topic for published measurements")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	monitor.SetLogLevel(cfg.logLevel)
	defer monitor.Sync()

	if cfg.chartsOut != "" {
		if err := runChartsExport(cfg.logFile, cfg.chartsOut); err != nil {
			monitor.Errorf("[charts] %v", err)
			monitor.Sync()
			os.Exit(1)
		}
		monitor.Infof("[charts] wrote %s", cfg.chartsOut)
		return
	}

	if err := run(cfg); err != nil {
		monitor.Errorf("[init] %v", err)
		monitor.Sync()
		os.Exit(1)
	}
}

func run(cfg config) error {
	logbook := datalog.New(cfg.logFile)
	if err := logbook.EnsureInitialized(); err != nil {
		return err
	}
	reader, err := monitor.OpenSerial(cfg.serial)
	if err != nil {
		return err
	}
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := display.NewState()
	sinks := []monitor.Sink{live, logbook}
	opts := []monitor.Option{
		monitor.WithInterval(cfg.interval),
		monitor.WithDispatch(fyne.DoAndWait),
	}
	if cfg.metricsAddr != "" {
		m := monitor.NewMetrics()
		sinks = append(sinks, m)
		opts = append(opts, monitor.WithMetrics(m))
		go func() {
			if err := m.Serve(ctx, cfg.metricsAddr); err != nil {
				monitor.Errorf("[metrics] %v", err)
			}
		}()
	}
	if cfg.mqttBroker != "" {
		pub, err := monitor.NewPublisher(cfg.mqttBroker, cfg.mqttTopic)
		if err != nil {
			// optional output; the window still works without it
			monitor.Warnf("[mqtt] %v; publishing disabled", err)
		} else {
			defer pub.Close()
			sinks = append(sinks, pub)
		}
	}

	state := newUIState(cfg.logFile, logbook, live)
	state.window.SetOnClosed(cancel)
	poller := monitor.NewPoller(reader, sinks, opts...)
	go poller.Run(ctx)

	monitor.Infof("[init] port=%s baud=%d interval=%s file=%s", cfg.serial.Port, cfg.serial.BaudRate, cfg.interval, cfg.logFile)
	state.window.ShowAndRun()
	return nil
}
