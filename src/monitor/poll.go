package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

// DefaultPollInterval is the wait between serial read attempts.
const DefaultPollInterval = 1000 * time.Millisecond

// Sink consumes parsed measurements (live display, spreadsheet log, metrics, MQTT).
type Sink interface {
	Record(m sensor.Measurement) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(m sensor.Measurement) error

func (f SinkFunc) Record(m sensor.Measurement) error { return f(m) }

// Poller drives the pipeline serial line -> parse -> sinks at a fixed interval.
type Poller struct {
	source   LineSource
	sinks    []Sink
	interval time.Duration
	dispatch func(func())
	now      func() time.Time
	log      *zap.Logger
	metrics  *Metrics
}

// Option configures a Poller.
type Option func(p *Poller)

// WithInterval overrides DefaultPollInterval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithDispatch sets how sink work is scheduled. The desktop app passes fyne.DoAndWait so
// sinks run on the UI goroutine alongside the button handlers.
func WithDispatch(d func(func())) Option {
	return func(p *Poller) {
		if d != nil {
			p.dispatch = d
		}
	}
}

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics enables poll counters.
func WithMetrics(m *Metrics) Option {
	return func(p *Poller) { p.metrics = m }
}

// NewPoller builds a Poller; sinks receive each measurement in the given order.
func NewPoller(source LineSource, sinks []Sink, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		sinks:    sinks,
		interval: DefaultPollInterval,
		dispatch: func(f func()) { f() },
		now:      time.Now,
		log:      Logger(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Tick performs one poll. It returns true when a measurement was produced and handed to the sinks.
func (p *Poller) Tick() bool {
	p.metrics.observeTick()
	line, ok := p.source.TryReadLine()
	if !ok {
		return false
	}
	m, err := sensor.Parse(line, p.now())
	if err != nil {
		p.metrics.observeMalformed()
		p.log.Debug("dropped malformed line", zap.String("line", line), zap.Error(err))
		return false
	}
	p.metrics.observeMeasurement()
	p.dispatch(func() { p.deliver(m) })
	return true
}

func (p *Poller) deliver(m sensor.Measurement) {
	for i, s := range p.sinks {
		if err := s.Record(m); err != nil {
			name := sinkName(s, i)
			p.metrics.observeSinkError(name)
			p.log.Error("sink failed", zap.String("sink", name), zap.Time("timestamp", m.Timestamp), zap.Error(err))
		}
	}
}

// Run ticks immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("poll loop started", zap.Duration("interval", p.interval), zap.Int("sinks", len(p.sinks)))
	t := time.NewTicker(p.interval)
	defer t.Stop()
	p.Tick()
	for {
		select {
		case <-ctx.Done():
			p.log.Info("poll loop stopped")
			return ctx.Err()
		case <-t.C:
			p.Tick()
		}
	}
}

// named is implemented by sinks that want a readable name in logs and metrics.
type named interface{ Name() string }

func sinkName(s Sink, i int) string {
	if n, ok := s.(named); ok {
		return n.Name()
	}
	return fmt.Sprintf("sink%d", i)
}
