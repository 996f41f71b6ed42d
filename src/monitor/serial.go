package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.bug.st/serial"
	"golang.org/x/time/rate"
)

// Defaults matching the microcontroller sketch.
const (
	DefaultPort        = "COM3"
	DefaultBaudRate    = 9600
	DefaultReadTimeout = 100 * time.Millisecond
)

// maxPendingBytes bounds unterminated input; anything longer is line noise.
const maxPendingBytes = 4096

// SerialConfig describes the sensor connection.
type SerialConfig struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

// LineSource yields at most one complete line per call without blocking past its read timeout.
type LineSource interface {
	TryReadLine() (string, bool)
}

// Reader turns a byte stream with a read timeout into newline terminated lines.
// It is owned by a single goroutine.
type Reader struct {
	port    io.Reader
	closer  io.Closer
	name    string
	buf     []byte
	pending []byte
	warn    *rate.Limiter
}

// OpenSerial opens the configured port (8N1) and wraps it in a Reader.
func OpenSerial(cfg SerialConfig) (*Reader, error) {
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	mode := &serial.Mode{BaudRate: cfg.BaudRate, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}
	p, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.Port, err)
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Port, err)
	}
	Infof("[serial] opened %s @ %d baud (read timeout %s)", cfg.Port, cfg.BaudRate, cfg.ReadTimeout)
	r := NewReader(p, cfg.Port)
	r.closer = p
	return r, nil
}

// NewReader wraps r, which must return (0, nil) when its read timeout expires.
func NewReader(r io.Reader, name string) *Reader {
	return &Reader{
		port: r,
		name: name,
		buf:  make([]byte, 256),
		warn: rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
}

// TryReadLine returns the next complete, trimmed, non-empty line if one is available.
// Partial input is kept for the next call. Errors are logged, never returned.
func (r *Reader) TryReadLine() (string, bool) {
	for {
		if line, ok := r.takeLine(); ok {
			if line == "" {
				continue
			}
			return line, true
		}
		n, err := r.port.Read(r.buf)
		if n > 0 {
			r.pending = append(r.pending, r.buf[:n]...)
		}
		if err != nil {
			r.warnf("[serial %s] read: %v", r.name, err)
			return "", false
		}
		if n == 0 {
			return "", false
		}
		if len(r.pending) > maxPendingBytes && bytes.IndexByte(r.pending, '\n') < 0 {
			r.warnf("[serial %s] discarding %d bytes without newline", r.name, len(r.pending))
			r.pending = r.pending[:0]
			return "", false
		}
	}
}

// takeLine pops the first newline terminated chunk out of pending.
func (r *Reader) takeLine() (string, bool) {
	i := bytes.IndexByte(r.pending, '\n')
	if i < 0 {
		return "", false
	}
	raw := make([]byte, i)
	copy(raw, r.pending[:i])
	r.pending = append(r.pending[:0], r.pending[i+1:]...)
	if !utf8.Valid(raw) {
		r.warnf("[serial %s] decode: invalid utf-8 line %q", r.name, raw)
		return "", true
	}
	return strings.TrimSpace(string(raw)), true
}

// warnf logs at warn level at most once per limiter window, debug otherwise.
func (r *Reader) warnf(format string, args ...interface{}) {
	if r.warn.Allow() {
		Warnf(format, args...)
		return
	}
	Debugf(format, args...)
}

// Close releases the underlying port if the Reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	if err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return err
	}
	return nil
}
