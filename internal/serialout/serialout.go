// internal/serialout/serialout.go

// Package serialout drives an external pulse bridge over a serial line.
// Every indicator transition is written as a single-byte frame so the far
// side can mirror the optical pulse train on its own hardware. The sink
// satisfies the player's Indicator contract.
package serialout

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tarm/serial"
)

// Wire frames. The bridge firmware reads one byte per transition.
const (
	frameOn  byte = 0x01
	frameOff byte = 0x00
)

// DefaultBaud matches the stock bridge firmware.
const DefaultBaud = 9600

// ErrNotOpen is returned when Set is called before Open or after Close.
var ErrNotOpen = errors.New("serialout: port not open")

// Port is the serial surface the sink needs. *serial.Port satisfies it;
// tests substitute an in-memory fake.
type Port interface {
	io.WriteCloser
}

// Sink writes one-byte on/off frames to a serial port.
type Sink struct {
	mu   sync.Mutex
	port Port
}

// Open opens the named serial port at the given baud rate and returns a
// sink writing to it. A non-positive baud falls back to DefaultBaud.
func Open(name string, baud int) (*Sink, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return &Sink{port: p}, nil
}

// NewSink wraps an already-open port.
func NewSink(port Port) *Sink {
	return &Sink{port: port}
}

// Set writes a single on or off frame.
func (s *Sink) Set(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return ErrNotOpen
	}
	frame := frameOff
	if on {
		frame = frameOn
	}
	if _, err := s.port.Write([]byte{frame}); err != nil {
		return fmt.Errorf("write serial frame: %w", err)
	}
	return nil
}

// Close leaves the bridge dark and closes the port. Closing an already
// closed sink is a no-op.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return nil
	}
	_, _ = s.port.Write([]byte{frameOff})
	err := s.port.Close()
	s.port = nil
	if err != nil {
		return fmt.Errorf("close serial port: %w", err)
	}
	return nil
}
