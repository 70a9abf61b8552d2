//go:build linux

package gpioled

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDriver drives an LED on actual hardware using the Linux GPIO
// character device.
type RealDriver struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealDriver requests the given line as an output, initially low.
func NewRealDriver(chipName string, pin int) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request led pin %d: %w", pin, err)
	}

	return &RealDriver{
		chip: chip,
		line: line,
	}, nil
}

// Set drives the LED line high or low.
func (d *RealDriver) Set(on bool) error {
	value := 0
	if on {
		value = 1
	}
	if err := d.line.SetValue(value); err != nil {
		return fmt.Errorf("set led pin: %w", err)
	}
	return nil
}

// Close darkens the LED and releases GPIO resources.
// Reconfigures the line to input (matching Pi boot defaults) before
// closing so the pin is in a clean state for system shutdown/reboot.
func (d *RealDriver) Close() error {
	var errs []error

	if d.line != nil {
		if err := d.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("darken led pin: %w", err))
		}
		if err := d.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure led pin: %w", err))
		}
		if err := d.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led pin: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
