//go:build !linux

package gpioled

import "errors"

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(chipName string, pin int) (*RealDriver, error) {
	return nil, errors.New("gpioled: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (d *RealDriver) Set(on bool) error {
	return errors.New("gpioled: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}
