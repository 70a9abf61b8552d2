// Package gpioled drives an indicator LED through the Linux GPIO
// character device. The real implementation requires Linux; the fake
// allows testing without hardware. Drivers satisfy the player's
// Indicator contract, so a transmission can light actual fiber.
package gpioled

// Driver sets the LED state.
type Driver interface {
	// Set drives the line high (on) or low (off).
	Set(on bool) error

	// Close darkens the LED and releases the GPIO line.
	Close() error
}

// Defaults matching a Raspberry Pi header LED.
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 17
)
