// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/viper"

	"github.com/ColonelBlimp/fibertester/internal/morse"
)

const (
	AppName       = "fibertester"
	ConfigType    = "yaml"
	DefaultConfig = `# Fiber Tester Configuration

# Active timing profile (must name an entry under profiles)
profile: "standard"

# Timing profiles, all durations in milliseconds.
# Encoder and decoder must use the same profile or nothing ever decodes.
profiles:
  standard:
    dot_ms: 200
    dash_ms: 600
    symbol_gap_ms: 200
    letter_gap_ms: 600
    confirmation_flash_ms: 1000
    end_transmission_gap_ms: 1400
  fast:
    dot_ms: 100
    dash_ms: 300
    symbol_gap_ms: 100
    letter_gap_ms: 300
    confirmation_flash_ms: 500
    end_transmission_gap_ms: 700
  training:
    dot_ms: 300
    dash_ms: 900
    symbol_gap_ms: 300
    letter_gap_ms: 900
    confirmation_flash_ms: 1500
    end_transmission_gap_ms: 2100

# Sidetone output
sidetone_frequency: 600      # Tone frequency in Hz
sidetone_sample_rate: 48000  # Playback sample rate in Hz

# Hardware outputs
serial_baud: 9600            # Baud rate for --serial pulse output
led_chip: "gpiochip0"        # GPIO character device for --led
led_pin: 17                  # GPIO line driving the LED

# Control-plane HTTP API
http_addr: ":8000"           # Listen address for the serve command

# Transmission journal
db_path: ""                  # SQLite journal path (empty = default location)

# Output
debug: false                 # Enable debug output
`
)

var (
	// ErrUnknownProfile indicates the active profile names no configured table
	ErrUnknownProfile = errors.New("unknown timing profile")
)

// TimingProfile is one named timing table in config units (milliseconds).
type TimingProfile struct {
	DotMS                int `mapstructure:"dot_ms"`
	DashMS               int `mapstructure:"dash_ms"`
	SymbolGapMS          int `mapstructure:"symbol_gap_ms"`
	LetterGapMS          int `mapstructure:"letter_gap_ms"`
	ConfirmationFlashMS  int `mapstructure:"confirmation_flash_ms"`
	EndTransmissionGapMS int `mapstructure:"end_transmission_gap_ms"`
}

// Table converts the profile's millisecond values to a timing table.
func (p TimingProfile) Table() morse.TimingTable {
	return morse.TimingTable{
		Dot:                time.Duration(p.DotMS) * time.Millisecond,
		Dash:               time.Duration(p.DashMS) * time.Millisecond,
		SymbolGap:          time.Duration(p.SymbolGapMS) * time.Millisecond,
		LetterGap:          time.Duration(p.LetterGapMS) * time.Millisecond,
		ConfirmationFlash:  time.Duration(p.ConfirmationFlashMS) * time.Millisecond,
		EndTransmissionGap: time.Duration(p.EndTransmissionGapMS) * time.Millisecond,
	}
}

// Settings holds all application configuration
type Settings struct {
	// Timing
	Profile  string                   `mapstructure:"profile"`
	Profiles map[string]TimingProfile `mapstructure:"profiles"`

	// Sidetone output
	SidetoneFrequency  float64 `mapstructure:"sidetone_frequency"`
	SidetoneSampleRate int     `mapstructure:"sidetone_sample_rate"`

	// Hardware outputs
	SerialBaud int    `mapstructure:"serial_baud"`
	LEDChip    string `mapstructure:"led_chip"`
	LEDPin     int    `mapstructure:"led_pin"`

	// Control-plane HTTP API
	HTTPAddr string `mapstructure:"http_addr"`

	// Transmission journal
	DBPath string `mapstructure:"db_path"`

	// Output
	Debug bool `mapstructure:"debug"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/fibertester/
func Init() error {
	// Set defaults
	viper.SetDefault("profile", "standard")
	viper.SetDefault("profiles.standard.dot_ms", 200)
	viper.SetDefault("profiles.standard.dash_ms", 600)
	viper.SetDefault("profiles.standard.symbol_gap_ms", 200)
	viper.SetDefault("profiles.standard.letter_gap_ms", 600)
	viper.SetDefault("profiles.standard.confirmation_flash_ms", 1000)
	viper.SetDefault("profiles.standard.end_transmission_gap_ms", 1400)
	viper.SetDefault("profiles.fast.dot_ms", 100)
	viper.SetDefault("profiles.fast.dash_ms", 300)
	viper.SetDefault("profiles.fast.symbol_gap_ms", 100)
	viper.SetDefault("profiles.fast.letter_gap_ms", 300)
	viper.SetDefault("profiles.fast.confirmation_flash_ms", 500)
	viper.SetDefault("profiles.fast.end_transmission_gap_ms", 700)
	viper.SetDefault("profiles.training.dot_ms", 300)
	viper.SetDefault("profiles.training.dash_ms", 900)
	viper.SetDefault("profiles.training.symbol_gap_ms", 300)
	viper.SetDefault("profiles.training.letter_gap_ms", 900)
	viper.SetDefault("profiles.training.confirmation_flash_ms", 1500)
	viper.SetDefault("profiles.training.end_transmission_gap_ms", 2100)
	viper.SetDefault("sidetone_frequency", 600)
	viper.SetDefault("sidetone_sample_rate", 48000)
	viper.SetDefault("serial_baud", 9600)
	viper.SetDefault("led_chip", "gpiochip0")
	viper.SetDefault("led_pin", 17)
	viper.SetDefault("http_addr", ":8000")
	viper.SetDefault("db_path", "")
	viper.SetDefault("debug", false)

	// Support both config.yaml and .config.yaml
	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		// Try config.yaml as fallback
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// Read config file - if not found, create default in XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config found - create default in ~/.config/fibertester/
			xdgConfigPath := filepath.Join(configDir, AppName)
			if err = ensureConfigExists(xdgConfigPath); err != nil {
				return err
			}
			// Read the newly created config
			if err = viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

// InitWithFile initializes like Init but reads the named config file
// instead of searching. An empty path behaves exactly like Init.
func InitWithFile(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	}
	return Init()
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	// Timing profiles
	if len(s.Profiles) == 0 {
		errs = append(errs, errors.New("at least one timing profile must be configured"))
	}
	if _, ok := s.Profiles[s.Profile]; !ok {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownProfile, s.Profile))
	}
	for _, name := range s.ProfileNames() {
		if err := s.Profiles[name].Table().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profile %q: %w", name, err))
		}
	}

	// Sidetone output
	if s.SidetoneFrequency < 100 || s.SidetoneFrequency > 3000 {
		errs = append(errs, fmt.Errorf("sidetone_frequency must be between 100 and 3000 Hz, got %v", s.SidetoneFrequency))
	}
	if s.SidetoneSampleRate < 8000 || s.SidetoneSampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sidetone_sample_rate must be between 8000 and 192000 Hz, got %d", s.SidetoneSampleRate))
	}
	// Nyquist check: tone frequency must be less than half the sample rate
	if s.SidetoneFrequency >= float64(s.SidetoneSampleRate)/2 {
		errs = append(errs, fmt.Errorf("sidetone_frequency (%v Hz) must be less than Nyquist frequency (%v Hz)", s.SidetoneFrequency, float64(s.SidetoneSampleRate)/2))
	}

	// Hardware outputs
	validBauds := map[int]bool{
		1200:   true,
		2400:   true,
		4800:   true,
		9600:   true,
		19200:  true,
		38400:  true,
		57600:  true,
		115200: true,
	}
	if !validBauds[s.SerialBaud] {
		errs = append(errs, fmt.Errorf("serial_baud must be one of 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, got %d", s.SerialBaud))
	}
	if s.LEDChip == "" {
		errs = append(errs, errors.New("led_chip must not be empty"))
	}
	if s.LEDPin < 0 {
		errs = append(errs, fmt.Errorf("led_pin must not be negative, got %d", s.LEDPin))
	}

	// Control-plane HTTP API
	if s.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr must not be empty"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TimingTable returns the active profile's timing table.
func (s *Settings) TimingTable() (morse.TimingTable, error) {
	p, ok := s.Profiles[s.Profile]
	if !ok {
		return morse.TimingTable{}, fmt.Errorf("%w: %q", ErrUnknownProfile, s.Profile)
	}
	return p.Table(), nil
}

// ProfileNames returns the configured profile names, sorted.
func (s *Settings) ProfileNames() []string {
	names := make([]string, 0, len(s.Profiles))
	for name := range s.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JournalPath resolves the SQLite journal location: the configured db_path
// when set, otherwise a journal.db next to the default config file.
func (s *Settings) JournalPath() string {
	if s.DBPath != "" {
		return s.DBPath
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, AppName, "journal.db")
}
