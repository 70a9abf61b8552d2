// cmd/setup.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/fibertester/internal/config"
	"github.com/ColonelBlimp/fibertester/internal/gpioled"
	"github.com/ColonelBlimp/fibertester/internal/history"
	"github.com/ColonelBlimp/fibertester/internal/morse"
	"github.com/ColonelBlimp/fibertester/internal/player"
	"github.com/ColonelBlimp/fibertester/internal/serialout"
	"github.com/ColonelBlimp/fibertester/internal/session"
	"github.com/ColonelBlimp/fibertester/internal/sidetone"
)

// loadSettings returns validated settings plus the active timing table.
func loadSettings() (*config.Settings, morse.TimingTable, error) {
	settings, err := config.Get()
	if err != nil {
		return nil, morse.TimingTable{}, err
	}
	table, err := settings.TimingTable()
	if err != nil {
		return nil, morse.TimingTable{}, err
	}
	return settings, table, nil
}

// journalRecorder adapts the SQLite store to the session's journal.
type journalRecorder struct {
	store *history.Store
}

func (j journalRecorder) Record(tx session.Transmission) error {
	_, err := j.store.Insert(context.Background(), history.Record{
		Color:         tx.Color,
		Number:        tx.Number,
		Pattern:       tx.Pattern,
		Profile:       tx.Profile,
		TotalDuration: tx.TotalDuration,
		SentAt:        tx.SentAt,
	})
	return err
}

// newJournaledSession opens the journal and builds a controller writing
// completed transmissions to it. The caller closes the returned store.
func newJournaledSession(settings *config.Settings, table morse.TimingTable) (*session.Controller, *history.Store, error) {
	store, err := history.Open(settings.JournalPath())
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := session.NewController(session.Config{
		Timing:  table,
		Profile: settings.Profile,
		Journal: journalRecorder{store: store},
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return ctrl, store, nil
}

// sinkFlags are the hardware outputs shared by send and tui.
type sinkFlags struct {
	sidetone bool
	led      bool
	serial   string
}

func (f *sinkFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.sidetone, "sidetone", false, "render an audio tone while the light is on")
	cmd.Flags().BoolVar(&f.led, "led", false, "drive the configured GPIO LED")
	cmd.Flags().StringVar(&f.serial, "serial", "", "serial port for the pulse bridge (e.g. /dev/ttyUSB0)")
}

// open builds the requested hardware indicators. The returned cleanup
// closes them in reverse order of creation.
func (f *sinkFlags) open(ctx context.Context, settings *config.Settings) ([]player.Indicator, func(), error) {
	var sinks []player.Indicator
	var closers []func()

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if f.led {
		driver, err := gpioled.NewRealDriver(settings.LEDChip, settings.LEDPin)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open led: %w", err)
		}
		sinks = append(sinks, driver)
		closers = append(closers, func() { _ = driver.Close() })
	}

	if f.serial != "" {
		sink, err := serialout.Open(f.serial, settings.SerialBaud)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		sinks = append(sinks, sink)
		closers = append(closers, func() { _ = sink.Close() })
	}

	if f.sidetone {
		cfg := sidetone.DefaultConfig()
		cfg.Frequency = settings.SidetoneFrequency
		cfg.SampleRate = uint32(settings.SidetoneSampleRate)
		tone := sidetone.New(cfg)
		if err := tone.Init(); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("init sidetone: %w", err)
		}
		closers = append(closers, func() { _ = tone.Close() })
		if err := tone.Start(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("start sidetone: %w", err)
		}
		closers = append(closers, func() { _ = tone.Stop() })
		sinks = append(sinks, tone)
	}

	return sinks, cleanup, nil
}
