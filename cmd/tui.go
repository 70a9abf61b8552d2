// cmd/tui.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ColonelBlimp/fibertester/internal/config"
	"github.com/ColonelBlimp/fibertester/internal/morse"
	"github.com/ColonelBlimp/fibertester/internal/tui"
)

// newTuiCmd creates the "fibertester tui" subcommand.
func newTuiCmd() *cobra.Command {
	sinks := &sinkFlags{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive transmit panel",
		Long: `Full-screen panel with color selection, number entry, a live lamp
mirroring the indicator, a loopback decoder readout, and recent history.
Config file edits reload the timing profile between transmissions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTui(sinks)
		},
	}

	sinks.register(cmd)
	return cmd
}

func runTui(sinks *sinkFlags) error {
	settings, table, err := loadSettings()
	if err != nil {
		return err
	}

	ctrl, store, err := newJournaledSession(settings, table)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hardware, cleanup, err := sinks.open(ctx, settings)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(tui.Options{
		Session:    ctrl,
		Timing:     table,
		Profile:    settings.Profile,
		ConfigPath: viper.ConfigFileUsed(),
		Reload:     reloadSettings,
		Sinks:      hardware,
	})
}

// reloadSettings re-reads the config file and returns fresh timing.
func reloadSettings() (morse.TimingTable, string, error) {
	if err := config.Init(); err != nil {
		return morse.TimingTable{}, "", err
	}
	settings, table, err := loadSettings()
	if err != nil {
		return morse.TimingTable{}, "", err
	}
	return table, settings.Profile, nil
}
