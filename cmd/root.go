// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/ColonelBlimp/fibertester/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "fibertester",
	Short: "Fiber optic cable tester with Morse-coded light signaling",
	Long: `Encodes a (color, number) selection as timed light pulses, plays them
on one or more indicators (console, GPIO LED, serial bridge, audio
sidetone), and decodes received pulse streams by exact timing match.`,
}

// configFile is the --config override; empty uses the search path.
var configFile string

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default searches . and ~/.config/fibertester)")
	rootCmd.PersistentFlags().StringP("profile", "p", "standard", "timing profile to transmit with")
	rootCmd.PersistentFlags().String("db", "", "journal database path (default next to the config file)")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")

	// Bind flags to viper
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(
		newSendCmd(),
		newReplayCmd(),
		newServeCmd(),
		newTuiCmd(),
		newHistoryCmd(),
		newProfilesCmd(),
	)
}

func initConfig() {
	if err := config.InitWithFile(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}
