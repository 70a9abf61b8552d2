// cmd/profiles.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newProfilesCmd creates the "fibertester profiles" subcommand.
func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured timing profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfiles(cmd)
		},
	}
}

func runProfiles(cmd *cobra.Command) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range settings.ProfileNames() {
		marker := " "
		if name == settings.Profile {
			marker = "*"
		}
		table := settings.Profiles[name].Table()
		fmt.Fprintf(out, "%s %-10s dot %-7s dash %-7s symbol gap %-7s letter gap %-7s confirmation %-7s end gap %s\n",
			marker, name, table.Dot, table.Dash, table.SymbolGap,
			table.LetterGap, table.ConfirmationFlash, table.EndTransmissionGap)
	}
	return nil
}
