// cmd/replay.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/fibertester/internal/capture"
	"github.com/ColonelBlimp/fibertester/internal/config"
	"github.com/ColonelBlimp/fibertester/internal/morse"
)

// newReplayCmd creates the "fibertester replay" subcommand.
func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file>",
		Short: "Feed a recorded pulse stream to a fresh decoder",
		Long: `Reads a YAML pulse recording and replays it into a decoder timed with
the profile the recording names. Exact timing match applies: a recording
made under one profile never decodes under another.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0])
		},
	}
}

func runReplay(cmd *cobra.Command, path string) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	rec, err := capture.Read(path)
	if err != nil {
		return err
	}

	profile, ok := settings.Profiles[rec.Profile]
	if !ok {
		return fmt.Errorf("%w: recording uses %q", config.ErrUnknownProfile, rec.Profile)
	}
	dec, err := morse.NewDecoder(profile.Table())
	if err != nil {
		return err
	}

	rec.Replay(dec)

	sig := dec.LatestDecoded()
	if sig == nil {
		return fmt.Errorf("recording %s did not produce a decode", path)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Decoded: %s %s\n", sig.Color, sig.Number)
	fmt.Fprintf(out, "Pattern: %s\n", sig.RawPattern)
	fmt.Fprintf(out, "Profile: %s, recorded %s\n", rec.Profile, rec.RecordedAt.Format(time.RFC3339))
	if settings.Debug {
		for _, line := range sig.DecodingSteps {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return nil
}
