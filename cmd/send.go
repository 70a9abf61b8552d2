// cmd/send.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/fibertester/internal/capture"
	"github.com/ColonelBlimp/fibertester/internal/morse"
	"github.com/ColonelBlimp/fibertester/internal/player"
)

type sendOptions struct {
	loopback bool
	record   string
	quiet    bool
	sinks    *sinkFlags
}

// newSendCmd creates the "fibertester send" subcommand.
func newSendCmd() *cobra.Command {
	opts := sendOptions{sinks: &sinkFlags{}}

	cmd := &cobra.Command{
		Use:   "send <color> <number>",
		Short: "Encode a color and number and play them as light pulses",
		Long: `Encodes the selection with the active timing profile and plays the
pulse sequence on the console light plus any requested hardware sinks.
The completed transmission is written to the journal.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.loopback, "loopback", false, "decode the played pulses in-process and print the result")
	cmd.Flags().StringVar(&opts.record, "record", "", "write the pulse sequence to a YAML recording")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "suppress the console light display")
	opts.sinks.register(cmd)
	return cmd
}

func runSend(cmd *cobra.Command, color, number string, opts sendOptions) error {
	settings, table, err := loadSettings()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	ctrl, store, err := newJournaledSession(settings, table)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := ctrl.SetColor(color); err != nil {
		return err
	}
	if _, err := ctrl.SetNumber(number); err != nil {
		return err
	}
	prep, err := ctrl.Prepare()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, prep.Message)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	hardware, cleanup, err := opts.sinks.open(ctx, settings)
	if err != nil {
		return err
	}
	defer cleanup()

	indicators := make([]player.Indicator, 0, len(hardware)+1)
	if !opts.quiet {
		indicators = append(indicators, player.NewConsoleIndicator(out))
	}
	indicators = append(indicators, hardware...)

	var indicator player.Indicator = player.NopIndicator{}
	switch len(indicators) {
	case 0:
	case 1:
		indicator = indicators[0]
	default:
		indicator = player.NewMultiIndicator(indicators...)
	}

	p, err := player.NewPlayer(indicator)
	if err != nil {
		return err
	}

	var dec *morse.Decoder
	if opts.loopback {
		dec, err = morse.NewDecoder(table)
		if err != nil {
			return err
		}
		p.AddObserver(player.NewLoopback(dec))
	}
	if settings.Debug {
		p.AddObserver(player.NewStepPrinter(cmd.ErrOrStderr()))
	}

	if err := p.Play(ctx, prep.Steps); err != nil {
		ctrl.Clear()
		return fmt.Errorf("transmission interrupted: %w", err)
	}
	if !opts.quiet {
		fmt.Fprintln(out)
	}

	done, err := ctrl.Complete()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, done.Message)

	if opts.record != "" {
		rec := capture.FromSteps(settings.Profile, prep.Steps)
		if err := capture.Write(opts.record, rec); err != nil {
			return err
		}
		fmt.Fprintf(out, "Recording written to %s\n", opts.record)
	}

	if dec != nil {
		sig := dec.LatestDecoded()
		if sig == nil {
			return errors.New("loopback produced no decode")
		}
		fmt.Fprintf(out, "Loopback decoded: %s %s (%s)\n", sig.Color, sig.Number, sig.RawPattern)
		if settings.Debug {
			for _, line := range sig.DecodingSteps {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", line)
			}
		}
	}

	return nil
}
