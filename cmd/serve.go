// cmd/serve.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ColonelBlimp/fibertester/internal/httpserver"
)

// newServeCmd creates the "fibertester serve" subcommand.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the control-plane HTTP API",
		Long: `Serves the session API: color and number selection, transmission
prepare/complete, status, and journaled history. The pulse stream itself
is never served; it only exists on the configured indicators.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config http_addr)")
	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	settings, table, err := loadSettings()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = settings.HTTPAddr
	}

	ctrl, store, err := newJournaledSession(settings, table)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := httpserver.NewServer(addr, ctrl, store)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Fiber Tester Backend running on %s\n", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop()
	})
	return g.Wait()
}
