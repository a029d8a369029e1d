// cmd/client/cmd/watch.go
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fieldsync/internal/app/client"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run background sync until interrupted",
	Long: `Watch keeps the client running: queued submissions sync on a fixed
interval, and a reconnect after lost connectivity triggers an immediate
pass. Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value("app").(*client.App)
		if app == nil {
			return fmt.Errorf("application is not initialized")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println("Watching for queued submissions. Press Ctrl+C to stop.")
		app.Run(ctx)
		app.Stop()

		return nil
	},
}
