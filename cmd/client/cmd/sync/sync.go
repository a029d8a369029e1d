package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldsync/internal/app/client"
)

var syncStatus bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync queued submissions to the server",
	Long: `Runs one sync pass: every queued submission is committed to the server
under its client-generated ID. Records the server has already stored are
acknowledged and removed, transient failures stay queued for the next pass,
and rejected records are dropped with a reported reason.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value("app").(*client.App)
		if app == nil {
			return fmt.Errorf("application is not initialized")
		}

		if syncStatus {
			return showStatus(cmd.Context(), app)
		}

		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	pending, err := app.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("count queued submissions: %w", err)
	}

	if pending == 0 {
		fmt.Println("Queue is empty, nothing to sync.")
		return nil
	}

	fmt.Printf("Syncing %d queued submission(s)...\n", pending)

	summary, err := app.SyncNow(ctx)
	if err != nil {
		if errors.Is(err, client.ErrOffline) {
			color.Yellow("⚠ Server unreachable, submissions stay queued.")
			return nil
		}
		if errors.Is(err, client.ErrSyncInProgress) {
			fmt.Println("A sync pass is already running.")
			return nil
		}
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Println()
	color.Green("✓ Sync pass finished in %v", summary.Duration.Round(time.Millisecond))
	fmt.Printf("  Committed: %d\n", summary.Success)
	fmt.Printf("  Failed:    %d\n", summary.Failed)

	for i, syncErr := range summary.Errors {
		if i == 3 {
			fmt.Printf("  ... and %d more\n", len(summary.Errors)-3)
			break
		}
		color.Red("  • %s: %s", syncErr.ID, syncErr.Error)
	}

	return nil
}

func showStatus(ctx context.Context, app *client.App) error {
	pending, err := app.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("count queued submissions: %w", err)
	}

	fmt.Println("=== Sync status ===")
	fmt.Printf("Queued submissions: %d\n", pending)

	fmt.Printf("Server: ")
	if err := app.CheckConnection(ctx); err != nil {
		color.Red("unreachable (%v)", err)
	} else {
		color.Green("reachable")
	}

	if last := app.LastSync(); !last.IsZero() {
		fmt.Printf("Last pass: %s\n", last.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last pass: never")
	}

	if summary := app.LastSummary(); summary != nil {
		fmt.Printf("Last result: %d committed, %d failed in %v\n",
			summary.Success, summary.Failed, summary.Duration.Round(time.Millisecond))
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "show sync status instead of syncing")
}
