package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fieldsync/internal/app/client"
	"fieldsync/internal/domain/submission"
)

var listFormat string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued submissions",
	Long:  `Shows the submissions waiting in the local queue for their commit to the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value("app").(*client.App)
		if app == nil {
			return fmt.Errorf("application is not initialized")
		}

		pending, err := app.PendingSubmissions(cmd.Context())
		if err != nil {
			return fmt.Errorf("list queued submissions: %w", err)
		}

		if len(pending) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}

		switch listFormat {
		case "json":
			return printJSON(pending)
		default:
			return printTable(pending)
		}
	},
}

func printJSON(pending []submission.Pending) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(pending)
}

func printTable(pending []submission.Pending) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFORM\tCAPTURED\tSIZE")

	for _, sub := range pending {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d B\n",
			sub.ID,
			sub.FormID,
			sub.CreatedAtLocal.Format("2006-01-02 15:04:05"),
			len(sub.Payload),
		)
	}

	return w.Flush()
}

func init() {
	ListCmd.Flags().StringVar(&listFormat, "format", "table", "output format: table, json")
}
