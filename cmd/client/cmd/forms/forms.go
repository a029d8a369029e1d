package forms

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldsync/internal/app/client"
)

var FormsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Manage locally cached form definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listForms(cmd)
	},
}

var PullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch form definitions from the server",
	Long: `Downloads the current form definitions and stores them in the local
cache so capture keeps working without connectivity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value("app").(*client.App)
		if app == nil {
			return fmt.Errorf("application is not initialized")
		}

		stored, err := app.PullForms(cmd.Context())
		if err != nil {
			return fmt.Errorf("pull forms: %w", err)
		}

		color.Green("✓ Cached %d form definition(s)", stored)
		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached form definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listForms(cmd)
	},
}

func listForms(cmd *cobra.Command) error {
	app := cmd.Context().Value("app").(*client.App)
	if app == nil {
		return fmt.Errorf("application is not initialized")
	}

	forms, err := app.CachedForms(cmd.Context())
	if err != nil {
		return fmt.Errorf("list cached forms: %w", err)
	}

	if len(forms) == 0 {
		fmt.Println("No cached forms. Run 'fieldsync forms pull' while online.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FORM\tCACHED\tLAST USED")

	for _, f := range forms {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			f.FormID,
			f.CachedAt.Format("2006-01-02 15:04:05"),
			f.LastAccessed.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}
