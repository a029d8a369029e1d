package capture

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldsync/internal/app/client"
)

var (
	formID      string
	payloadFile string
)

var CaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a submission into the local queue",
	Long: `Capture reads one geospatial feature payload and appends it to the
durable local queue. The payload must be a JSON object with a "geometry"
and a "properties" member.

The record is assigned a client-side ID at capture time and syncs to the
server on the next pass; no connectivity is required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value("app").(*client.App)
		if app == nil {
			return fmt.Errorf("application is not initialized")
		}

		payload, err := readPayload(args)
		if err != nil {
			return err
		}

		sub, err := app.Capture(cmd.Context(), formID, payload)
		if err != nil {
			return fmt.Errorf("capture submission: %w", err)
		}

		color.Green("✓ Submission captured")
		fmt.Printf("  ID:   %s\n", sub.ID)
		fmt.Printf("  Form: %s\n", sub.FormID)

		return nil
	},
}

// readPayload takes the feature JSON from --file, a positional argument,
// or stdin, in that order.
func readPayload(args []string) (json.RawMessage, error) {
	if payloadFile != "" {
		data, err := os.ReadFile(payloadFile)
		if err != nil {
			return nil, fmt.Errorf("read payload file: %w", err)
		}
		return data, nil
	}

	if len(args) > 0 {
		return json.RawMessage(args[0]), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read payload from stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no payload provided; use --file, an argument, or stdin")
	}
	return data, nil
}

func init() {
	CaptureCmd.Flags().StringVarP(&formID, "form", "F", "", "form the submission belongs to")
	CaptureCmd.Flags().StringVarP(&payloadFile, "file", "f", "", "file with the feature payload")
	_ = CaptureCmd.MarkFlagRequired("form")
}
