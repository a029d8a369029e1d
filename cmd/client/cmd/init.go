// cmd/client/cmd/init.go
package cmd

import (
	"fieldsync/cmd/client/cmd/capture"
	"fieldsync/cmd/client/cmd/forms"
	"fieldsync/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(capture.CaptureCmd)
	capture.CaptureCmd.AddCommand(capture.ListCmd)

	rootCmd.AddCommand(forms.FormsCmd)
	forms.FormsCmd.AddCommand(forms.PullCmd)
	forms.FormsCmd.AddCommand(forms.ListCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(watchCmd)
}
