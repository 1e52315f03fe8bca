package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync <dataset-id> [document-id]",
	Short: "Dispatch document re-sync for a dataset",
	Long: `Enqueues re-sync work for the documents of a dataset. If a
document ID is provided, only that document is dispatched. Dispatch is
asynchronous: the command returns once the requests are handed off.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if dispatcher == nil {
		return errors.New("dispatcher service not configured")
	}

	datasetID := args[0]
	if len(args) == 2 {
		documentID := args[1]
		if err := dispatcher.SyncDocument(cmd.Context(), datasetID, documentID); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		cmd.Printf("Enqueued sync for document %s.\n", documentID)
		return nil
	}

	report, err := dispatcher.SyncDataset(cmd.Context(), datasetID)
	if report.Requested > 0 || err == nil {
		cmd.Printf("Enqueued %d of %d sync requests (%d failed).\n",
			report.Enqueued, report.Requested, report.Failed)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}
