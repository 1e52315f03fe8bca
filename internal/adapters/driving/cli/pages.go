package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages [dataset-id]",
	Short: "List importable workspace pages",
	Long: `Lists the pages of every workspace the tenant has authorized.
If a dataset ID is provided, pages already imported into that dataset
are marked as bound.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPages,
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}

func runPages(cmd *cobra.Command, args []string) error {
	if reconciler == nil {
		return errors.New("reconciler service not configured")
	}
	if err := requireTenant(); err != nil {
		return err
	}

	var datasetID string
	if len(args) > 0 {
		datasetID = args[0]
	}

	workspaces, err := reconciler.ListImportablePages(cmd.Context(), tenantID, datasetID)
	if err != nil {
		return err
	}

	for _, ws := range workspaces {
		cmd.Printf("workspace %s (%s)\n", ws.WorkspaceName, ws.WorkspaceID)
		for _, page := range ws.Pages {
			marker := " "
			if page.IsBound {
				marker = "*"
			}
			cmd.Printf("  %s %s\t%s\t%s\n", marker, page.PageID, page.Type, page.PageName)
		}
	}

	return nil
}
