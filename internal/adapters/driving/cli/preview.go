package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesync/internal/core/domain"
)

var previewDatabase bool

var previewCmd = &cobra.Command{
	Use:   "preview <workspace-id> <page-id>",
	Short: "Print the content of a workspace page",
	Args:  cobra.ExactArgs(2),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewDatabase, "database", false, "treat the page as a database")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if pagePreview == nil {
		return errors.New("preview service not configured")
	}
	if err := requireTenant(); err != nil {
		return err
	}

	pageType := domain.PageTypePage
	if previewDatabase {
		pageType = domain.PageTypeDatabase
	}

	content, err := pagePreview.Preview(cmd.Context(), tenantID, args[0], args[1], pageType)
	if err != nil {
		return err
	}

	cmd.Println(content)
	return nil
}
