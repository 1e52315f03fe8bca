package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var integrationsCmd = &cobra.Command{
	Use:   "integrations",
	Short: "List provider integrations for a tenant",
	Long: `Lists every provider connection of the tenant. Bound entries show
the connected workspace; unbound providers show the authorization link.`,
	RunE: runIntegrations,
}

func init() {
	rootCmd.AddCommand(integrationsCmd)
}

func runIntegrations(cmd *cobra.Command, _ []string) error {
	if catalog == nil {
		return errors.New("catalog service not configured")
	}
	if err := requireTenant(); err != nil {
		return err
	}

	views, err := catalog.ListIntegrations(cmd.Context(), tenantID)
	if err != nil {
		return err
	}

	for _, view := range views {
		if !view.IsBound {
			cmd.Printf("%s\tnot connected\tauthorize at %s\n", view.Provider, view.Link)
			continue
		}
		name := ""
		if view.SourceInfo != nil {
			name = view.SourceInfo.WorkspaceName
		}
		cmd.Printf("%s\t%s\t%s\n", view.Provider, view.ID, name)
	}

	return nil
}
