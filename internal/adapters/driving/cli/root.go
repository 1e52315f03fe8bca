package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagesync/internal/core/ports/driving"
)

// version is set at build time via SetVersion.
var version = "dev"

// Service implementations, wired by SetServices before Execute.
var (
	lifecycle   driving.BindingLifecycle
	catalog     driving.IntegrationCatalog
	reconciler  driving.PageReconciler
	dispatcher  driving.SyncDispatcher
	pagePreview driving.PagePreview
	scheduler   driving.Scheduler
)

// tenantID is the tenant scope for tenant-bound commands.
var tenantID string

var rootCmd = &cobra.Command{
	Use:   "pagesync",
	Short: "Manage workspace bindings and page synchronisation",
	Long: `pagesync connects tenant workspaces from external providers
(currently Notion) to ingestion datasets. It lists authorized pages,
reconciles them against already-imported documents, controls binding
state and dispatches document re-sync work.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "tenant identifier")
}

// Services bundles the driving-port implementations the commands use.
type Services struct {
	Lifecycle  driving.BindingLifecycle
	Catalog    driving.IntegrationCatalog
	Reconciler driving.PageReconciler
	Dispatcher driving.SyncDispatcher
	Preview    driving.PagePreview
	Scheduler  driving.Scheduler
}

// SetServices wires service implementations into the commands.
func SetServices(s Services) {
	lifecycle = s.Lifecycle
	catalog = s.Catalog
	reconciler = s.Reconciler
	dispatcher = s.Dispatcher
	pagePreview = s.Preview
	scheduler = s.Scheduler
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// requireTenant validates that the --tenant flag was provided.
func requireTenant() error {
	if tenantID == "" {
		return errors.New("--tenant is required")
	}
	return nil
}
