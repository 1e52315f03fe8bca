// pagesync links tenant workspaces from external content providers to
// ingestion datasets: it tracks authorization bindings, reconciles
// workspace pages against imported documents and dispatches document
// re-sync work.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/pagesync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagesync/internal/adapters/driven/notion"
	"github.com/custodia-labs/pagesync/internal/adapters/driven/runner"
	"github.com/custodia-labs/pagesync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pagesync/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/services"
	"github.com/custodia-labs/pagesync/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := file.NewConfigStore(os.Getenv("PAGESYNC_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.SetVerbose(config.GetBool("log.verbose"))

	store, err := sqlite.NewStore(config.GetString("data.dir"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	bindings := store.BindingStore()
	datasets := store.DatasetStore()
	pages := notion.NewClient()
	taskRunner := runner.NewMemoryRunner(config.GetInt("runner.capacity"))

	dispatcher := services.NewDispatcherService(datasets, taskRunner)

	schedulerConfig := domain.DefaultSchedulerConfig()
	if v, ok := config.Get("scheduler.enabled"); ok {
		if enabled, ok := v.(bool); ok {
			schedulerConfig.Enabled = enabled
		}
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Lifecycle:  services.NewLifecycleService(bindings),
		Catalog:    services.NewCatalogService(bindings, config.GetString("oauth.link_base")),
		Reconciler: services.NewReconcilerService(bindings, datasets, pages),
		Dispatcher: dispatcher,
		Preview:    services.NewPreviewService(bindings, pages),
		Scheduler:  services.NewScheduler(schedulerConfig, store.SchedulerStore(), datasets, dispatcher),
	})

	return cli.Execute()
}
