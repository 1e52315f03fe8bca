package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the background re-sync scheduler",
	Long: `Runs the scheduler loop in the foreground. Due tasks (periodic
dataset re-sync) execute until interrupted.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	err := scheduler.Start(ctx)
	if errors.Is(err, ctx.Err()) {
		err = nil
	}
	if stopErr := scheduler.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}
