package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var bindingCmd = &cobra.Command{
	Use:   "binding",
	Short: "Manage workspace bindings",
}

var bindingEnableCmd = &cobra.Command{
	Use:   "enable <binding-id>",
	Short: "Re-activate a disabled binding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if lifecycle == nil {
			return errors.New("lifecycle service not configured")
		}
		if err := lifecycle.Enable(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("Binding %s enabled.\n", args[0])
		return nil
	},
}

var bindingDisableCmd = &cobra.Command{
	Use:   "disable <binding-id>",
	Short: "Switch off an enabled binding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if lifecycle == nil {
			return errors.New("lifecycle service not configured")
		}
		if err := lifecycle.Disable(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("Binding %s disabled.\n", args[0])
		return nil
	},
}

var bindingRefreshCmd = &cobra.Command{
	Use:   "refresh <binding-id>",
	Short: "Re-fetch the workspace page listing for a binding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if reconciler == nil {
			return errors.New("reconciler service not configured")
		}
		if err := reconciler.RefreshSourceInfo(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("Binding %s refreshed.\n", args[0])
		return nil
	},
}

func init() {
	bindingCmd.AddCommand(bindingEnableCmd)
	bindingCmd.AddCommand(bindingDisableCmd)
	bindingCmd.AddCommand(bindingRefreshCmd)
	rootCmd.AddCommand(bindingCmd)
}
