package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/resolvd/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [files...]",
		Short: "Keep diagnostics of files current while package.json and source files change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, _ := cmd.Flags().GetBool("trace")
			return c.app.Watch(cmd.Context(), args, app.WatchOptions{Trace: trace})
		},
	}
	cmd.Flags().BoolP("trace", "t", false, "Log the resolution trace of every import")
	return cmd
}
