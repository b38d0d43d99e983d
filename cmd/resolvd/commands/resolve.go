package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/resolvd/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [files...]",
		Short: "Resolve the imports of files once and print diagnostics",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			trace, _ := cmd.Flags().GetBool("trace")
			return c.app.Resolve(cmd.Context(), args, app.ResolveOptions{Trace: trace})
		},
	}
	cmd.Flags().BoolP("trace", "t", false, "Log the resolution trace of every import")
	return cmd
}
