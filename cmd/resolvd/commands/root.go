// Package commands implements the CLI commands for resolvd.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/resolvd/internal/app"
	"go.trai.ch/resolvd/internal/build"
)

// CLI represents the command line interface for resolvd.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "resolvd",
		Short:         "Keeps TypeScript module resolution current as package.json files change",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			configDir, _ := cmd.Flags().GetString("config")
			return c.app.Configure(app.GlobalOptions{
				JSON:      jsonOutput,
				Verbose:   verbose,
				ConfigDir: configDir,
			})
		},
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write logs and diagnostics as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output, including task spans")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Directory to search for resolvd.yaml from")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut sets where command output such as help and version goes. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}
