package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the specroute CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "specroute",
		Short:         "Validate OpenAPI contracts and build typed route tables from them",
		Long:          "specroute gates OpenAPI contract documents through a validator chain, generates typed models from their component schemas, and resolves a route table the transport layer can bind.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage
	// errors that also show the command's help text.
	flagErr := func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	}
	cmd.SetFlagErrorFunc(flagErr)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	for _, sub := range []*cobra.Command{
		newValidateCmd(),
		newRoutesCmd(),
		newWatchCmd(),
		newInitCmd(),
		newVersionCmd(),
	} {
		sub.SetFlagErrorFunc(flagErr)
		cmd.AddCommand(sub)
	}

	return cmd
}
