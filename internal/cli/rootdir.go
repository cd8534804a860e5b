package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marytts-labs/marytts-installer/internal/config"
)

func init() {
	rootCmd.AddCommand(rootDirCmd)
}

var rootDirCmd = &cobra.Command{
	Use:   "root [path]",
	Short: "Show or change the install root",
	Long: `Without arguments, print the install root. With a path, select it as the
new install root, creating it when needed, store it in the user config and
rebuild the catalog for it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), session.Base())
			return nil
		}
		if err := session.SetBase(cmd.Context(), args[0]); err != nil {
			return err
		}
		if err := config.Set(config.KeyInstallRoot, session.Base()); err != nil {
			return fmt.Errorf("saving install root: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Install root set to %s\n", session.Base())
		return nil
	},
}
