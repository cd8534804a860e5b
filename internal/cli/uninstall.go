package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marytts-labs/marytts-installer/internal/component"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>...",
	Short: "Remove installed components",
	Long: `Remove components from lib/ below the install root. Unit-selection voices
also lose their data directory under lib/voices/. Downloaded files in
download/ are kept, so a removed component shows as DOWNLOADED.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	comps := make([]*component.Component, 0, len(args))
	for _, name := range args {
		c, err := session.Find(name)
		if err != nil {
			return err
		}
		comps = append(comps, c)
	}

	for _, c := range comps {
		if err := session.Uninstall(cmd.Context(), c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (now %s)\n", c.Name, c.Status)
	}
	return nil
}
