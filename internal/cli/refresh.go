package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marytts-labs/marytts-installer/internal/component"
)

var refreshStatusesOnly bool

func init() {
	refreshCmd.Flags().BoolVar(&refreshStatusesOnly, "statuses", false, "Only re-derive statuses of the current catalog without re-reading descriptors")
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the catalog and re-derive component statuses",
	Long: `Rebuild the catalog from the bundled descriptors and download/, then
re-derive every status from lib/ and download/. With --statuses the catalog
is kept and only the statuses are re-derived.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if refreshStatusesOnly {
			session.RefreshStatuses()
		} else if err := session.Reload(cmd.Context()); err != nil {
			return err
		}
		summary := session.Summary()
		fmt.Fprintf(cmd.OutOrStdout(), "%d installed, %d downloaded, %d available in %s\n",
			summary[component.Installed], summary[component.Downloaded], summary[component.Available], session.Base())
		return nil
	},
}
