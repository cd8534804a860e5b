package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/install"
)

var (
	installDryRun bool
	installYes    bool
)

var installCmd = &cobra.Command{
	Use:   "install <name>...",
	Short: "Install components and their dependencies",
	Long: `Install one or more components into lib/ below the install root.
The dependency closure is downloaded into download/ first, then jars are
copied and voice data archives are unpacked. Use --dry-run to only print
the plan.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Resolve and print the install plan without installing")
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	comps := make([]*component.Component, 0, len(args))
	for _, name := range args {
		c, err := session.Find(name)
		if err != nil {
			return err
		}
		comps = append(comps, c)
	}

	if installDryRun {
		for _, c := range comps {
			plan, err := session.Plan(ctx, c)
			if err != nil {
				return err
			}
			install.PrintPlan(out, plan)
			fmt.Fprintln(out)
		}
		return nil
	}

	if !installYes {
		var total int64
		for _, c := range comps {
			total += c.Size
		}
		fmt.Fprintf(out, "? Install %d component(s) (%s) into %s? (Y/n) ", len(comps), formatSize(total), session.Base())
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if scanner.Scan() {
			answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
			if answer != "" && answer != "y" && answer != "yes" {
				fmt.Fprintln(out, "Installation cancelled.")
				return nil
			}
		}
	}

	fmt.Fprintln(out, "Installing...")
	failed := 0
	for _, c := range comps {
		result, err := session.Install(ctx, c)
		if err != nil {
			fmt.Fprintf(out, "  ✗ %s (%v)\n", c.Name, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "  ✓ %s: %d installed, %d extracted\n", c.Name, len(result.Installed), len(result.Extracted))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "    ⚠️  %v\n", e)
		}
		for _, f := range result.Scaffolded {
			fmt.Fprintf(out, "    + %s\n", f)
		}
	}

	fmt.Fprintln(out)
	if failed > 0 {
		return fmt.Errorf("%d of %d components failed to install", failed, len(comps))
	}
	fmt.Fprintf(out, "✓ Installed %d component(s) into %s\n", len(comps), session.Base())
	return nil
}
