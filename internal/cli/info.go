package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd, sizeCmd, depsCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details of a component",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session.Find(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Name:         %s\n", c.Name)
		fmt.Fprintf(w, "Kind:         %s\n", c.Kind)
		fmt.Fprintf(w, "Organisation: %s\n", c.Organisation)
		fmt.Fprintf(w, "Revision:     %s\n", c.Revision)
		if c.HasLocale() {
			fmt.Fprintf(w, "Locale:       %s (%s)\n", c.Locale, languageName(c))
		}
		if c.IsVoice() {
			fmt.Fprintf(w, "Gender:       %s\n", c.Gender)
			fmt.Fprintf(w, "Type:         %s\n", c.Type)
		}
		fmt.Fprintf(w, "Size:         %s\n", formatSize(c.Size))
		fmt.Fprintf(w, "Status:       %s\n", c.Status)
		fmt.Fprintf(w, "Artifact:     %s\n", c.ArtifactName)
		if c.License != "" {
			fmt.Fprintf(w, "License:      %s\n", c.License)
		}
		if deps := session.Dependencies(c); len(deps) > 0 {
			fmt.Fprintf(w, "Depends on:   %s\n", strings.Join(deps, ", "))
		}
		if c.Description != "" {
			fmt.Fprintf(w, "\n%s\n", c.Description)
		}
		return nil
	},
}

var sizeCmd = &cobra.Command{
	Use:   "size <name>",
	Short: "Print the declared size of a component in bytes",
	Long:  `Print the declared size of a component in bytes. Unknown names print 0.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !session.HasName(args[0]) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no component named %q\n", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), session.SizeOf(args[0]))
		return nil
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps <name>",
	Short: "List the dependency artifacts a component names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := session.Find(args[0])
		if err != nil {
			return err
		}
		for _, d := range session.Dependencies(c) {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}
