package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/registry"
)

// Output formats of the list command.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

var (
	listQuery  registry.Query
	listOutput string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available components",
	Long: `List the components of the catalog with their install status.
Every criterion narrows the list; "all" or an empty value ignores it.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listQuery.Locale, "locale", "", "Filter by locale (e.g. en_US); keeps languages and voices")
	f.StringVar(&listQuery.Type, "type", "", `Filter voices by type ("hmm", "unit selection")`)
	f.StringVar(&listQuery.Gender, "gender", "", "Filter voices by gender")
	f.StringVar(&listQuery.Status, "status", "", "Filter by status (available, downloaded, installed)")
	f.StringVar(&listQuery.Name, "name", "", "Filter by exact component name")
	f.BoolVar(&listQuery.VoiceOnly, "voices", false, "Only list voices")
	f.StringVarP(&listOutput, "output", "o", OutputTable, "Output format: table, json or yaml")
	rootCmd.AddCommand(listCmd)
}

// listEntry is the serialized form of a component.
type listEntry struct {
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	Status      string `json:"status" yaml:"status"`
	Locale      string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Gender      string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Size        int64  `json:"size" yaml:"size"`
	Revision    string `json:"revision" yaml:"revision"`
	Artifact    string `json:"artifact" yaml:"artifact"`
	License     string `json:"license,omitempty" yaml:"license,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func newListEntry(c *component.Component) listEntry {
	return listEntry{
		Name:        c.Name,
		Kind:        c.Kind.String(),
		Status:      c.Status.String(),
		Locale:      c.Locale,
		Gender:      c.Gender,
		Type:        c.Type,
		Size:        c.Size,
		Revision:    c.Revision,
		Artifact:    c.ArtifactName,
		License:     c.License,
		Description: c.Description,
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	comps := session.Components(listQuery)
	return writeComponents(cmd.OutOrStdout(), comps, listOutput)
}

func writeComponents(w io.Writer, comps []*component.Component, format string) error {
	entries := make([]listEntry, 0, len(comps))
	for _, c := range comps {
		entries = append(entries, newListEntry(c))
	}

	switch strings.ToLower(format) {
	case OutputJSON:
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling components: %w", err)
		}
		fmt.Fprintln(w, string(out))
	case OutputYAML:
		out, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling components: %w", err)
		}
		fmt.Fprint(w, string(out))
	case OutputTable, "":
		if len(comps) == 0 {
			fmt.Fprintln(w, "No components match.")
			return nil
		}
		_, err := w.Write(renderTable(comps))
		return err
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
	return nil
}

func renderTable(comps []*component.Component) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"NAME", "KIND", "LANGUAGE", "GENDER", "TYPE", "SIZE", "STATUS"})
	var total int64
	for _, c := range comps {
		t.AppendRow(table.Row{c.Name, c.Kind.String(), languageName(c), c.Gender, c.Type, formatSize(c.Size), c.Status.String()})
		total += c.Size
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d components", len(comps)), "", "", "", "", formatSize(total), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}

// languageName renders a component's locale as an English display name,
// e.g. "British English". Components without a locale render empty.
func languageName(c *component.Component) string {
	tag := c.Language()
	if tag == language.Und {
		return c.Locale
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return c.Locale
}

// formatSize renders a byte count with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
