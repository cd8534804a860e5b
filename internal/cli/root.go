package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/marytts-labs/marytts-installer/internal/branding"
	"github.com/marytts-labs/marytts-installer/internal/config"
	"github.com/marytts-labs/marytts-installer/internal/descriptor"
	"github.com/marytts-labs/marytts-installer/internal/descriptor/bundled"
	"github.com/marytts-labs/marytts-installer/internal/installer"
	"github.com/marytts-labs/marytts-installer/internal/layout"
	"github.com/marytts-labs/marytts-installer/internal/logging"
	"github.com/marytts-labs/marytts-installer/internal/registry"
	"github.com/marytts-labs/marytts-installer/internal/resolver"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// rootFlag is the --root persistent flag.
var rootFlag string

// session is the installer opened by the root command for the running
// subcommand.
var session *installer.Installer

// noSession marks commands that work without an install root.
const noSession = "no-session"

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` lists, installs and removes MaryTTS components: the runtime,
language packs and voices. Components are resolved with their dependencies
from an Ivy-layout repository into the download cache and installed into lib/.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "install root (default: $"+branding.EnvVar("BASE")+", config "+config.KeyInstallRoot+", or the executable's directory)")
	logging.RegisterFlags(rootCmd.PersistentFlags())
}

// setup installs the context logger, loads the user config and opens the
// installer session.
func setup(cmd *cobra.Command, _ []string) error {
	logger, err := logging.NewLogger(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.Attach(ctx, logger)
	cmd.SetContext(ctx)

	config.Load()

	if skipSession(cmd) {
		return nil
	}

	base, err := layout.DefaultBase(rootFlag, config.InstallRoot())
	if err != nil {
		return err
	}
	root, err := layout.Select(base)
	if err != nil {
		return err
	}

	var repo resolver.Repository
	if loc := config.Repository(); loc != "" {
		repo, err = resolver.NewRepository(loc, http.DefaultClient)
		if err != nil {
			return fmt.Errorf("opening component repository: %w", err)
		}
	} else {
		slogcontext.Warn(ctx, "No component repository configured", "key", config.KeyRepository)
	}

	src := registry.Sources{List: bundled.Source(), Parser: descriptor.XMLParser{}}
	session, err = installer.New(ctx, root, src, repo, resolver.WithProgress(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	slogcontext.Debug(ctx, "Session opened", "root", root.Base(), "repository", config.Repository())
	return nil
}

func skipSession(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noSession] == "true" {
			return true
		}
	}
	return false
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}
