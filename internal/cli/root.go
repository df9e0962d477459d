// Package cli implements the cobra-based CLI commands for wpsite.
//
// Each subcommand (new, list, info, remove, integrate-site, import-site,
// export-site, menu) is defined in its own file within this package. This
// file defines the root command that serves as the parent for all
// subcommands, loads the configuration and sets up logging.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/config"
	"github.com/mmr-tortoise/wpsite/internal/model"
	"github.com/mmr-tortoise/wpsite/internal/prompt"
	"github.com/mmr-tortoise/wpsite/internal/site"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose forces debug logging.
	verbose bool

	// configPath selects the config file; empty uses WPSITE_CONFIG or the
	// default location.
	configPath string

	// sitesDirFlag and templateDirFlag override the config file.
	sitesDirFlag    string
	templateDirFlag string

	// logLevel overrides log.level from the config file.
	logLevel string
)

// settings is the configuration in effect for the running command. It is
// set by the root command's PersistentPreRunE.
var settings = config.Default()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// Run without a subcommand, wpsite starts the interactive menu.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wpsite",
		Short: "Local WordPress site scaffolder",
		Long: `wpsite creates and manages local WordPress development sites.

Each site is a directory holding a docker-compose.yml (WordPress, MySQL
and phpMyAdmin) and a .env file. New sites get their own pair of host
ports, so any number of sites can run side by side.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.ErrOrStderr())
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVar(&configPath, "config", "", "Config file (TOML, or JSON with comments for .json/.jsonc)")
	flags.StringVar(&sitesDirFlag, "sites-dir", "", "Directory holding the sites")
	flags.StringVar(&templateDirFlag, "template-dir", "", "Template directory copied into new sites (default: built-in template)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(NewNewCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewInfoCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewIntegrateSiteCommand())
	rootCmd.AddCommand(NewImportSiteCommand())
	rootCmd.AddCommand(NewExportSiteCommand())
	rootCmd.AddCommand(NewMenuCommand())

	return rootCmd
}

// setup loads the configuration, applies the global flags on top of it and
// configures the logger.
func setup(stderr io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return model.WrapError("failed to load configuration", err)
	}

	if sitesDirFlag != "" {
		cfg.Paths.SitesDir = config.ExpandHome(sitesDirFlag)
	}
	if templateDirFlag != "" {
		cfg.Paths.TemplateDir = config.ExpandHome(templateDirFlag)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := configureLogging(stderr, cfg.Log.Level, verbose); err != nil {
		return err
	}
	if cfg.Source != "" {
		log.WithField("path", cfg.Source).Debug("Loaded config file")
	}

	settings = cfg
	return nil
}

// configureLogging sends logrus output to w at the given level. verbose
// forces debug.
func configureLogging(w io.Writer, level string, verbose bool) error {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidArgument,
			fmt.Sprintf("invalid log level %q", level), err)
	}
	if verbose {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)
	return nil
}

// newRepository returns the site repository for the current settings.
func newRepository() *site.Repository {
	return site.NewRepository(
		settings.Paths.SitesDir,
		site.TemplateFS(settings.Paths.TemplateDir),
		log.StandardLogger(),
	)
}

// prompter and prompterIn cache the prompter of the current input. A
// prompter buffers its input, so every prompt reading from the same input
// must go through the same prompter.
var (
	prompter   *prompt.Prompter
	prompterIn io.Reader
)

// newPrompter returns the prompter over the command's input and output.
func newPrompter(cmd *cobra.Command) *prompt.Prompter {
	in := cmd.InOrStdin()
	if prompter == nil || prompterIn != in {
		prompter = prompt.New(in, cmd.OutOrStdout())
		prompterIn = in
	}
	return prompter
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError values carry their own exit code. Any other error is classified
// by model.ExitCodeFor.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(os.Stderr, cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(os.Stderr, err.Error(), nil)
		os.Exit(int(model.ExitCodeFor(err)))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// stdout is reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog logs a debug message. It is shown with --verbose or
// --log-level debug.
func VerboseLog(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
