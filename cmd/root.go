package cmd

import (
	"fmt"
	"os"

	"github.com/LegacyCodeHQ/modguard/cmd/aggregate"
	"github.com/LegacyCodeHQ/modguard/cmd/baseline"
	"github.com/LegacyCodeHQ/modguard/cmd/check"
	"github.com/LegacyCodeHQ/modguard/cmd/graph"
	"github.com/LegacyCodeHQ/modguard/cmd/watch"
	"github.com/LegacyCodeHQ/modguard/internal/mcplogdlog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// envFile is a persistent flag naming a dotenv file with MODGUARD_* defaults
var envFile string

const defaultEnvFile = ".modguard.env"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modguard",
	Short: "Enforce which modules may depend on which",
	Long: `Modguard checks a multi-module build's dependency graph against a
restriction policy. Each restricted module lists the modules and libraries it
may depend on; anything else is reported, unless a baseline suppresses it.

Use 'modguard --help' to see all available commands, or 'modguard <command> --help'
for detailed information about a specific command.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadEnvFile exports the variables of path that are not already set. The
// default file is optional; an explicitly requested one must exist.
func loadEnvFile(path string, explicit bool) error {
	if !explicit {
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	mcplogdlog.Debug("env file loaded", map[string]any{"path": path})
	return nil
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(check.Cmd)
	rootCmd.AddCommand(baseline.Cmd)
	rootCmd.AddCommand(aggregate.Cmd)
	rootCmd.AddCommand(graph.Cmd)
	rootCmd.AddCommand(watch.Cmd)

	// Initialize annotations for version template
	if rootCmd.Annotations == nil {
		rootCmd.Annotations = make(map[string]string)
	}
	rootCmd.Annotations["buildDate"] = buildDate
	rootCmd.Annotations["commit"] = commit

	// Update version field dynamically (in case it was set via ldflags)
	rootCmd.Version = version

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "Load MODGUARD_* defaults from this dotenv file")
}
