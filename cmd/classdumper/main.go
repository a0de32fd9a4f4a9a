package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"classdumper/internal/app"
	"classdumper/internal/config"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file from its default location.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading config (run `classdumper config init` first): %w", err)
	}
	return cfg, defaults.ConfigPath, nil
}

// newApp reads the config and creates a ClassDumperApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Import", "ExportDatabase").
func newApp(cmd *cobra.Command, operation string, args []string) (*app.ClassDumperApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.NewClassDumperApp(cmdContext(cmd), cfg, app.Options{
		Operation:  operation,
		Parameters: strings.Join(args, " "),
		Verbose:    verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var rootCmd = &cobra.Command{
	Use:          "classdumper",
	Short:        "Browse Objective-C headers dumped from Mach-O binaries",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Mirror log output to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configVaultCmd)
	configVaultCmd.AddCommand(configVaultCheckCmd)
	rootCmd.AddCommand(configCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)
	rootCmd.AddCommand(keysCmd)

	// records
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(filesCmd)
	filesCmd.Flags().StringP("folder", "f", "", "Folder to list")
	filesCmd.Flags().StringP("search", "s", "", "Case- and diacritic-insensitive name filter")
	filesCmd.Flags().String("scope", "", `Search scope: "selected" or "all" (default from preferences)`)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().String("name", "", "New file name")
	editCmd.Flags().String("folder", "", "New folder")
	editCmd.Flags().String("contents", "", "New contents")
	editCmd.Flags().String("contents-file", "", "Read new contents from a file")
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	// db subcommands
	dbCmd.AddCommand(dbPathCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbExportCmd)
	dbExportCmd.Flags().Bool("encrypt", false, "Encrypt the export with the configured public key")
	dbExportCmd.Flags().Bool("vault", false, "Upload the export to the configured vault")
	dbCmd.AddCommand(dbImportCmd)
	dbImportCmd.Flags().Bool("vault", false, "Treat SOURCE as a snapshot name in the vault")
	dbImportCmd.Flags().Bool("decrypt", false, "Decrypt SOURCE with the private key")
	dbImportCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	dbCmd.AddCommand(dbSnapshotsCmd)
	rootCmd.AddCommand(dbCmd)

	// live
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("folder", "f", "", "Watch the files of one folder")
	watchCmd.Flags().StringP("search", "s", "", "Name filter")
	watchCmd.Flags().String("scope", "", `Search scope: "selected" or "all"`)
	watchCmd.Flags().Bool("folders", false, "Watch folder counts instead of files")
	watchCmd.Flags().Int64("file", 0, "Watch whether the file with this ID exists")
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
}
