package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"classdumper/internal/dumper"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the header database",
}

var dbPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the database location",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println(cfg.Database.Path)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database size and schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "DatabaseStatus", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.DatabaseStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Path:    %s\n", st.Path)
		fmt.Printf("Files:   %d\n", st.Files)
		fmt.Printf("Folders: %d\n", st.Folders)
		fmt.Printf("Schema:  version %d of %d", st.Schema.Current, st.Schema.Latest)
		if st.Schema.Dirty {
			fmt.Print(" (dirty)")
		}
		fmt.Println()
		return nil
	},
}

var dbExportCmd = &cobra.Command{
	Use:   "export [DEST]",
	Short: "Export a snapshot of the database",
	Long: "Export a snapshot of the database to DEST (a file or directory, default the current\n" +
		"directory) or, with --vault, to the configured vault.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")
		toVault, _ := cmd.Flags().GetBool("vault")

		a, err := newApp(cmd, "ExportDatabase", args)
		if err != nil {
			return err
		}
		defer a.Close()

		dest := ""
		if len(args) > 0 {
			dest = args[0]
		}

		where, err := a.ExportDatabase(dest, dumper.ExportOptions{Encrypt: encrypt, ToVault: toVault})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if toVault {
			fmt.Printf("Exported to vault as %s\n", where)
		} else {
			fmt.Printf("Exported to %s\n", where)
		}
		return nil
	},
}

var dbImportCmd = &cobra.Command{
	Use:   "import SOURCE",
	Short: "Replace the database with an exported snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromVault, _ := cmd.Flags().GetBool("vault")
		decrypt, _ := cmd.Flags().GetBool("decrypt")
		yes, _ := cmd.Flags().GetBool("yes")

		if !yes {
			ok, err := confirm("Replace the current database? Its data will be lost.")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Import cancelled.")
				return nil
			}
		}

		a, err := newApp(cmd, "ImportDatabase", args)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := dumper.ImportDatabaseOptions{FromVault: fromVault}
		if decrypt {
			passphrase, err := readPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
			dc, err := a.Unlock(passphrase)
			if err != nil {
				return fmt.Errorf("unlocking private key: %w", err)
			}
			opts.Decrypt = dc
		}

		if err := a.ImportDatabase(args[0], opts); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Println("Database imported.")
		return nil
	},
}

var dbSnapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List snapshots in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListSnapshots", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.ListSnapshots()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No snapshots.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}
