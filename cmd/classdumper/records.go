package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"classdumper/internal/dumper"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys for exports",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the export key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "SetupKeys", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}
		if err := a.SetupKeys(passphrase); err != nil {
			return err
		}

		enc := a.Config().Encryption
		fmt.Printf("Public key:  %s\n", enc.PublicKeyPath)
		fmt.Printf("Private key: %s\n", enc.PrivateKeyPath)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import PATH",
	Short: "Dump the headers of a binary into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Import", args)
		if err != nil {
			return err
		}
		defer a.Close()

		yes, _ := cmd.Flags().GetBool("yes")
		if a.Config().Preferences.ConfirmBeforeImport && !yes {
			ok, err := confirm(fmt.Sprintf("Import headers from %s?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Import cancelled.")
				return nil
			}
		}

		result, err := a.Import(cmdContext(cmd), args[0])
		if err != nil {
			return err
		}

		if result.Alert != nil {
			fmt.Fprintf(os.Stderr, "%s\n%s\n", result.Alert.Title, result.Alert.Message)
			if result.Failed() {
				return fmt.Errorf("import of %s failed", result.Input)
			}
			return nil
		}

		fmt.Printf("Imported %d header(s) into folder %s\n", result.Imported, result.Folder)
		return nil
	},
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List folders with their header counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Folders", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		counts, err := a.Folders()
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Println("No folders.")
			return nil
		}
		for _, c := range counts {
			fmt.Printf("%6d  %s\n", c.Count, c.Folder)
		}
		return nil
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List headers",
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		query, _ := cmd.Flags().GetString("search")
		scope, _ := cmd.Flags().GetString("scope")

		a, err := newApp(cmd, "Files", args)
		if err != nil {
			return err
		}
		defer a.Close()

		files, err := a.ListFiles(folder, query, scope)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No files found.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%6d  %s/%s\n", f.ID, f.Folder, f.Name)
		}
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid file id %q", s)
	}
	return id, nil
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print the contents of a header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "Show", args)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.ShowFile(id)
		if err != nil {
			return err
		}
		fmt.Print(f.Contents.String)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change the name, folder or contents of a header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var edit dumper.FileEdit
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			edit.Name = &v
		}
		if flags.Changed("folder") {
			v, _ := flags.GetString("folder")
			edit.Folder = &v
		}
		if flags.Changed("contents") {
			v, _ := flags.GetString("contents")
			edit.Contents = &v
		}
		if flags.Changed("contents-file") {
			path, _ := flags.GetString("contents-file")
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading contents: %w", err)
			}
			v := string(data)
			edit.Contents = &v
		}
		if edit.Name == nil && edit.Folder == nil && edit.Contents == nil {
			return fmt.Errorf("nothing to change: pass --name, --folder, --contents or --contents-file")
		}

		a, err := newApp(cmd, "Edit", args)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.EditFile(id, edit)
		if errors.Is(err, dumper.ErrRecordNotFound) {
			return fmt.Errorf("file %d no longer exists", id)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Updated %d: %s/%s\n", f.ID, f.Folder, f.Name)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm FOLDER",
	Short: "Delete every header in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "DeleteFolder", args)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.DeleteFolder(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d file(s) from %s\n", n, args[0])
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all saved headers",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := confirm("Are you sure you want to delete the saved data?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Reset cancelled.")
				return nil
			}
		}

		a, err := newApp(cmd, "Reset", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Reset(); err != nil {
			return err
		}
		fmt.Println("All saved data deleted.")
		return nil
	},
}
