package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
	"classdumper/internal/live"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a live view each time the database changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		query, _ := cmd.Flags().GetString("search")
		scope, _ := cmd.Flags().GetString("scope")
		folders, _ := cmd.Flags().GetBool("folders")
		fileID, _ := cmd.Flags().GetInt64("file")

		a, err := newApp(cmd, "Watch", args)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signalContext(cmd)
		defer stop()

		go func() {
			for change := range live.Reloads(ctx, a.Reader()) {
				fmt.Printf("-- database reloaded (epoch %d)\n", change.Epoch)
			}
		}()

		switch {
		case folders:
			return printView(live.FolderCounts(ctx, a.Reader()), func(counts []dumper.FolderCount) {
				for _, c := range counts {
					fmt.Printf("%6d  %s\n", c.Count, c.Folder)
				}
			})
		case fileID != 0:
			return printView(live.FileExists(ctx, a.Reader(), fileID), func(p live.Presence) {
				switch {
				case p.File != nil:
					fmt.Printf("%s: %s/%s\n", p.State, p.File.Folder, p.File.Name)
				default:
					fmt.Printf("%s\n", p.State)
				}
			})
		default:
			search, err := a.Search(folder, query, scope)
			if err != nil {
				return err
			}
			return printView(live.SearchResults(ctx, a.Reader(), search), func(files []*sqlc.File) {
				for _, f := range files {
					fmt.Printf("%6d  %s/%s\n", f.ID, f.Folder, f.Name)
				}
			})
		}
	},
}

// printView prints every value of a live view until it closes.
func printView[T any](values <-chan live.Result[T], show func(T)) error {
	for res := range values {
		fmt.Printf("-- change %d\n", res.Change.Seq)
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "query failed: %v\n", res.Err)
			continue
		}
		show(res.Value)
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and live view websockets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Serve", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			a.Config().Server.Addr = addr
		}

		ctx, stop := signalContext(cmd)
		defer stop()

		fmt.Fprintf(os.Stderr, "Listening on %s\n", a.Config().Server.Addr)
		return a.Serve(ctx)
	},
}
