package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-quote-keeper/internal/client"
)

func newSyncCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle against the remote endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				report, err := app.Services().SyncService.RunOnce(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "fetched %d, skipped %d, inserted %d, replaced %d, unchanged %d, kept local %d, suppressed %d, uploaded %d\n",
					report.Fetched, report.Skipped, report.Inserted, report.Replaced,
					report.Unchanged, report.KeptLocal, report.Suppressed, report.Uploaded)
				for _, w := range report.Warnings {
					fmt.Fprintln(out, "warning:", w)
				}
				if report.UploadError != "" {
					fmt.Fprintln(out, "upload failed:", report.UploadError)
				}
				if report.PersistError != "" {
					fmt.Fprintln(out, "save failed:", report.PersistError)
				}
				return nil
			})
		},
	}
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the sync status as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(_ context.Context, app *client.App) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(app.Services().SyncService.Status())
			})
		},
	}
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Sync in the background until interrupted",
		Long: `Run the sync scheduler without the terminal UI. A cycle runs
immediately and then on every interval. When --metrics-address is set,
Prometheus metrics are served on it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				return app.RunBackground(ctx)
			})
		},
	}
}

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal quote browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				return app.Run(ctx)
			})
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := buildInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", info.BuildVersion())
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate())
			fmt.Fprintf(out, "Build commit: %s\n", info.BuildCommit())
			return nil
		},
	}
}
