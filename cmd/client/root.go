package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-quote-keeper/internal/client"
	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
)

// rootOptions holds the configuration flags shared by every command.
type rootOptions struct {
	flags *config.Flags
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "quotekeeper",
		Short: "Quote Keeper - a local quote collection synchronised with a remote endpoint",
		Long: `Quote Keeper keeps a categorised collection of quotes on disk and
reconciles it with a remote endpoint in the background.

Without a subcommand the terminal browser is started.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				return app.Run(ctx)
			})
		},
	}

	opts.flags = config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newAddCommand(opts),
		newUpdateCommand(opts),
		newRemoveCommand(opts),
		newListCommand(opts),
		newCategoriesCommand(opts),
		newRandomCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newSyncCommand(opts),
		newStatusCommand(opts),
		newRunCommand(opts),
		newTUICommand(opts),
		newVersionCommand(),
	)

	return cmd
}

// withApp builds the client application from the merged configuration,
// runs fn and closes the application, saving pending changes.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *client.App) error) (err error) {
	cfg, err := config.GetClientConfig(o.flags)
	if err != nil {
		return err
	}

	log := logger.NewClientLogger("client", logger.FileOptions{
		Path:       cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	ctx := log.WithContext(cmd.Context())
	app, err := client.NewApp(ctx, cfg, buildInfo(), log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()

	return fn(ctx, app)
}
