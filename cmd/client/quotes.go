package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-quote-keeper/internal/client"
	"github.com/MKhiriev/go-quote-keeper/models"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "add <text>",
		Short:   "Add a quote",
		Example: `  quotekeeper add --category Life "Stay hungry, stay foolish."`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				q, err := app.Services().QuoteService.Add(ctx, args[0], category)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), q.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "quote category (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newUpdateCommand(opts *rootOptions) *cobra.Command {
	var text, category string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the text or category of a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				svc := app.Services()
				current, err := svc.Store.Get(args[0])
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("text") {
					text = current.Text
				}
				if !cmd.Flags().Changed("category") {
					category = current.Category
				}

				_, err = svc.QuoteService.Update(ctx, args[0], text, category)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "new quote text")
	cmd.Flags().StringVar(&category, "category", "", "new quote category")
	cmd.MarkFlagsOneRequired("text", "category")

	return cmd
}

func newRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a quote",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				return app.Services().QuoteService.Remove(ctx, args[0])
			})
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "filter"},
		Short:   "List quotes, optionally of one category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for q := range app.Services().QuoteService.List(ctx, category) {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", q.ID, q.Category, q.Text)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", models.CategoryAll, `category to show, "all" for every quote`)

	return cmd
}

func newCategoriesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				for _, c := range app.Services().QuoteService.Categories(ctx) {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), c); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newRandomCommand(opts *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				q, err := app.Services().QuoteService.Random(ctx, category)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n  ~ %s\n", q.Text, q.Category)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", models.CategoryAll, "category to draw from")

	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var category, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write quotes as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				var w io.Writer = cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("create export file: %w", err)
					}
					defer f.Close()
					w = f
				}
				return app.Services().QuoteService.Export(ctx, w, category)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", models.CategoryAll, "category to export")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, stdout when empty")

	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Add quotes from a JSON array, skipping duplicates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *client.App) error {
				var r io.Reader = cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("open import file: %w", err)
					}
					defer f.Close()
					r = f
				}

				res, err := app.Services().QuoteService.Import(ctx, r)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %d, duplicates %d, invalid %d\n", res.Added, res.Duplicates, res.Invalid)
				return err
			})
		},
	}
}
