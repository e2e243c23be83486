package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/octobees/places-sync/internal/auth"
	"github.com/octobees/places-sync/internal/bootstrap"
	"github.com/octobees/places-sync/internal/config"
	"github.com/octobees/places-sync/internal/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "placesctl",
		Short:         "Operate the places ingestion pipeline",
		Long:          "Run importers, the matcher and the lifecycle sweeps against the places database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newMatchCmd())
	root.AddCommand(newReverifyCmd())
	root.AddCommand(newInactivateCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// withApp loads configuration, connects and hands the wired services to fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := cmd.Context()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if err := database.Migrate(ctx, app.Pool); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
				return nil
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	var cities []string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import places from a provider",
	}
	importCmd.PersistentFlags().StringSliceVar(&cities, "city", nil, "city to search (repeatable, defaults to SYNC_CITIES)")

	importCmd.AddCommand(&cobra.Command{
		Use:   "google",
		Short: "Import from Google Places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				summary, err := app.Sync.ImportFromGoogle(ctx, cities)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	})
	importCmd.AddCommand(&cobra.Command{
		Use:   "yelp",
		Short: "Import from Yelp Fusion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				summary, err := app.Sync.ImportFromYelp(ctx, cities)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	})
	return importCmd
}

func newMatchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match pending places against providers and merge duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				summary, err := app.Sync.MatchAndEnrichPlaces(ctx, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum places to process (defaults to MATCH_BATCH_LIMIT)")
	return cmd
}

func newReverifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reverify",
		Short: "Re-check every Google-linked place's operating status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				summary, err := app.Sync.ReverifyAllPlaces(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}

func newInactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inactivate",
		Short: "Inactivate places never matched to Google within the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				summary, err := app.Sync.InactivateUnmatchedPlaces(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write active places as CSV to file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				out := cmd.OutOrStdout()
				if len(args) == 1 {
					f, err := os.Create(args[0])
					if err != nil {
						return fmt.Errorf("create export file: %w", err)
					}
					defer f.Close()
					out = f
				}
				return app.Places.ExportActiveCSV(ctx, out)
			})
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			manager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
			token, err := manager.GenerateToken(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "operator or automation identity")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "role claim")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
