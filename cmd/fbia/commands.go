package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/app"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/config"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/export"
	"github.com/spf13/cobra"
)

var (
	dryRun    bool
	noNotify  bool
	output    string
	userToken string
	host      string
)

func init() {
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch and log insights without writing the registry or uploading")
	syncCmd.Flags().BoolVar(&noNotify, "no-notify", false, "Skip the Slack upload")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Write the CSV to this file instead of stdout")
	bootstrapCmd.Flags().StringVar(&userToken, "user-token", "", "Short-lived user token (defaults to FB_USER_TOKEN)")
	healthCmd.Flags().StringVar(&host, "host", "http://localhost:8080", "The host address of a running fbia serve")

	credentialsCmd.AddCommand(bootstrapCmd, showCmd, invalidateCmd)
	rootCmd.AddCommand(syncCmd, exportCmd, listCmd, credentialsCmd, serveCmd, healthCmd)
}

// withApp loads the configuration, builds the App and hands it to fn.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync: fetch insights, update the registry, export and upload",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			result, err := a.Sync(ctx, app.SyncOptions{DryRun: dryRun, Notify: !noNotify})
			if result != nil && result.Summary != nil {
				s := result.Summary
				fmt.Fprintf(cmd.OutOrStdout(), "run %s: seen=%d updated=%d skipped=%d failed=%d\n", s.RunID, s.Seen, s.Updated, s.Skipped, s.Failed)
				for _, f := range s.Failures {
					fmt.Fprintf(cmd.ErrOrStderr(), "  failed %s: %v\n", f.URL, f.Err)
				}
			}
			return err
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the registry as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			records, err := a.Registry.GetAll(ctx)
			if err != nil {
				return err
			}
			csv, err := export.CSV(records)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(csv)
				return err
			}
			return os.WriteFile(output, csv, 0o644)
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the registry as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			records, err := a.Registry.GetAll(ctx)
			if err != nil {
				return err
			}
			if err := export.Table(cmd.OutOrStdout(), records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d articles\n", len(records))
			return nil
		})
	},
}

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage the stored page credential",
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Exchange a user token for a page credential and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			token := userToken
			if token == "" {
				token = a.Cfg.Facebook.UserToken
			}
			cred, err := a.Creds.Bootstrap(ctx, token)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored page credential for %s\n", cred.PageID)
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored page credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			cred, err := a.Creds.Load(ctx)
			if err != nil {
				return err
			}
			if cred == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no page credential stored")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kind=%s page=%s token=%s created=%s updated=%s\n",
				cred.Kind, cred.PageID, mask(cred.Token), cred.CreatedAt.Format(time.RFC3339), cred.UpdatedAt.Format(time.RFC3339))
			return nil
		})
	},
}

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Delete the stored page credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			return a.Creds.Invalidate(ctx)
		})
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/health")
	},
}

func performGetRequest(w io.Writer, endpoint string) error {
	url := host + endpoint
	fmt.Fprintf(w, "Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Fprintf(w, "Status Code: %d\n", resp.StatusCode)
	fmt.Fprintln(w, string(body))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// mask keeps only enough of a token to tell two apart.
func mask(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
