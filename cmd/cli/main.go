package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/creditbook/internal/adapter/http/dto"
	"github.com/iho/creditbook/internal/infrastructure/postgres"
	"github.com/iho/creditbook/internal/usecase"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "creditbook",
		Short:         "Creditbook CLI tool",
		Long:          `A command line interface for interacting with the Creditbook API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("CREDITBOOK_URL", "http://localhost:8080"), "Base URL of the Creditbook API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("CREDITBOOK_TOKEN"), "Bearer token from the login command")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		loginCmd(opts),
		dashboardCmd(opts),
		receiptCmd(opts),
		reconcileCmd(opts),
		hashPasswordCmd(),
		migrateCmd(),
	)

	return rootCmd
}

func loginCmd(opts *options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.LoginResponse
			err := newClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/auth/login",
				dto.LoginRequest{Username: username, Password: password}, &resp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Operator username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Operator password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func dashboardCmd(opts *options) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard summary for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if start != "" {
				q.Set("start", start)
			}
			if end != "" {
				q.Set("end", end)
			}
			path := "/api/v1/dashboard"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var resp dto.DashboardResponse
			if err := newClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Period end (YYYY-MM-DD)")

	return cmd
}

func receiptCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "receipt <sale|payment> <id>",
		Short:     "Render the receipt for a sale or payment",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"sale", "payment"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReceiptResponse
			path := fmt.Sprintf("/api/v1/receipts/%s/%s", url.PathEscape(args[0]), url.PathEscape(args[1]))
			if err := newClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func reconcileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [customer-id]",
		Short: "Compare recorded balances against the ledger history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				var resp dto.ReconciliationResponse
				if err := c.do(cmd.Context(), http.MethodGet, "/api/v1/reconciliation/"+url.PathEscape(args[0]), nil, &resp); err != nil {
					return err
				}
				if err := printJSON(out, resp); err != nil {
					return err
				}
				if !resp.IsReconciled {
					return fmt.Errorf("customer %s is off by %s", resp.CustomerID, resp.Difference)
				}
				return nil
			}

			var resp dto.ReconciliationReportResponse
			if err := c.do(cmd.Context(), http.MethodGet, "/api/v1/reconciliation", nil, &resp); err != nil {
				return err
			}
			if err := printJSON(out, resp); err != nil {
				return err
			}
			if len(resp.Discrepancies) > 0 {
				return fmt.Errorf("%d of %d customers have discrepancies", len(resp.Discrepancies), resp.TotalCustomers)
			}
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for a *_PASSWORD_HASH setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := usecase.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:       "migrate <up|down|version>",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "up":
				return postgres.RunMigrations(databaseURL, path)
			case "down":
				return postgres.RunMigrationsDown(databaseURL, path)
			case "version":
				v, err := postgres.MigrationVersion(databaseURL, path)
				if err != nil {
					return err
				}
				if v.Dirty {
					fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty)\n", v.Version)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
				return nil
			default:
				return fmt.Errorf("unknown direction %q", args[0])
			}
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	cmd.Flags().StringVar(&path, "path", envOr("MIGRATIONS_PATH", "migrations"), "Migrations directory")

	return cmd
}

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(opts *options) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(opts.baseURL, "/"),
		token:   opts.token,
		http:    &http.Client{Timeout: opts.timeout},
	}
}

// do sends body as JSON and decodes a 2xx response into out. Error bodies
// are surfaced using the API's error envelope.
func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Join(errors.New("failed to parse response"), err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
