package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ryan-kosiba/nutriclaude/client"
	"github.com/ryan-kosiba/nutriclaude/internal/logger"
)

var (
	serviceURL string
	userID     string
	debug      bool
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "nutrictl",
		Short:        "nutrictl talks to a nutriclaude service",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = logger.Console(os.Stderr)
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&serviceURL, "api", "a", getEnv("NUTRICLAUDE_SERVICE_URL", "http://localhost:8080"), "Base URL of the nutriclaude service")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", os.Getenv("NUTRICLAUDE_USER_ID"), "User id to act as")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(
		newLogCmd(),
		newPendingCmd(),
		newConfirmCmd(),
		newRejectCmd(),
		newKPIsCmd(),
		newHistoryCmd(),
		newPRsCmd(),
		newDailyCmd(),
		newSummaryCmd(),
		newGoalsCmd(),
		newDeleteEntryCmd(),
		newHealthCmd(),
	)
	return rootCmd
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// withClient builds a client and a bounded context, then runs fn.
func withClient(cmd *cobra.Command, timeout time.Duration, fn func(ctx context.Context, c *client.Client) (interface{}, error)) error {
	c, err := client.New(serviceURL, client.WithDebug(debug))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	start := time.Now()
	out, err := fn(ctx, c)
	log.Debug().Str("command", cmd.Name()).Dur("elapsed", time.Since(start)).Msg("request finished")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func requireUser() error {
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

func newLogCmd() *cobra.Command {
	var channelRef string
	cmd := &cobra.Command{
		Use:   "log <text>",
		Short: "Send a free-text message for extraction and staging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 90*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.PostMessage(ctx, userID, args[0], channelRef)
			})
		},
	}
	cmd.Flags().StringVar(&channelRef, "channel-ref", "cli", "Opaque reference to the originating conversation")
	return cmd
}

func newPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <pending-id>",
		Short: "Show a staged entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.GetPending(ctx, userID, args[0])
			})
		},
	}
}

func newConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <pending-id>",
		Short: "Commit a staged entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.Confirm(ctx, userID, args[0])
			})
		},
	}
}

func newRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <pending-id>",
		Short: "Discard a staged entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.Reject(ctx, userID, args[0])
			})
		},
	}
}

func newKPIsCmd() *cobra.Command {
	var rng string
	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Headline averages over a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.KPIs(ctx, userID, rng)
			})
		},
	}
	cmd.Flags().StringVarP(&rng, "range", "r", "", "Window such as 7d")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var rng, typ string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged rows newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.LogHistory(ctx, userID, rng, typ)
			})
		},
	}
	cmd.Flags().StringVarP(&rng, "range", "r", "", "Window such as 30d")
	cmd.Flags().StringVarP(&typ, "type", "t", "all", "all, a kind, or weight")
	return cmd
}

func newPRsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prs",
		Short: "Heaviest set per exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.ExercisePRs(ctx, userID)
			})
		},
	}
}

func newDailyCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Everything logged on one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.Daily(ctx, userID, date)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD, defaults to today")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Narrative training summary for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 90*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.Summary(ctx, userID, date)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD, defaults to today")
	return cmd
}

func newGoalsCmd() *cobra.Command {
	goals := &cobra.Command{Use: "goals", Short: "Read or replace goals"}

	goals.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.GetGoals(ctx, userID)
			})
		},
	})

	var body string
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace goals from a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			var g client.Goals
			if err := json.Unmarshal([]byte(body), &g); err != nil {
				return fmt.Errorf("--json: %w", err)
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.PutGoals(ctx, userID, g)
			})
		},
	}
	set.Flags().StringVar(&body, "json", "", `Goals document, e.g. {"daily_calories":2200}`)
	_ = set.MarkFlagRequired("json")
	goals.AddCommand(set)
	return goals
}

func newDeleteEntryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-entry <kind> <id>",
		Short: "Delete a logged row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return withClient(cmd, 15*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				if err := c.DeleteEntry(ctx, userID, args[0], args[1]); err != nil {
					return nil, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", args[0], args[1])
				return nil, nil
			})
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, 5*time.Second, func(ctx context.Context, c *client.Client) (interface{}, error) {
				return c.Health(ctx)
			})
		},
	}
}
