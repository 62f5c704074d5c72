package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/maltedev/coupon-finder/internal/app"
	"github.com/maltedev/coupon-finder/internal/config"
	"github.com/maltedev/coupon-finder/internal/models"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var region string

	root := &cobra.Command{
		Use:           "couponctl",
		Short:         "Find and test crocs discount codes from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&region, "region", "r", string(models.DefaultRegion), "storefront region (us or eu)")

	root.AddCommand(newSearchCmd(&region), newTestCmd(&region))
	return root
}

func newSearchCmd(region *string) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Scrape coupon sites for candidate codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := models.ParseRegion(*region)
			if err != nil {
				return fmt.Errorf("%w: %q", err, *region)
			}
			return withApp(cmd, func(a *app.App) error {
				coupons := a.Aggregator.Search(cmd.Context(), r)
				return printJSON(cmd, map[string][]models.Coupon{"codes": coupons})
			})
		},
	}
}

func newTestCmd(region *string) *cobra.Command {
	return &cobra.Command{
		Use:   "test CODE",
		Short: "Apply a code to a live cart and report the storefront's answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := models.ParseRegion(*region)
			if err != nil {
				return fmt.Errorf("%w: %q", err, *region)
			}
			return withApp(cmd, func(a *app.App) error {
				outcome, err := a.Validator.Validate(cmd.Context(), args[0], r)
				if err != nil {
					return err
				}
				return printJSON(cmd, outcome)
			})
		},
	}
}

func withApp(cmd *cobra.Command, fn func(*app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
