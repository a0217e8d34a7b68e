package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"restaurant-console/cmd/bootstrap"
	"restaurant-console/internal/handler/dto/request"
	"restaurant-console/internal/handler/dto/response"
	"restaurant-console/internal/handler/middleware"
	"restaurant-console/internal/pkg/config"
	"restaurant-console/internal/pkg/errs"
	"restaurant-console/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newPurgeScanCmd() *cobra.Command {
	var restaurant, from, to string

	cmd := &cobra.Command{
		Use:   "purge-scan",
		Short: "Print terminal reservations past the retention window as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			restaurantID, err := uuid.Parse(restaurant)
			if err != nil {
				return errs.Wrap(err, "invalid --restaurant")
			}
			fromDate, err := request.ParseDate(from)
			if err != nil {
				return errs.Wrap(err, "invalid --from")
			}
			toDate, err := request.ParseDate(to)
			if err != nil {
				return errs.Wrap(err, "invalid --to")
			}

			var q queries.ReservationQueries
			app := fx.New(
				bootstrap.CoreModule,
				// stdout carries the JSON result
				fx.Decorate(func(cfg config.Config) *slog.Logger {
					return middleware.NewLoggerTo(cfg.Log, os.Stderr).GetSlogLogger()
				}),
				fx.NopLogger,
				fx.Populate(&q),
			)
			if err := app.Err(); err != nil {
				return err
			}
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() { _ = app.Stop(context.Background()) }()

			views, err := q.PurgeCandidates(cmd.Context(), restaurantID, fromDate, toDate)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(response.FromReservationViews(views))
		},
	}

	cmd.Flags().StringVar(&restaurant, "restaurant", "", "restaurant id")
	cmd.Flags().StringVar(&from, "from", "", "first reservation date to scan (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last reservation date to scan (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("restaurant")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
