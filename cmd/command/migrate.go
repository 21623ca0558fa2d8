package command

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alexandermjones/overwatch-queue-discord-bot/config"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/cutoff"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/storage"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/utils"
)

type Migrate struct{}

func (cmd Migrate) Command(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create the postgres cutoff table",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.main(ctx, config.C)
		},
	}
}

func (cmd Migrate) main(ctx context.Context, cfg config.Config) error {
	db, err := storage.NewPostgres(ctx, cfg.Database.DSN)
	if err != nil {
		return errors.Wrap(err, "migrate: connect to postgres")
	}
	defer db.Close()

	if err := cutoff.Migrate(ctx, db); err != nil {
		return errors.Wrap(err, "migrate: create tables")
	}
	utils.Log.Info("migration done")
	return nil
}
