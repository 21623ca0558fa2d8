package command

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/alexandermjones/overwatch-queue-discord-bot/config"
	cmdpkg "github.com/alexandermjones/overwatch-queue-discord-bot/internal/command"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/cutoff"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/game/manager"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/storage"
	"github.com/alexandermjones/overwatch-queue-discord-bot/internal/utils"
)

// cutoffRepo opens the store named by storage.driver. The returned func
// releases it.
func cutoffRepo(ctx context.Context, cfg config.Config) (cutoff.Repo, func(), error) {
	switch driver := strings.ToLower(cfg.Storage.Driver); driver {
	case "", "memory":
		return cutoff.NewMemoryRepo(), func() {}, nil

	case "redis":
		rdb, err := storage.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return cutoff.NewRedisRepo(rdb), func() { _ = rdb.Close() }, nil

	case "postgres":
		db, err := storage.NewPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := cutoff.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return cutoff.NewPostgresRepo(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, errors.Errorf("unknown storage driver %q", driver)
	}
}

type services struct {
	sessions   *manager.Manager
	dispatcher *cmdpkg.Dispatcher
	close      func()
}

func newServices(ctx context.Context, cfg config.Config) (*services, error) {
	repo, closeRepo, err := cutoffRepo(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open cutoff store")
	}

	cutoffs := cutoff.NewService(repo).WithFallback(cfg.Bot.DefaultCutoff)
	if err := cutoffs.Seed(ctx, cfg.Bot.Cutoffs); err != nil {
		closeRepo()
		return nil, errors.Wrap(err, "seed cutoffs")
	}
	utils.Log.Debug("cutoff store ready", "driver", cfg.Storage.Driver, "seeded", len(cfg.Bot.Cutoffs))

	sessions := manager.NewManager()
	return &services{
		sessions:   sessions,
		dispatcher: cmdpkg.NewDispatcher(sessions, cutoffs, cfg.Bot.Prefix),
		close:      closeRepo,
	}, nil
}
