package cutoff

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// all cutoffs live in one hash: field = game, value = cutoff
const hashKey = "qb:cutoffs"

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

func (r *redisRepo) Get(ctx context.Context, game string) (int, bool, error) {
	val, err := r.rdb.HGet(ctx, hashKey, game).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "get cutoff %s", game)
	}
	return val, true, nil
}

func (r *redisRepo) Set(ctx context.Context, game string, cutoff int) error {
	if err := r.rdb.HSet(ctx, hashKey, game, cutoff).Err(); err != nil {
		return errors.Wrapf(err, "set cutoff %s", game)
	}
	return nil
}

func (r *redisRepo) All(ctx context.Context) (map[string]int, error) {
	raw, err := r.rdb.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list cutoffs")
	}
	out := make(map[string]int, len(raw))
	for g, v := range raw {
		c, err := strconv.Atoi(v)
		if err != nil {
			// skip fields written by something else
			continue
		}
		out[g] = c
	}
	return out, nil
}
