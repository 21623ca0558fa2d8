package cutoff

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_cutoffs (
    game       TEXT PRIMARY KEY,
    cutoff     INTEGER NOT NULL CHECK (cutoff > 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type postgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) Repo {
	return &postgresRepo{db: db}
}

// Migrate creates the cutoff table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create game_cutoffs")
	}
	return nil
}

func (p *postgresRepo) Get(ctx context.Context, game string) (int, bool, error) {
	var c int
	err := p.db.QueryRowContext(ctx, `SELECT cutoff FROM game_cutoffs WHERE game = $1`, game).Scan(&c)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "get cutoff %s", game)
	}
	return c, true, nil
}

func (p *postgresRepo) Set(ctx context.Context, game string, cutoff int) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO game_cutoffs (game, cutoff) VALUES ($1, $2)
		ON CONFLICT (game) DO UPDATE SET cutoff = EXCLUDED.cutoff, updated_at = now()`,
		game, cutoff)
	if err != nil {
		return errors.Wrapf(err, "set cutoff %s", game)
	}
	return nil
}

func (p *postgresRepo) All(ctx context.Context) (map[string]int, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT game, cutoff FROM game_cutoffs`)
	if err != nil {
		return nil, errors.Wrap(err, "list cutoffs")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var g string
		var c int
		if err := rows.Scan(&g, &c); err != nil {
			return nil, errors.Wrap(err, "scan cutoff")
		}
		out[g] = c
	}
	return out, rows.Err()
}
