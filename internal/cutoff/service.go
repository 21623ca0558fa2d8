package cutoff

import (
	"context"

	"github.com/pkg/errors"
)

var ErrInvalidCutoff = errors.New("cutoff must be positive")

type Service struct {
	repo     Repo
	fallback int
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// WithFallback sets the cutoff used for games with no stored value. Zero
// keeps asking the caller for one.
func (s *Service) WithFallback(n int) *Service {
	if n > 0 {
		s.fallback = n
	}
	return s
}

// Resolve returns the cutoff to use for game. A zero given value falls back
// to the stored one, then the fallback; a non-zero value that differs from
// the stored one replaces it.
func (s *Service) Resolve(ctx context.Context, game string, given int) (int, error) {
	if given < 0 {
		return 0, ErrInvalidCutoff
	}
	stored, ok, err := s.repo.Get(ctx, game)
	if err != nil {
		return 0, err
	}
	if given == 0 {
		if !ok {
			return s.fallback, nil
		}
		return stored, nil
	}
	if !ok || stored != given {
		if err := s.repo.Set(ctx, game, given); err != nil {
			return 0, err
		}
	}
	return given, nil
}

// Seed stores defaults for games that have no cutoff yet.
func (s *Service) Seed(ctx context.Context, defaults map[string]int) error {
	for game, c := range defaults {
		if c <= 0 {
			return errors.Wrapf(ErrInvalidCutoff, "default for %s", game)
		}
		_, ok, err := s.repo.Get(ctx, game)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := s.repo.Set(ctx, game, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) All(ctx context.Context) (map[string]int, error) {
	return s.repo.All(ctx)
}
