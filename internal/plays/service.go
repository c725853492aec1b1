package plays

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	dbplays "github.com/augustdev/amphitheatre/internal/storage/pg/generated/plays"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound    = errors.New("play not found")
	ErrUnavailable = errors.New("play listing temporarily unavailable")
)

type Cache interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}

type Service struct {
	playsQ dbplays.Querier
	cache  Cache
	logger *slog.Logger
}

func NewService(playsQ dbplays.Querier, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		playsQ: playsQ,
		cache:  cache,
		logger: logger,
	}
}

// List returns every play, newest first. The result is never nil on success.
// Store failures are logged and reported as ErrUnavailable.
func (s *Service) List(ctx context.Context) ([]Play, error) {
	rows, err := s.playsQ.ListPlays(ctx)
	if err != nil {
		s.logger.Error("failed to list plays", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	result := make([]Play, 0, len(rows))
	for _, row := range rows {
		result = append(result, fromRow(row))
	}
	return result, nil
}

// Get returns the play with the given id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Play, error) {
	key := cacheKey(id)

	var cached Play
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("play cache read failed", "play_id", id, "error", err)
	} else if hit {
		return cached, nil
	}

	row, err := s.playsQ.GetPlay(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Play{}, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		s.logger.Error("failed to get play", "play_id", id, "error", err)
		return Play{}, fmt.Errorf("get play %d: %w", id, err)
	}

	play := fromRow(row)
	if err := s.cache.SetJSON(ctx, key, play); err != nil {
		s.logger.Warn("play cache write failed", "play_id", id, "error", err)
	}
	return play, nil
}

func cacheKey(id int64) string {
	return "play:" + strconv.FormatInt(id, 10)
}
