package cache

import (
	"context"
	"errors"
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

// SavedCardKey is the single key holding the saved card. There is no
// multi-card support; the last write wins.
const SavedCardKey = "ni:saved-card"

var ErrStorage = errors.New("saved card storage failure")

// SavedCardStore is best effort: failures are logged and reported as false
// or nil, never returned to the payment flow.
type SavedCardStore struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewSavedCardStore(client *redis.Client, logger zerolog.Logger) *SavedCardStore {
	return &SavedCardStore{client: client, logger: logger}
}

func (s *SavedCardStore) Save(ctx context.Context, record models.SavedCardRecord) bool {
	if record.CardToken == "" {
		s.logger.Warn().Err(fmt.Errorf("%w: record has no card token", ErrStorage)).Msg("saved card not stored")
		return false
	}
	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Warn().Err(fmt.Errorf("%w: marshal: %w", ErrStorage, err)).Msg("saved card not stored")
		return false
	}
	if err := s.client.Set(ctx, SavedCardKey, data, 0).Err(); err != nil {
		s.logger.Warn().Err(fmt.Errorf("%w: set: %w", ErrStorage, err)).Msg("saved card not stored")
		return false
	}
	s.logger.Info().Str("masked_pan", record.MaskedPan).Msg("saved card stored")
	return true
}

func (s *SavedCardStore) Load(ctx context.Context) *models.SavedCardRecord {
	data, err := s.client.Get(ctx, SavedCardKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(fmt.Errorf("%w: get: %w", ErrStorage, err)).Msg("saved card unavailable")
		}
		return nil
	}

	var record models.SavedCardRecord
	if err := json.Unmarshal(data, &record); err != nil || record.CardToken == "" {
		s.logger.Warn().Err(fmt.Errorf("%w: corrupt record: %v", ErrStorage, err)).Msg("ignoring stored card")
		return nil
	}
	return &record
}

func (s *SavedCardStore) Clear(ctx context.Context) {
	if err := s.client.Del(ctx, SavedCardKey).Err(); err != nil {
		s.logger.Warn().Err(fmt.Errorf("%w: del: %w", ErrStorage, err)).Msg("saved card not cleared")
		return
	}
	s.logger.Info().Msg("saved card cleared")
}
