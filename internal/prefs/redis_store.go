/**
 * @description
 * Redis-backed implementation of the preferences store. Preferences live in
 * one hash per user and institution selections in another, so reads are a
 * single HGETALL and writes a single HSET/HDEL.
 */

package prefs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/diaremit/remit-service/internal/domain"
)

const (
	fieldPaymentMethod = "payment_method"
	fieldLanguage      = "language"
	fieldTheme         = "theme"
)

// RedisStore persists preferences in Redis hashes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on the given client. The prefix namespaces
// keys, e.g. "diaremit:prefs".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "diaremit:prefs"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) prefsKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", s.prefix, userID)
}

func (s *RedisStore) selectionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:institutions", s.prefix, userID)
}

func (s *RedisStore) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.Preferences, error) {
	values, err := s.client.HGetAll(ctx, s.prefsKey(userID)).Result()
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}
	return withDefaults(domain.Preferences{
		PaymentMethod: values[fieldPaymentMethod],
		Language:      values[fieldLanguage],
		Theme:         values[fieldTheme],
	}), nil
}

func (s *RedisStore) SetPreferences(ctx context.Context, userID uuid.UUID, p domain.Preferences) error {
	p = withDefaults(p)
	err := s.client.HSet(ctx, s.prefsKey(userID),
		fieldPaymentMethod, p.PaymentMethod,
		fieldLanguage, p.Language,
		fieldTheme, p.Theme,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

func (s *RedisStore) GetInstitutionSelections(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.selectionsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read institution selections: %w", err)
	}
	return values, nil
}

func (s *RedisStore) SetInstitutionSelection(ctx context.Context, userID uuid.UUID, country, institutionID string) error {
	if institutionID == "" {
		if err := s.client.HDel(ctx, s.selectionsKey(userID), country).Err(); err != nil {
			return fmt.Errorf("failed to clear institution selection: %w", err)
		}
		return nil
	}
	if err := s.client.HSet(ctx, s.selectionsKey(userID), country, institutionID).Err(); err != nil {
		return fmt.Errorf("failed to write institution selection: %w", err)
	}
	return nil
}
