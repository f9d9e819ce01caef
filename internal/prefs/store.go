/**
 * @description
 * The preferences store holds each user's locally-persisted settings: the
 * preferred payment method, language and theme choices, and the per-country
 * preferred-institution selections from the live-rates screen. It is a plain
 * key-value surface read at startup by clients and written on change.
 *
 * Two implementations exist and one is selected at startup: a Redis-backed
 * store for deployments, and an in-memory store used when Redis is not
 * configured.
 */

package prefs

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/diaremit/remit-service/internal/domain"
)

// Defaults applied when a user has never written a preference.
const (
	DefaultPaymentMethod = "mobile_wallet"
	DefaultLanguage      = "en"
	DefaultTheme         = "system"
)

// Store is the contract for preference persistence.
type Store interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (domain.Preferences, error)
	SetPreferences(ctx context.Context, userID uuid.UUID, p domain.Preferences) error
	GetInstitutionSelections(ctx context.Context, userID uuid.UUID) (map[string]string, error)
	// SetInstitutionSelection stores the preferred institution for a country;
	// an empty institutionID clears the selection for that country.
	SetInstitutionSelection(ctx context.Context, userID uuid.UUID, country, institutionID string) error
}

func withDefaults(p domain.Preferences) domain.Preferences {
	if p.PaymentMethod == "" {
		p.PaymentMethod = DefaultPaymentMethod
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	if p.Theme == "" {
		p.Theme = DefaultTheme
	}
	return p
}

// MemoryStore keeps preferences in process memory. Used when Redis is not
// configured; contents do not survive a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	prefs      map[uuid.UUID]domain.Preferences
	selections map[uuid.UUID]map[string]string
}

// NewMemoryStore creates an empty in-memory preferences store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prefs:      make(map[uuid.UUID]domain.Preferences),
		selections: make(map[uuid.UUID]map[string]string),
	}
}

func (s *MemoryStore) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return withDefaults(s.prefs[userID]), nil
}

func (s *MemoryStore) SetPreferences(ctx context.Context, userID uuid.UUID, p domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = withDefaults(p)
	return nil
}

func (s *MemoryStore) GetInstitutionSelections(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.selections[userID]))
	for country, id := range s.selections[userID] {
		out[country] = id
	}
	return out, nil
}

func (s *MemoryStore) SetInstitutionSelection(ctx context.Context, userID uuid.UUID, country, institutionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if institutionID == "" {
		delete(s.selections[userID], country)
		return nil
	}
	if s.selections[userID] == nil {
		s.selections[userID] = make(map[string]string)
	}
	s.selections[userID][country] = institutionID
	return nil
}
