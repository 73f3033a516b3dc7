// Package selection holds the supermarket the shopper is currently pricing
// at, persisted across runs.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
)

// StorageKey names the durable copy of the selection.
const StorageKey = "guia_mercado_supermarket"

// Store holds at most one selected supermarket. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	current   *supermarkets.SupermarketDTO
	persister Persister
	logg      *logger.Logger
}

// Open loads the durable copy once. A corrupt copy is logged and ignored so
// the shopper simply starts without a selection.
func Open(ctx context.Context, persister Persister, logg *logger.Logger) (*Store, error) {
	if persister == nil {
		return nil, errors.New("selection persister required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Store{persister: persister, logg: logg}

	raw, err := persister.Load(StorageKey)
	switch {
	case errors.Is(err, ErrNoValue):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load selection: %w", err)
	}

	var saved supermarkets.SupermarketDTO
	if err := json.Unmarshal(raw, &saved); err != nil || saved.ID == uuid.Nil {
		if err == nil {
			err = errors.New("missing supermarket id")
		}
		logg.Error(logg.WithField(ctx, "key", StorageKey), "failed to parse saved supermarket", err)
		return s, nil
	}
	s.current = &saved
	return s, nil
}

// Get returns a copy of the selection, or nil.
func (s *Store) Get() *supermarkets.SupermarketDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Set replaces the selection and writes it through. nil clears both the
// selection and the durable copy. The in-memory value changes even when the
// write fails; the error reports that it will not survive a restart.
func (s *Store) Set(market *supermarkets.SupermarketDTO) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if market == nil {
		s.current = nil
		if err := s.persister.Delete(StorageKey); err != nil {
			return fmt.Errorf("remove saved selection: %w", err)
		}
		return nil
	}

	cp := *market
	cp.DistanceKm = nil
	s.current = &cp

	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := s.persister.Save(StorageKey, raw); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}
