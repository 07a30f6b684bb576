package repository

import (
	"context"
	"encoding/json"
	"sync"

	"goban/internal/domain/game"
	"goban/internal/errors"
)

// GameMapStorage keeps games in process memory. Records are stored
// serialized so callers never share slices with the store.
type GameMapStorage struct {
	mu       sync.RWMutex
	live     map[string][]byte
	archived map[string][]byte
}

func NewGameMapStorage() *GameMapStorage {
	return &GameMapStorage{
		live:     make(map[string][]byte),
		archived: make(map[string][]byte),
	}
}

func (s *GameMapStorage) SaveGame(_ context.Context, g game.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[g.ID] = data
	return nil
}

func (s *GameMapStorage) GetGame(_ context.Context, id string) (game.Game, error) {
	s.mu.RLock()
	data, ok := s.live[id]
	if !ok {
		data, ok = s.archived[id]
	}
	s.mu.RUnlock()
	if !ok {
		return game.Game{}, errors.ErrGameNotFound
	}

	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return game.Game{}, err
	}
	return g, nil
}

func (s *GameMapStorage) ArchiveGame(_ context.Context, g game.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, g.ID)
	s.archived[g.ID] = data
	return nil
}

// Archived returns the number of finished games held.
func (s *GameMapStorage) Archived() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.archived)
}
