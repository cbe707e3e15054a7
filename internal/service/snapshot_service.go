package service

import (
	"errors"
	"log"
	"time"

	"github.com/triviaboard/backend/internal/cache"
	"github.com/triviaboard/backend/internal/models"

	"gorm.io/gorm"
)

// SnapshotService keeps the cached live-board view up to date. Mutating
// services call Refresh after commits; reads go through Live, which rebuilds
// from the database when the cache is cold. A nil SnapshotService (as in
// tests) disables the cache entirely.
type SnapshotService struct {
	db    *gorm.DB
	cache *cache.BoardCache
}

func NewSnapshotService(db *gorm.DB, boardCache *cache.BoardCache) *SnapshotService {
	return &SnapshotService{db: db, cache: boardCache}
}

// Refresh rebuilds and stores a game's snapshot. Cache trouble is logged,
// never surfaced: gameplay must not fail because Redis is down.
func (s *SnapshotService) Refresh(gameID uint) {
	if s == nil || s.cache == nil {
		return
	}
	snap, err := s.build(gameID)
	if err != nil {
		log.Printf("board snapshot: rebuild for game %d failed: %v", gameID, err)
		return
	}
	if err := s.cache.Store(snap); err != nil {
		log.Printf("board snapshot: store for game %d failed: %v", gameID, err)
	}
}

// Drop evicts a game's snapshot, e.g. after the game is deleted.
func (s *SnapshotService) Drop(gameID uint) {
	if s == nil || s.cache == nil {
		return
	}
	if err := s.cache.Drop(gameID); err != nil {
		log.Printf("board snapshot: drop for game %d failed: %v", gameID, err)
	}
}

// Live returns the cached snapshot, rebuilding and re-caching on a miss.
func (s *SnapshotService) Live(gameID uint) (*cache.BoardSnapshot, error) {
	if s.cache != nil {
		if snap, err := s.cache.Get(gameID); err == nil && snap != nil {
			return snap, nil
		} else if err != nil {
			log.Printf("board snapshot: read for game %d failed: %v", gameID, err)
		}
	}

	snap, err := s.build(gameID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Store(snap); err != nil {
			log.Printf("board snapshot: store for game %d failed: %v", gameID, err)
		}
	}
	return snap, nil
}

func (s *SnapshotService) build(gameID uint) (*cache.BoardSnapshot, error) {
	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("game not found")
		}
		return nil, err
	}

	var teams []models.Team
	if err := s.db.Where("game_id = ?", gameID).Order("position ASC").Find(&teams).Error; err != nil {
		return nil, err
	}

	var states []models.ClueState
	if err := s.db.Where("game_id = ?", gameID).Preload("Clue").Find(&states).Error; err != nil {
		return nil, err
	}

	snap := &cache.BoardSnapshot{
		GameID:    game.ID,
		Status:    string(game.Status),
		UpdatedAt: time.Now(),
	}
	for _, team := range teams {
		snap.Teams = append(snap.Teams, cache.SnapshotTeam{
			ID:    team.ID,
			Name:  team.Name,
			Order: team.Position,
			Score: team.Score,
		})
	}
	for _, state := range states {
		snap.Clues = append(snap.Clues, cache.SnapshotClue{
			ClueID:         state.ClueID,
			CategoryID:     state.Clue.CategoryID,
			Value:          state.Clue.Value,
			State:          string(state.State),
			PickedByTeamID: state.PickedByTeamID,
		})
	}
	return snap, nil
}
