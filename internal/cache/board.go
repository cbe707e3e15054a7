package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const boardTTL = 2 * time.Hour

// BoardSnapshot is the live per-game view of the board kept in Redis: clue
// states layered over the templates plus current team standings. It is a
// cache only; the database stays the source of truth.
type BoardSnapshot struct {
	GameID    uint           `json:"game_id"`
	Status    string         `json:"status"`
	Teams     []SnapshotTeam `json:"teams"`
	Clues     []SnapshotClue `json:"clues"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type SnapshotTeam struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	Score int    `json:"score"`
}

type SnapshotClue struct {
	ClueID         uint   `json:"clue_id"`
	CategoryID     uint   `json:"category_id"`
	Value          int    `json:"value"`
	State          string `json:"state"`
	PickedByTeamID *uint  `json:"picked_by_team_id,omitempty"`
}

// BoardCache stores board snapshots in Redis as JSON under board:<gameID>.
type BoardCache struct {
	redis *redis.Client
}

func NewBoardCache(client *redis.Client) *BoardCache {
	return &BoardCache{redis: client}
}

func boardKey(gameID uint) string {
	return fmt.Sprintf("board:%d", gameID)
}

// Store writes a snapshot with a 2 hour expiry.
func (c *BoardCache) Store(snap *BoardSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal board snapshot: %w", err)
	}
	if err := c.redis.Set(context.Background(), boardKey(snap.GameID), data, boardTTL).Err(); err != nil {
		return fmt.Errorf("failed to store board snapshot: %w", err)
	}
	return nil
}

// Get returns the stored snapshot, or nil when none is cached.
func (c *BoardCache) Get(gameID uint) (*BoardSnapshot, error) {
	data, err := c.redis.Get(context.Background(), boardKey(gameID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap BoardSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board snapshot: %w", err)
	}
	return &snap, nil
}

// Drop removes a game's snapshot, e.g. after the game is deleted.
func (c *BoardCache) Drop(gameID uint) error {
	return c.redis.Del(context.Background(), boardKey(gameID)).Err()
}
