package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/triviaboard/backend/internal/models"

	"gorm.io/gorm"
)

// GameService owns the game lifecycle: creation, settings, and the
// LOBBY -> IN_PROGRESS -> FINISHED transitions.
type GameService struct {
	db        *gorm.DB
	snapshots *SnapshotService
}

func NewGameService(db *gorm.DB, snapshots *SnapshotService) *GameService {
	return &GameService{db: db, snapshots: snapshots}
}

type CreateGameRequest struct {
	Title     string `json:"title" binding:"required"`
	TeamLimit *int   `json:"team_limit" binding:"omitempty,min=1"`
}

type UpdateGameRequest struct {
	Title     *string `json:"title"`
	TeamLimit *int    `json:"team_limit"`
}

// Create makes a new game owned by hostID, starting in the lobby phase.
func (s *GameService) Create(hostID uint, req *CreateGameRequest) (*models.Game, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalid("game title must not be blank")
	}

	limit := models.DefaultTeamLimit
	if req.TeamLimit != nil {
		if *req.TeamLimit < 1 {
			return nil, ErrInvalid("team limit must be at least 1")
		}
		limit = *req.TeamLimit
	}

	game := models.Game{
		Title:     strings.TrimSpace(req.Title),
		HostID:    hostID,
		TeamLimit: limit,
		Status:    models.StatusLobby,
	}

	// The join code is the only unique column on games, so a duplicate-key
	// error here can only be a code collision; draw a fresh one and retry.
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, err
		}
		game.JoinCode = code

		err = s.db.Create(&game).Error
		if err == nil {
			return s.GetByID(game.ID)
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not allocate a unique join code after %d attempts", joinCodeAttempts)
}

// GetByID loads a game with its standard relation set: teams in display
// order with their members, and the full board.
func (s *GameService) GetByID(gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.
		Preload("Teams", func(db *gorm.DB) *gorm.DB {
			return db.Order("teams.position ASC")
		}).
		Preload("Teams.Members").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("rounds.position ASC")
		}).
		Preload("Rounds.Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.position ASC")
		}).
		Preload("Rounds.Categories.Clues", func(db *gorm.DB) *gorm.DB {
			return db.Order("clues.value ASC")
		}).
		First(&game, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound("game not found")
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// ListForHost returns the host's games, newest first. The query is returned
// unexecuted so the handler can paginate it.
func (s *GameService) ListForHost(hostID uint) *gorm.DB {
	return s.db.Model(&models.Game{}).
		Where("host_id = ?", hostID).
		Order("created_at DESC")
}

// UpdateSettings changes title and/or team limit. Host only, lobby only.
func (s *GameService) UpdateSettings(gameID, actorID uint, req *UpdateGameRequest) (*models.Game, error) {
	game, err := s.loadGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.HostID != actorID {
		return nil, ErrForbidden("only the host can update the game")
	}
	if game.Status != models.StatusLobby {
		return nil, ErrConflict("game settings can only be changed in the lobby")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrInvalid("game title must not be blank")
		}
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.TeamLimit != nil {
		if *req.TeamLimit < 1 {
			return nil, ErrInvalid("team limit must be at least 1")
		}
		updates["team_limit"] = *req.TeamLimit
	}

	if len(updates) > 0 {
		if err := s.db.Model(game).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(gameID)
}

// Start moves a lobby game to IN_PROGRESS. At least one team must exist.
func (s *GameService) Start(gameID, actorID uint) (*models.Game, error) {
	game, err := s.loadGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.HostID != actorID {
		return nil, ErrForbidden("only the host can start the game")
	}
	if game.Status != models.StatusLobby {
		return nil, ErrConflict("game has already started or finished")
	}

	var teamCount int64
	if err := s.db.Model(&models.Team{}).Where("game_id = ?", gameID).Count(&teamCount).Error; err != nil {
		return nil, err
	}
	if teamCount < 1 {
		return nil, ErrConflict("at least one team is required to start")
	}

	if err := s.db.Model(game).Update("status", models.StatusInProgress).Error; err != nil {
		return nil, err
	}

	s.snapshots.Refresh(gameID)
	return s.GetByID(gameID)
}

// Finish moves an in-progress game to FINISHED.
func (s *GameService) Finish(gameID, actorID uint) (*models.Game, error) {
	game, err := s.loadGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.HostID != actorID {
		return nil, ErrForbidden("only the host can finish the game")
	}
	if game.Status != models.StatusInProgress {
		return nil, ErrConflict("only an in-progress game can be finished")
	}

	if err := s.db.Model(game).Update("status", models.StatusFinished).Error; err != nil {
		return nil, err
	}

	s.snapshots.Refresh(gameID)
	return s.GetByID(gameID)
}

// Delete removes a game regardless of status. Host only.
func (s *GameService) Delete(gameID, actorID uint) error {
	game, err := s.loadGame(gameID)
	if err != nil {
		return err
	}
	if game.HostID != actorID {
		return ErrForbidden("only the host can delete the game")
	}
	if err := s.db.Delete(game).Error; err != nil {
		return err
	}
	s.snapshots.Drop(gameID)
	return nil
}

func (s *GameService) loadGame(gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.First(&game, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound("game not found")
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

const joinCodeAttempts = 5

func generateJoinCode() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
