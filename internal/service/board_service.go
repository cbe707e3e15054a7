package service

import (
	"errors"
	"strings"

	"github.com/triviaboard/backend/internal/models"

	"gorm.io/gorm"
)

// BoardService manages the board templates: rounds, categories and clues.
// Everything here is editable only while the game sits in the lobby.
type BoardService struct {
	db *gorm.DB
}

func NewBoardService(db *gorm.DB) *BoardService {
	return &BoardService{db: db}
}

type CreateRoundRequest struct {
	Type       models.RoundType        `json:"type"`
	Order      *int                    `json:"order" binding:"omitempty,min=1"`
	Categories []CreateCategoryRequest `json:"categories" binding:"required,min=1,dive"`
}

type CreateCategoryRequest struct {
	Title string              `json:"title" binding:"required"`
	Order int                 `json:"order" binding:"required,min=1"`
	Clues []CreateClueRequest `json:"clues" binding:"dive"`
}

type CreateClueRequest struct {
	Question      string `json:"question" binding:"required"`
	Answer        string `json:"answer" binding:"required"`
	Value         int    `json:"value" binding:"required"`
	MediaURL      string `json:"media_url"`
	IsDailyDouble bool   `json:"is_daily_double"`
}

// ListRounds returns a game's rounds in order, with categories in order and
// clues sorted by value ascending.
func (s *BoardService) ListRounds(gameID uint) ([]models.Round, error) {
	var rounds []models.Round
	err := s.db.Where("game_id = ?", gameID).
		Order("position ASC").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.position ASC")
		}).
		Preload("Categories.Clues", func(db *gorm.DB) *gorm.DB {
			return db.Order("clues.value ASC")
		}).
		Find(&rounds).Error
	return rounds, err
}

// CreateRound creates a round with its categories and clues as one nested
// write: everything commits or nothing does. Host only, lobby only. When no
// order is given the round is appended after the existing ones.
func (s *BoardService) CreateRound(gameID, actorID uint, req *CreateRoundRequest) (*models.Round, error) {
	if len(req.Categories) == 0 {
		return nil, ErrInvalid("a round needs at least one category")
	}
	for _, cat := range req.Categories {
		if strings.TrimSpace(cat.Title) == "" {
			return nil, ErrInvalid("category title must not be blank")
		}
	}

	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("game not found")
		}
		return nil, err
	}
	if game.HostID != actorID {
		return nil, ErrForbidden("only the host can edit the board")
	}
	if game.Status != models.StatusLobby {
		return nil, ErrConflict("the board can only be edited while the game is in the lobby")
	}

	roundType := req.Type
	if roundType == "" {
		roundType = models.RoundJeopardy
	}

	round := models.Round{
		GameID: gameID,
		Type:   roundType,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.Order != nil {
			round.Position = *req.Order
		} else {
			var count int64
			if err := tx.Model(&models.Round{}).Where("game_id = ?", gameID).Count(&count).Error; err != nil {
				return err
			}
			round.Position = int(count) + 1
		}

		if err := tx.Create(&round).Error; err != nil {
			return err
		}

		for _, catReq := range req.Categories {
			category := models.Category{
				RoundID:  round.ID,
				Title:    strings.TrimSpace(catReq.Title),
				Position: catReq.Order,
			}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}

			for _, clueReq := range catReq.Clues {
				clue := models.Clue{
					CategoryID:    category.ID,
					Question:      clueReq.Question,
					Answer:        clueReq.Answer,
					Value:         clueReq.Value,
					MediaURL:      clueReq.MediaURL,
					IsDailyDouble: clueReq.IsDailyDouble,
				}
				if err := tx.Create(&clue).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getRound(round.ID)
}

// DeleteRound removes a round and re-numbers the remaining rounds to a
// contiguous 1..N sequence inside one transaction. Host only, lobby only.
func (s *BoardService) DeleteRound(roundID, actorID uint) error {
	round, err := s.getRound(roundID)
	if err != nil {
		return err
	}

	game, err := s.guardBoardEdit(round.GameID, actorID)
	if err != nil {
		return err
	}

	var clueIDs []uint
	for _, category := range round.Categories {
		for _, clue := range category.Clues {
			clueIDs = append(clueIDs, clue.ID)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Board states of the deleted clues go with them, so the unique
		// clue_id index never pins a row for a clue that no longer exists.
		if len(clueIDs) > 0 {
			if err := tx.Where("clue_id IN ?", clueIDs).Delete(&models.ClueState{}).Error; err != nil {
				return err
			}
		}
		for _, category := range round.Categories {
			if err := tx.Where("category_id = ?", category.ID).Delete(&models.Clue{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("round_id = ?", roundID).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Round{}, roundID).Error; err != nil {
			return err
		}

		var remaining []models.Round
		if err := tx.Where("game_id = ?", game.ID).Order("position ASC").Find(&remaining).Error; err != nil {
			return err
		}
		for i := range remaining {
			if remaining[i].Position != i+1 {
				if err := tx.Model(&remaining[i]).Update("position", i+1).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// UpdateRoundOrder sets a round's position directly. Host only, lobby only.
// No collision check against sibling rounds; the caller owns consistency.
func (s *BoardService) UpdateRoundOrder(roundID, actorID uint, newOrder int) (*models.Round, error) {
	if newOrder < 1 {
		return nil, ErrInvalid("round order must be at least 1")
	}

	round, err := s.getRound(roundID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guardBoardEdit(round.GameID, actorID); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Round{}).Where("id = ?", roundID).
		Update("position", newOrder).Error; err != nil {
		return nil, err
	}
	return s.getRound(roundID)
}

func (s *BoardService) getRound(roundID uint) (*models.Round, error) {
	var round models.Round
	err := s.db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.position ASC")
		}).
		Preload("Categories.Clues", func(db *gorm.DB) *gorm.DB {
			return db.Order("clues.value ASC")
		}).
		First(&round, roundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound("round not found")
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (s *BoardService) guardBoardEdit(gameID, actorID uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("game not found")
		}
		return nil, err
	}
	if game.HostID != actorID {
		return nil, ErrForbidden("only the host can edit the board")
	}
	if game.Status != models.StatusLobby {
		return nil, ErrConflict("the board can only be edited while the game is in the lobby")
	}
	return &game, nil
}
