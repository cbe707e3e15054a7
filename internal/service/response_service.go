package service

import (
	"errors"
	"time"

	"github.com/triviaboard/backend/internal/models"

	"gorm.io/gorm"
)

// ResponseService records submitted answers and lets operators validate
// them, adjusting scores and resolving the clue on the board.
type ResponseService struct {
	db        *gorm.DB
	snapshots *SnapshotService
}

func NewResponseService(db *gorm.DB, snapshots *SnapshotService) *ResponseService {
	return &ResponseService{db: db, snapshots: snapshots}
}

type SubmitResponseRequest struct {
	TeamID uint   `json:"team_id" binding:"required"`
	Answer string `json:"answer" binding:"required"`
}

type ValidateResponseRequest struct {
	IsCorrect    *bool `json:"is_correct" binding:"required"`
	AwardedValue *int  `json:"awarded_value"`
}

// Submit records a team's answer for a clue, unvalidated. The submitter must
// be a member of the team. A team may submit any number of times per clue.
func (s *ResponseService) Submit(clueID, submittedByID uint, req *SubmitResponseRequest) (*models.TeamResponse, error) {
	var clue models.Clue
	if err := s.db.First(&clue, clueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("clue not found")
		}
		return nil, err
	}

	var membership int64
	if err := s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", req.TeamID, submittedByID).
		Count(&membership).Error; err != nil {
		return nil, err
	}
	if membership == 0 {
		return nil, ErrForbidden("only a member of the team can submit its answer")
	}

	response := models.TeamResponse{
		TeamID:          req.TeamID,
		ClueID:          clueID,
		SubmittedByID:   submittedByID,
		SubmittedAnswer: req.Answer,
	}
	if err := s.db.Create(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

// ListForClue returns every response for a clue, oldest first.
func (s *ResponseService) ListForClue(clueID uint) ([]models.TeamResponse, error) {
	var responses []models.TeamResponse
	err := s.db.Where("clue_id = ?", clueID).
		Preload("Team").
		Preload("SubmittedBy").
		Order("created_at ASC").
		Find(&responses).Error
	return responses, err
}

// Validate rules on a response. The awarded delta is the explicit value when
// given, otherwise +clue.Value for a correct answer and -clue.Value for an
// incorrect one. The response update, the team score increment and the clue
// state resolution commit as one transaction; partial scoring is never
// observable.
func (s *ResponseService) Validate(responseID, operatorID uint, req *ValidateResponseRequest) (*models.TeamResponse, error) {
	var operator models.User
	if err := s.db.First(&operator, operatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, err
	}
	if !operator.CanValidate() {
		return nil, ErrForbidden("only an operator or host can validate responses")
	}

	var response models.TeamResponse
	err := s.db.Preload("Clue").First(&response, responseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound("response not found")
	}
	if err != nil {
		return nil, err
	}

	isCorrect := req.IsCorrect != nil && *req.IsCorrect
	delta := response.Clue.Value
	if !isCorrect {
		delta = -response.Clue.Value
	}
	if req.AwardedValue != nil {
		delta = *req.AwardedValue
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.applyValidation(tx, &response, isCorrect, delta, operatorID)
	})
	if err != nil {
		return nil, err
	}

	if gameID, gerr := s.gameIDForClue(response.ClueID); gerr == nil {
		s.snapshots.Refresh(gameID)
	}

	var validated models.TeamResponse
	if err := s.db.Preload("Clue").Preload("Team").First(&validated, responseID).Error; err != nil {
		return nil, err
	}
	return &validated, nil
}

// applyValidation performs the three writes of a validation inside tx:
// the response ruling, the score increment, and the board resolution.
func (s *ResponseService) applyValidation(tx *gorm.DB, response *models.TeamResponse, isCorrect bool, delta int, operatorID uint) error {
	now := time.Now()
	if err := tx.Model(&models.TeamResponse{}).Where("id = ?", response.ID).
		Updates(map[string]interface{}{
			"is_correct":      isCorrect,
			"awarded_value":   delta,
			"validated_by_id": operatorID,
			"validated_at":    now,
		}).Error; err != nil {
		return err
	}

	if delta != 0 {
		if err := tx.Model(&models.Team{}).Where("id = ?", response.TeamID).
			Update("score", gorm.Expr("score + ?", delta)).Error; err != nil {
			return err
		}
	}

	var state models.ClueState
	err := tx.Where("clue_id = ?", response.ClueID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // clue was never claimed on the board; nothing to resolve
	}
	if err != nil {
		return err
	}

	resolved := models.ClueCorrect
	if !isCorrect {
		resolved = models.ClueIncorrect
	}
	return tx.Model(&state).Updates(map[string]interface{}{
		"state":          resolved,
		"resolved_by_id": operatorID,
	}).Error
}

func (s *ResponseService) gameIDForClue(clueID uint) (uint, error) {
	var clue models.Clue
	if err := s.db.Preload("Category").First(&clue, clueID).Error; err != nil {
		return 0, err
	}
	var round models.Round
	if err := s.db.First(&round, clue.Category.RoundID).Error; err != nil {
		return 0, err
	}
	return round.GameID, nil
}
