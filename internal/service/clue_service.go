package service

import (
	"errors"

	"github.com/triviaboard/backend/internal/models"

	"gorm.io/gorm"
)

// ClueService runs the live board: claiming clues, operator overrides and
// resets. Board state moves AVAILABLE -> PENDING -> CORRECT/INCORRECT, with
// reset as the only way back to AVAILABLE.
type ClueService struct {
	db        *gorm.DB
	snapshots *SnapshotService
}

func NewClueService(db *gorm.DB, snapshots *SnapshotService) *ClueService {
	return &ClueService{db: db, snapshots: snapshots}
}

type OverrideStateRequest struct {
	State models.BoardState `json:"state" binding:"required,oneof=AVAILABLE PENDING CORRECT INCORRECT"`
}

// Select claims a clue for a team. The game must be in progress, the team
// must belong to the clue's game and the actor must be a member of the team.
//
// The claim itself is a single conditional write: an UPDATE guarded by
// state=AVAILABLE for an existing row, or an INSERT protected by the unique
// index on clue_id for the lazy first claim. Two concurrent selections can
// never both succeed.
func (s *ClueService) Select(clueID, teamID, actorID uint) (*models.ClueState, error) {
	clue, gameID, err := s.loadClueWithGame(clueID)
	if err != nil {
		return nil, err
	}

	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		return nil, err
	}
	if game.Status != models.StatusInProgress {
		return nil, ErrConflict("clues can only be selected while the game is in progress")
	}

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("team not found")
		}
		return nil, err
	}
	if team.GameID != game.ID {
		return nil, ErrForbidden("team does not belong to this game")
	}

	var membership int64
	if err := s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, actorID).
		Count(&membership).Error; err != nil {
		return nil, err
	}
	if membership == 0 {
		return nil, ErrForbidden("only a member of the team can select a clue for it")
	}

	res := s.db.Model(&models.ClueState{}).
		Where("clue_id = ? AND state = ?", clue.ID, models.ClueAvailable).
		Updates(map[string]interface{}{
			"state":             models.CluePending,
			"picked_by_team_id": teamID,
			"resolved_by_id":    nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either no state row exists yet, or the clue is no longer available.
		var existing models.ClueState
		err := s.db.Where("clue_id = ?", clue.ID).First(&existing).Error
		if err == nil {
			return nil, ErrConflict("clue is already taken")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		state := models.ClueState{
			ClueID:         clue.ID,
			GameID:         game.ID,
			State:          models.CluePending,
			PickedByTeamID: &teamID,
		}
		if err := s.db.Create(&state).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrConflict("clue is already taken")
			}
			return nil, err
		}
	}

	s.snapshots.Refresh(game.ID)
	return s.getState(clue.ID)
}

// OverrideState writes a clue's board state directly, recording who resolved
// it. This is the operator's manual-edit path: it deliberately skips the
// membership and transition guards that Select enforces, and it requires the
// state row to already exist.
func (s *ClueService) OverrideState(clueID, resolvedByID uint, req *OverrideStateRequest) (*models.ClueState, error) {
	if _, _, err := s.loadClueWithGame(clueID); err != nil {
		return nil, err
	}

	var operator models.User
	if err := s.db.First(&operator, resolvedByID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, err
	}

	var state models.ClueState
	if err := s.db.Where("clue_id = ?", clueID).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("clue has no board state to override")
		}
		return nil, err
	}

	if err := s.db.Model(&state).Updates(map[string]interface{}{
		"state":          req.State,
		"resolved_by_id": resolvedByID,
	}).Error; err != nil {
		return nil, err
	}

	s.snapshots.Refresh(state.GameID)
	return s.getState(clueID)
}

// Reset returns a clue to AVAILABLE, clearing the picker and resolver. If no
// state row exists yet one is created already available. This is the only
// path back to AVAILABLE.
func (s *ClueService) Reset(clueID, actorID uint) (*models.ClueState, error) {
	_, gameID, err := s.loadClueWithGame(clueID)
	if err != nil {
		return nil, err
	}

	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, err
	}

	var state models.ClueState
	err = s.db.Where("clue_id = ?", clueID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = models.ClueState{
			ClueID: clueID,
			GameID: gameID,
			State:  models.ClueAvailable,
		}
		if err := s.db.Create(&state).Error; err != nil {
			return nil, err
		}
		s.snapshots.Refresh(gameID)
		return s.getState(clueID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&state).Updates(map[string]interface{}{
		"state":             models.ClueAvailable,
		"picked_by_team_id": nil,
		"resolved_by_id":    nil,
	}).Error; err != nil {
		return nil, err
	}

	s.snapshots.Refresh(gameID)
	return s.getState(clueID)
}

// getState reloads a clue's state row with its relations.
func (s *ClueService) getState(clueID uint) (*models.ClueState, error) {
	var state models.ClueState
	err := s.db.Preload("Clue").Preload("PickedByTeam").Where("clue_id = ?", clueID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound("clue state not found")
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// loadClueWithGame resolves a clue template and the game it belongs to via
// its category and round.
func (s *ClueService) loadClueWithGame(clueID uint) (*models.Clue, uint, error) {
	var clue models.Clue
	err := s.db.Preload("Category").First(&clue, clueID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, ErrNotFound("clue not found")
	}
	if err != nil {
		return nil, 0, err
	}

	var round models.Round
	if err := s.db.First(&round, clue.Category.RoundID).Error; err != nil {
		return nil, 0, err
	}
	return &clue, round.GameID, nil
}
