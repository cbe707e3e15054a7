package service

import (
	"errors"
	"strings"
	"time"

	"github.com/triviaboard/backend/internal/models"

	"gorm.io/gorm"
)

// TeamService manages the roster: team creation, membership and scores.
type TeamService struct {
	db        *gorm.DB
	snapshots *SnapshotService
}

func NewTeamService(db *gorm.DB, snapshots *SnapshotService) *TeamService {
	return &TeamService{db: db, snapshots: snapshots}
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	MakeCaptain *bool  `json:"make_captain"`
}

type AdjustScoreRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// Create adds a team to a lobby game. The in-transaction count enforces the
// team limit; the unique (game_id, position) index is the backstop against
// concurrent creates, which both compute the same next position and collide.
// Unless make_captain is false, the actor joins the new team as captain.
func (s *TeamService) Create(gameID, actorID uint, req *CreateTeamRequest) (*models.Team, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalid("team name must not be blank")
	}

	var game models.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("game not found")
		}
		return nil, err
	}
	if game.Status != models.StatusLobby {
		return nil, ErrConflict("teams can only be created while the game is in the lobby")
	}

	team := models.Team{
		GameID: gameID,
		Name:   strings.TrimSpace(req.Name),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Team{}).Where("game_id = ?", gameID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(game.TeamLimit) {
			return ErrConflict("team limit reached")
		}

		team.Position = int(count) + 1
		if err := tx.Create(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict("roster changed concurrently, please retry")
			}
			return err
		}

		if req.MakeCaptain == nil || *req.MakeCaptain {
			member := models.TeamMember{
				TeamID:    team.ID,
				UserID:    actorID,
				IsCaptain: true,
				JoinedAt:  time.Now(),
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(team.ID)
}

// GetByID loads a team with its members.
func (s *TeamService) GetByID(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Preload("Members").Preload("Members.User").First(&team, teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound("team not found")
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ListForGame returns a game's teams in display order with their members.
func (s *TeamService) ListForGame(gameID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Where("game_id = ?", gameID).
		Preload("Members").
		Order("position ASC").
		Find(&teams).Error
	return teams, err
}

// Join adds userID to the team. Duplicate membership is rejected; the
// composite unique index on (team_id, user_id) backs this against races.
func (s *TeamService) Join(teamID, userID uint, isCaptain bool) (*models.TeamMember, error) {
	if _, err := s.GetByID(teamID); err != nil {
		return nil, err
	}

	var existing models.TeamMember
	err := s.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&existing).Error
	if err == nil {
		return nil, ErrConflict("user is already a member of this team")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member := models.TeamMember{
		TeamID:    teamID,
		UserID:    userID,
		IsCaptain: isCaptain,
		JoinedAt:  time.Now(),
	}
	if err := s.db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict("user is already a member of this team")
		}
		return nil, err
	}
	return &member, nil
}

// Leave removes userID's membership from the team.
func (s *TeamService) Leave(teamID, userID uint) error {
	var member models.TeamMember
	err := s.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound("user is not a member of this team")
	}
	if err != nil {
		return err
	}
	return s.db.Delete(&member).Error
}

// Remove deletes a team and re-numbers the remaining teams to a contiguous
// 1..N sequence. Host only, lobby only. The delete and the renumbering run
// in one transaction so a partial resequence is never observable.
func (s *TeamService) Remove(teamID, actorID uint) error {
	team, err := s.GetByID(teamID)
	if err != nil {
		return err
	}

	var game models.Game
	if err := s.db.First(&game, team.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound("game not found")
		}
		return err
	}
	if game.HostID != actorID {
		return ErrForbidden("only the host can remove teams")
	}
	if game.Status != models.StatusLobby {
		return ErrConflict("teams can only be removed while the game is in the lobby")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Team{}, teamID).Error; err != nil {
			return err
		}

		var remaining []models.Team
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

// AdjustScore applies a signed increment to the team's score. The actor must
// be the game's host or hold the HOST or OPERATOR role. There is no bound;
// scores may go negative.
func (s *TeamService) AdjustScore(teamID, actorID uint, delta int) (*models.Team, error) {
	team, err := s.GetByID(teamID)
	if err != nil {
		return nil, err
	}

	var game models.Game
	if err := s.db.First(&game, team.GameID).Error; err != nil {
		return nil, err
	}

	var actor models.User
	if err := s.db.First(&actor, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("user not found")
		}
		return nil, err
	}
	if game.HostID != actorID && !actor.CanValidate() {
		return nil, ErrForbidden("only the game host or an operator can adjust scores")
	}

	if err := s.db.Model(&models.Team{}).Where("id = ?", teamID).
		Update("score", gorm.Expr("score + ?", delta)).Error; err != nil {
		return nil, err
	}

	s.snapshots.Refresh(team.GameID)
	return s.GetByID(teamID)
}
