package handler

import (
	"net/http"
	"strconv"

	"github.com/triviaboard/backend/internal/models"
	"github.com/triviaboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TeamHandler serves the roster routes.
type TeamHandler struct {
	teams *service.TeamService
}

func NewTeamHandler(teams *service.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// region --- DTOs ---

// JoinTeamInput defines the optional captain flag when joining a team.
type JoinTeamInput struct {
	IsCaptain bool `json:"is_captain"`
}

// TeamResponse defines the structure for a team with its members.
type TeamResponse struct {
	ID      uint             `json:"id"`
	GameID  uint             `json:"game_id"`
	Name    string           `json:"name"`
	Order   int              `json:"order"`
	Score   int              `json:"score"`
	Members []MemberResponse `json:"members"`
}

// MemberResponse defines the structure for a team membership.
type MemberResponse struct {
	ID        uint `json:"id"`
	UserID    uint `json:"user_id"`
	IsCaptain bool `json:"is_captain"`
}

func newTeamResponse(team models.Team) TeamResponse {
	members := make([]MemberResponse, 0, len(team.Members))
	for _, member := range team.Members {
		members = append(members, MemberResponse{
			ID:        member.ID,
			UserID:    member.UserID,
			IsCaptain: member.IsCaptain,
		})
	}
	return TeamResponse{
		ID:      team.ID,
		GameID:  team.GameID,
		Name:    team.Name,
		Order:   team.Position,
		Score:   team.Score,
		Members: members,
	}
}

// endregion

// CreateTeam godoc
// @Summary      Create a team
// @Description  Adds a team to a lobby game; the caller becomes captain unless opted out.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Game ID"
// @Param        input body service.CreateTeamRequest true "Team Info"
// @Success      201 {object} TeamResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Team limit reached or game already started"
// @Router       /games/{id}/teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	var req service.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teams.Create(uint(gameID), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTeamResponse(*team))
}

// ListTeams godoc
// @Summary      List a game's teams
// @Description  Gets the teams of a game in display order with their members.
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {array} TeamResponse
// @Router       /games/{id}/teams [get]
func (h *TeamHandler) ListTeams(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	teams, err := h.teams.ListForGame(uint(gameID))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		response = append(response, newTeamResponse(team))
	}
	c.JSON(http.StatusOK, response)
}

// JoinTeam godoc
// @Summary      Join a team
// @Description  Adds the caller to the team. Duplicate membership is rejected.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Team ID"
// @Param        input body JoinTeamInput false "Join options"
// @Success      200 {object} map[string]string "{"message": "Joined team successfully"}"
// @Failure      404 {object} ErrorResponse "Team not found"
// @Failure      409 {object} ErrorResponse "Already a member"
// @Router       /teams/{id}/join [post]
func (h *TeamHandler) JoinTeam(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	var input JoinTeamInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}

	if _, err := h.teams.Join(uint(teamID), currentUserID(c), input.IsCaptain); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined team successfully"})
}

// LeaveTeam godoc
// @Summary      Leave a team
// @Description  Removes the caller's membership from the team.
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Team ID"
// @Success      200 {object} map[string]string "{"message": "Left team successfully"}"
// @Failure      404 {object} ErrorResponse "Not a member of this team"
// @Router       /teams/{id}/leave [post]
func (h *TeamHandler) LeaveTeam(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	if err := h.teams.Leave(uint(teamID), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left team successfully"})
}

// RemoveTeam godoc
// @Summary      Remove a team (Host only)
// @Description  Deletes a team while in the lobby and re-numbers the remaining teams.
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Team ID"
// @Success      200 {object} map[string]string "{"message": "Team removed"}"
// @Failure      403 {object} ErrorResponse "Only the host can remove teams"
// @Failure      404 {object} ErrorResponse "Team not found"
// @Router       /teams/{id} [delete]
func (h *TeamHandler) RemoveTeam(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	if err := h.teams.Remove(uint(teamID), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team removed"})
}

// AdjustScore godoc
// @Summary      Adjust a team's score (Host/Operator)
// @Description  Applies a signed increment to the team's score.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Team ID"
// @Param        input body service.AdjustScoreRequest true "Score delta"
// @Success      200 {object} TeamResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Team not found"
// @Router       /teams/{id}/score [post]
func (h *TeamHandler) AdjustScore(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	var req service.AdjustScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teams.AdjustScore(uint(teamID), currentUserID(c), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTeamResponse(*team))
}
