package handler

import (
	"net/http"
	"strconv"

	"github.com/triviaboard/backend/internal/models"
	"github.com/triviaboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ClueHandler serves the live clue-state routes.
type ClueHandler struct {
	clues *service.ClueService
}

func NewClueHandler(clues *service.ClueService) *ClueHandler {
	return &ClueHandler{clues: clues}
}

// region --- DTOs ---

// SelectClueInput names the team claiming a clue.
type SelectClueInput struct {
	TeamID uint `json:"team_id" binding:"required"`
}

// ClueStateResponse defines the structure for a clue's live board status.
type ClueStateResponse struct {
	ID             uint   `json:"id"`
	ClueID         uint   `json:"clue_id"`
	GameID         uint   `json:"game_id"`
	State          string `json:"state"`
	PickedByTeamID *uint  `json:"picked_by_team_id,omitempty"`
	ResolvedByID   *uint  `json:"resolved_by_id,omitempty"`
}

func newClueStateResponse(state models.ClueState) ClueStateResponse {
	return ClueStateResponse{
		ID:             state.ID,
		ClueID:         state.ClueID,
		GameID:         state.GameID,
		State:          string(state.State),
		PickedByTeamID: state.PickedByTeamID,
		ResolvedByID:   state.ResolvedByID,
	}
}

// endregion

// SelectClue godoc
// @Summary      Select a clue for a team
// @Description  Claims an available clue for the caller's team while the game is in progress.
// @Tags         clues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Clue ID"
// @Param        input body SelectClueInput true "Claiming team"
// @Success      200 {object} ClueStateResponse
// @Failure      403 {object} ErrorResponse "Not a member of the team"
// @Failure      404 {object} ErrorResponse "Clue or team not found"
// @Failure      409 {object} ErrorResponse "Clue is already taken"
// @Router       /clues/{id}/select [post]
func (h *ClueHandler) SelectClue(c *gin.Context) {
	clueID, _ := strconv.Atoi(c.Param("id"))

	var input SelectClueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.clues.Select(uint(clueID), input.TeamID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newClueStateResponse(*state))
}

// OverrideClueState godoc
// @Summary      Override a clue's board state
// @Description  Writes the state directly, bypassing the selection guards. Operator manual-edit path.
// @Tags         clues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Clue ID"
// @Param        input body service.OverrideStateRequest true "Target state"
// @Success      200 {object} ClueStateResponse
// @Failure      404 {object} ErrorResponse "Clue has no board state yet"
// @Router       /clues/{id}/state [patch]
func (h *ClueHandler) OverrideClueState(c *gin.Context) {
	clueID, _ := strconv.Atoi(c.Param("id"))

	var req service.OverrideStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.clues.OverrideState(uint(clueID), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newClueStateResponse(*state))
}

// ResetClue godoc
// @Summary      Reset a clue to AVAILABLE
// @Description  Clears the picker and resolver; the only path back to AVAILABLE.
// @Tags         clues
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Clue ID"
// @Success      200 {object} ClueStateResponse
// @Failure      404 {object} ErrorResponse "Clue not found"
// @Router       /clues/{id}/reset [post]
func (h *ClueHandler) ResetClue(c *gin.Context) {
	clueID, _ := strconv.Atoi(c.Param("id"))

	state, err := h.clues.Reset(uint(clueID), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newClueStateResponse(*state))
}
