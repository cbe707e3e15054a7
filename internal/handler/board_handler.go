package handler

import (
	"net/http"
	"strconv"

	"github.com/triviaboard/backend/internal/models"
	"github.com/triviaboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// BoardHandler serves the board authoring routes.
type BoardHandler struct {
	board *service.BoardService
}

func NewBoardHandler(board *service.BoardService) *BoardHandler {
	return &BoardHandler{board: board}
}

// region --- DTOs ---

// UpdateRoundOrderInput sets a round's display position.
type UpdateRoundOrderInput struct {
	Order int `json:"order" binding:"required,min=1"`
}

// RoundResponse defines the structure for a round with its categories.
type RoundResponse struct {
	ID         uint               `json:"id"`
	GameID     uint               `json:"game_id"`
	Type       string             `json:"type"`
	Order      int                `json:"order"`
	Categories []CategoryResponse `json:"categories"`
}

// CategoryResponse defines the structure for a category with its clues.
type CategoryResponse struct {
	ID    uint           `json:"id"`
	Title string         `json:"title"`
	Order int            `json:"order"`
	Clues []ClueResponse `json:"clues"`
}

// ClueResponse defines the structure for a clue template. The answer is not
// exposed here; only operators see answers, via the response listing.
type ClueResponse struct {
	ID            uint   `json:"id"`
	CategoryID    uint   `json:"category_id"`
	Question      string `json:"question"`
	Value         int    `json:"value"`
	MediaURL      string `json:"media_url,omitempty"`
	IsDailyDouble bool   `json:"is_daily_double"`
}

func newRoundResponse(round models.Round) RoundResponse {
	categories := make([]CategoryResponse, 0, len(round.Categories))
	for _, category := range round.Categories {
		categories = append(categories, newCategoryResponse(category))
	}
	return RoundResponse{
		ID:         round.ID,
		GameID:     round.GameID,
		Type:       string(round.Type),
		Order:      round.Position,
		Categories: categories,
	}
}

func newCategoryResponse(category models.Category) CategoryResponse {
	clues := make([]ClueResponse, 0, len(category.Clues))
	for _, clue := range category.Clues {
		clues = append(clues, ClueResponse{
			ID:            clue.ID,
			CategoryID:    clue.CategoryID,
			Question:      clue.Question,
			Value:         clue.Value,
			MediaURL:      clue.MediaURL,
			IsDailyDouble: clue.IsDailyDouble,
		})
	}
	return CategoryResponse{
		ID:    category.ID,
		Title: category.Title,
		Order: category.Position,
		Clues: clues,
	}
}

// endregion

// ListRounds godoc
// @Summary      List a game's board
// @Description  Gets the rounds of a game in order, with categories and clues.
// @Tags         board
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {array} RoundResponse
// @Router       /games/{id}/board [get]
func (h *BoardHandler) ListRounds(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	rounds, err := h.board.ListRounds(uint(gameID))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RoundResponse, 0, len(rounds))
	for _, round := range rounds {
		response = append(response, newRoundResponse(round))
	}
	c.JSON(http.StatusOK, response)
}

// CreateRound godoc
// @Summary      Create a round (Host only)
// @Description  Creates a round with its categories and clues as one nested write.
// @Tags         board
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Game ID"
// @Param        input body service.CreateRoundRequest true "Round Info"
// @Success      201 {object} RoundResponse
// @Failure      400 {object} ErrorResponse "No categories given"
// @Failure      403 {object} ErrorResponse "Only the host can edit the board"
// @Failure      409 {object} ErrorResponse "Game is no longer in the lobby"
// @Router       /games/{id}/rounds [post]
func (h *BoardHandler) CreateRound(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	var req service.CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	round, err := h.board.CreateRound(uint(gameID), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoundResponse(*round))
}

// DeleteRound godoc
// @Summary      Delete a round (Host only)
// @Description  Deletes a round and re-numbers the remaining rounds.
// @Tags         board
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Round ID"
// @Success      200 {object} map[string]string "{"message": "Round deleted"}"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Round not found"
// @Router       /rounds/{id} [delete]
func (h *BoardHandler) DeleteRound(c *gin.Context) {
	roundID, _ := strconv.Atoi(c.Param("id"))

	if err := h.board.DeleteRound(uint(roundID), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Round deleted"})
}

// UpdateRoundOrder godoc
// @Summary      Reorder a round (Host only)
// @Description  Sets a round's position directly. No collision check is made against sibling rounds.
// @Tags         board
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Round ID"
// @Param        input body UpdateRoundOrderInput true "New position"
// @Success      200 {object} RoundResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Round not found"
// @Router       /rounds/{id}/order [patch]
func (h *BoardHandler) UpdateRoundOrder(c *gin.Context) {
	roundID, _ := strconv.Atoi(c.Param("id"))

	var input UpdateRoundOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	round, err := h.board.UpdateRoundOrder(uint(roundID), currentUserID(c), input.Order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoundResponse(*round))
}
