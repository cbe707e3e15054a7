package handler

import (
	"net/http"
	"strconv"

	"github.com/triviaboard/backend/internal/models"
	"github.com/triviaboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GameHandler serves the game lifecycle routes.
type GameHandler struct {
	games     *service.GameService
	snapshots *service.SnapshotService
}

func NewGameHandler(games *service.GameService, snapshots *service.SnapshotService) *GameHandler {
	return &GameHandler{games: games, snapshots: snapshots}
}

// region --- DTOs ---

// GameResponse defines the structure for a full game view.
type GameResponse struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	HostID    uint            `json:"host_id"`
	JoinCode  string          `json:"join_code"`
	TeamLimit int             `json:"team_limit"`
	Status    string          `json:"status"`
	Teams     []TeamResponse  `json:"teams"`
	Rounds    []RoundResponse `json:"rounds"`
}

// GameSummaryResponse is the compact listing form of a game.
type GameSummaryResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	JoinCode  string `json:"join_code"`
	TeamLimit int    `json:"team_limit"`
	Status    string `json:"status"`
}

func newGameResponse(game models.Game) GameResponse {
	teams := make([]TeamResponse, 0, len(game.Teams))
	for _, team := range game.Teams {
		teams = append(teams, newTeamResponse(team))
	}
	rounds := make([]RoundResponse, 0, len(game.Rounds))
	for _, round := range game.Rounds {
		rounds = append(rounds, newRoundResponse(round))
	}
	return GameResponse{
		ID:        game.ID,
		Title:     game.Title,
		HostID:    game.HostID,
		JoinCode:  game.JoinCode,
		TeamLimit: game.TeamLimit,
		Status:    string(game.Status),
		Teams:     teams,
		Rounds:    rounds,
	}
}

func newGameSummaryResponse(game models.Game) GameSummaryResponse {
	return GameSummaryResponse{
		ID:        game.ID,
		Title:     game.Title,
		JoinCode:  game.JoinCode,
		TeamLimit: game.TeamLimit,
		Status:    string(game.Status),
	}
}

// endregion

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a new game in the lobby phase, owned by the caller.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body service.CreateGameRequest true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /games [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req service.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.games.Create(currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGameResponse(*game))
}

// ListGames godoc
// @Summary      List the caller's games
// @Description  Gets a paginated list of games hosted by the caller, newest first.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[GameSummaryResponse]
// @Router       /games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	result, err := Paginate[models.Game](h.games.ListForHost(currentUserID(c)), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve games"})
		return
	}

	summaries := make([]GameSummaryResponse, 0, len(result.Data))
	for _, game := range result.Data {
		summaries = append(summaries, newGameSummaryResponse(game))
	}
	c.JSON(http.StatusOK, PaginatedResponse[GameSummaryResponse]{Data: summaries, Meta: result.Meta})
}

// GetGame godoc
// @Summary      Get a game by ID
// @Description  Gets full details for a single game, including teams and board.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	game, err := h.games.GetByID(uint(gameID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// UpdateGame godoc
// @Summary      Update game settings (Host only)
// @Description  Changes the game's title and/or team limit while in the lobby.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Game ID"
// @Param        input body service.UpdateGameRequest true "New Settings"
// @Success      200 {object} GameResponse
// @Failure      403 {object} ErrorResponse "Only the host can update the game"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Game is no longer in the lobby"
// @Router       /games/{id} [patch]
func (h *GameHandler) UpdateGame(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	var req service.UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.games.UpdateSettings(uint(gameID), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// StartGame godoc
// @Summary      Start a game (Host only)
// @Description  Transitions a lobby game with at least one team to IN_PROGRESS.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Game already started or has no teams"
// @Router       /games/{id}/start [post]
func (h *GameHandler) StartGame(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	game, err := h.games.Start(uint(gameID), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// FinishGame godoc
// @Summary      Finish a game (Host only)
// @Description  Transitions an in-progress game to FINISHED.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Game is not in progress"
// @Router       /games/{id}/finish [post]
func (h *GameHandler) FinishGame(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	game, err := h.games.Finish(uint(gameID), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game))
}

// DeleteGame godoc
// @Summary      Delete a game (Host only)
// @Description  Removes a game regardless of its status.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Game deleted"}"
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id} [delete]
func (h *GameHandler) DeleteGame(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	if err := h.games.Delete(uint(gameID), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// LiveBoard godoc
// @Summary      Get the live board snapshot
// @Description  Returns the cached live view of clue states and team scores. No authentication required.
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} cache.BoardSnapshot
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id}/board/live [get]
func (h *GameHandler) LiveBoard(c *gin.Context) {
	gameID, _ := strconv.Atoi(c.Param("id"))

	snap, err := h.snapshots.Live(uint(gameID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
