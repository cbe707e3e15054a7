package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/triviaboard/backend/internal/models"
	"github.com/triviaboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ResponseHandler serves answer submission and validation routes.
type ResponseHandler struct {
	responses *service.ResponseService
}

func NewResponseHandler(responses *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responses: responses}
}

// region --- DTOs ---

// SubmissionResponse defines the structure for a submitted answer.
type SubmissionResponse struct {
	ID              uint       `json:"id"`
	TeamID          uint       `json:"team_id"`
	ClueID          uint       `json:"clue_id"`
	SubmittedByID   uint       `json:"submitted_by_id"`
	SubmittedAnswer string     `json:"submitted_answer"`
	IsCorrect       *bool      `json:"is_correct"`
	AwardedValue    *int       `json:"awarded_value"`
	ValidatedByID   *uint      `json:"validated_by_id,omitempty"`
	ValidatedAt     *time.Time `json:"validated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func newSubmissionResponse(response models.TeamResponse) SubmissionResponse {
	return SubmissionResponse{
		ID:              response.ID,
		TeamID:          response.TeamID,
		ClueID:          response.ClueID,
		SubmittedByID:   response.SubmittedByID,
		SubmittedAnswer: response.SubmittedAnswer,
		IsCorrect:       response.IsCorrect,
		AwardedValue:    response.AwardedValue,
		ValidatedByID:   response.ValidatedByID,
		ValidatedAt:     response.ValidatedAt,
		CreatedAt:       response.CreatedAt,
	}
}

// endregion

// SubmitResponse godoc
// @Summary      Submit an answer
// @Description  Records a team's answer for a clue, unvalidated. Multiple submissions are allowed.
// @Tags         responses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Clue ID"
// @Param        input body service.SubmitResponseRequest true "Answer"
// @Success      201 {object} SubmissionResponse
// @Failure      403 {object} ErrorResponse "Submitter is not a member of the team"
// @Failure      404 {object} ErrorResponse "Clue not found"
// @Router       /clues/{id}/responses [post]
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	clueID, _ := strconv.Atoi(c.Param("id"))

	var req service.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	response, err := h.responses.Submit(uint(clueID), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSubmissionResponse(*response))
}

// ListResponses godoc
// @Summary      List a clue's responses
// @Description  Gets every submitted answer for a clue, oldest first.
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Clue ID"
// @Success      200 {array} SubmissionResponse
// @Router       /clues/{id}/responses [get]
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	clueID, _ := strconv.Atoi(c.Param("id"))

	responses, err := h.responses.ListForClue(uint(clueID))
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]SubmissionResponse, 0, len(responses))
	for _, response := range responses {
		result = append(result, newSubmissionResponse(response))
	}
	c.JSON(http.StatusOK, result)
}

// ValidateResponse godoc
// @Summary      Validate a response (Host/Operator)
// @Description  Rules on an answer, adjusting the team score and resolving the clue in one transaction.
// @Tags         responses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Response ID"
// @Param        input body service.ValidateResponseRequest true "Ruling"
// @Success      200 {object} SubmissionResponse
// @Failure      403 {object} ErrorResponse "Only an operator or host can validate"
// @Failure      404 {object} ErrorResponse "Response not found"
// @Router       /responses/{id}/validate [post]
func (h *ResponseHandler) ValidateResponse(c *gin.Context) {
	responseID, _ := strconv.Atoi(c.Param("id"))

	var req service.ValidateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	response, err := h.responses.Validate(uint(responseID), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSubmissionResponse(*response))
}
