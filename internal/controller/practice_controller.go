package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hxann/bandprep/internal/dto"
	"github.com/hxann/bandprep/internal/repository"
	"github.com/hxann/bandprep/internal/service"
	"github.com/rs/zerolog/log"
)

type PracticeController struct {
	sessionService service.SessionService
}

func NewPracticeController(sessionService service.SessionService) *PracticeController {
	return &PracticeController{sessionService: sessionService}
}

// StartSession godoc
// @Summary Start a practice session
// @Tags Practice
// @Accept json
// @Produce json
// @Param session body dto.StartSessionDTO true "Session type plus optional test/section/question refs and skill"
// @Success 201 {object} dto.Response{data=dto.SessionDTO}
// @Failure 400 {object} dto.ErrorResponse "Missing practice type"
// @Router /practice/start [post]
func (c *PracticeController) StartSession(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.StartSessionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartSession: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Practice type is required", Errors: []string{err.Error()}})
		return
	}

	session, err := c.sessionService.StartSession(userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.OKMessage("Practice session started successfully", session))
}

// UpdateSession godoc
// @Summary Update a practice session
// @Description Replaces answers and/or transitions status; completing stamps end time and duration.
// @Tags Practice
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param update body dto.UpdateSessionDTO true "Answers, status or explicit end time"
// @Success 200 {object} dto.Response{data=dto.SessionDTO}
// @Failure 403 {object} dto.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /practice/sessions/{id} [put]
func (c *PracticeController) UpdateSession(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSessionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Uint("sessionID", id).Msg("UpdateSession: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Errors: []string{err.Error()}})
		return
	}

	session, err := c.sessionService.UpdateSession(id, userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKMessage("Practice session updated successfully", session))
}

// GetActiveSession godoc
// @Summary Most recent session still in the started state
// @Tags Practice
// @Produce json
// @Success 200 {object} dto.Response{data=dto.SessionDTO}
// @Failure 404 {object} dto.ErrorResponse "No active session"
// @Router /practice/active [get]
func (c *PracticeController) GetActiveSession(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	session, err := c.sessionService.GetActiveSession(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(session))
}

// GetSessions godoc
// @Summary List the caller's practice sessions
// @Description Paginated, filterable by status/type/skill/date range, with a summary statistics block.
// @Tags Practice
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by session type"
// @Param skill query string false "Filter by skill"
// @Param startDate query string false "Created-at lower bound (RFC 3339)"
// @Param endDate query string false "Created-at upper bound (RFC 3339)"
// @Success 200 {object} dto.Response{data=dto.SessionListDTO}
// @Router /practice/sessions [get]
func (c *PracticeController) GetSessions(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	filter := repository.SessionFilter{
		Status: ctx.Query("status"),
		Type:   ctx.Query("type"),
		Skill:  ctx.Query("skill"),
	}
	if raw := ctx.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid startDate format"})
			return
		}
		filter.StartDate = &t
	}
	if raw := ctx.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid endDate format"})
			return
		}
		filter.EndDate = &t
	}

	list, err := c.sessionService.GetUserSessions(userID, filter, queryInt(ctx, "page", 1), queryInt(ctx, "limit", 10))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(list))
}

// GetSessionByID godoc
// @Summary Fetch one practice session
// @Tags Practice
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.Response{data=dto.SessionDTO}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /practice/sessions/{id} [get]
func (c *PracticeController) GetSessionByID(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	session, err := c.sessionService.GetSessionByID(id, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(session))
}

// GetSessionProgress godoc
// @Summary Derived progress view of a session
// @Tags Practice
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.Response{data=dto.SessionProgressDTO}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /practice/sessions/{id}/progress [get]
func (c *PracticeController) GetSessionProgress(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	progress, err := c.sessionService.GetSessionProgress(id, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(progress))
}

// DeleteSession godoc
// @Summary Delete a practice session
// @Description Completed sessions cannot be deleted.
// @Tags Practice
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse "Session already completed"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /practice/sessions/{id} [delete]
func (c *PracticeController) DeleteSession(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.sessionService.DeleteSession(id, userID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Response{Success: true, Message: "Practice session deleted successfully"})
}

// SubmitAnswers godoc
// @Summary Append answers to an open session
// @Tags Practice
// @Accept json
// @Produce json
// @Param answers body dto.SubmitAnswersDTO true "Session ID and answer batch"
// @Success 200 {object} dto.Response{data=dto.SubmitAnswersResultDTO}
// @Failure 400 {object} dto.ErrorResponse "Missing session ID or answers"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /practice/submit-answers [post]
func (c *PracticeController) SubmitAnswers(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.SubmitAnswersDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswers: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Session ID and answers array are required", Errors: []string{err.Error()}})
		return
	}

	ack, err := c.sessionService.SubmitAnswers(userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OKMessage("Answers submitted successfully", ack))
}
