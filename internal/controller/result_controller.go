package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hxann/bandprep/internal/dto"
	"github.com/hxann/bandprep/internal/service"
	"github.com/rs/zerolog/log"
)

type ResultController struct {
	submissionService service.SubmissionService
	analyticsService  service.AnalyticsService
}

func NewResultController(submissionService service.SubmissionService, analyticsService service.AnalyticsService) *ResultController {
	return &ResultController{
		submissionService: submissionService,
		analyticsService:  analyticsService,
	}
}

// SubmitResult godoc
// @Summary Submit a finished full test
// @Description Scores the submitted answers, records the result and derives a completed practice history entry.
// @Tags Results
// @Accept json
// @Produce json
// @Param submission body dto.SubmitResultDTO true "Test reference, answers and elapsed time"
// @Success 201 {object} dto.Response{data=dto.ResultDetailDTO}
// @Failure 400 {object} dto.ErrorResponse "Malformed body or answers not an array"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /results/submit [post]
func (c *ResultController) SubmitResult(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.SubmitResultDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitResult: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Validation failed", Errors: []string{err.Error()}})
		return
	}

	result, err := c.submissionService.SubmitResult(userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.OKMessage("Result submitted successfully", result))
}

// GetMyResults godoc
// @Summary List the caller's results
// @Description Paginated result history, newest first, answers stripped. Optional test filter.
// @Tags Results
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param test query int false "Filter by test ID"
// @Success 200 {object} dto.Response{data=dto.ResultListDTO}
// @Router /results/my-results [get]
func (c *ResultController) GetMyResults(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var testID *uint
	if raw := ctx.Query("test"); raw != "" {
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid test ID format"})
			return
		}
		id := uint(val)
		testID = &id
	}

	list, err := c.submissionService.GetUserResults(userID, testID, queryInt(ctx, "page", 1), queryInt(ctx, "limit", 10))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(list))
}

// GetStatistics godoc
// @Summary Windowed performance statistics for the caller
// @Tags Results
// @Produce json
// @Param days query int false "Trailing window in days" default(90)
// @Success 200 {object} dto.Response{data=dto.StatisticsDTO}
// @Router /results/statistics [get]
func (c *ResultController) GetStatistics(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	stats, err := c.analyticsService.GetUserStatistics(userID, queryInt(ctx, "days", service.DefaultStatisticsDays))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(stats))
}

// GetLeaderboard godoc
// @Summary Top performers over a trailing window
// @Tags Results
// @Produce json
// @Param limit query int false "Number of entries" default(10)
// @Param days query int false "Trailing window in days" default(30)
// @Success 200 {object} dto.Response{data=[]dto.LeaderboardEntryDTO}
// @Router /results/leaderboard [get]
func (c *ResultController) GetLeaderboard(ctx *gin.Context) {
	board, err := c.analyticsService.GetLeaderboard(
		queryInt(ctx, "days", service.DefaultLeaderboardDays),
		queryInt(ctx, "limit", service.DefaultLeaderboardSize),
	)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(board))
}

// GetResultByID godoc
// @Summary Fetch one result
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} dto.Response{data=dto.ResultDetailDTO}
// @Failure 403 {object} dto.ErrorResponse "Result belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /results/{id} [get]
func (c *ResultController) GetResultByID(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.submissionService.GetResultByID(id, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(result))
}
