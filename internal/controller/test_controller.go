package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hxann/bandprep/internal/dto"
	"github.com/hxann/bandprep/internal/service"
	"github.com/rs/zerolog/log"
)

type TestController struct {
	testService service.TestService
}

func NewTestController(testService service.TestService) *TestController {
	return &TestController{testService: testService}
}

// CreateTest godoc
// @Summary (Admin) Register a test in the catalog
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Param test body dto.TestCreateDTO true "Test metadata"
// @Success 201 {object} dto.Response{data=dto.TestSummaryDTO}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Caller is not an admin"
// @Router /admin/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateTest: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Errors: []string{err.Error()}})
		return
	}

	test, err := c.testService.CreateTest(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.OKMessage("Test created successfully", test))
}

// GetAllTests godoc
// @Summary List available tests
// @Tags Tests
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.TestSummaryDTO}
// @Router /tests [get]
func (c *TestController) GetAllTests(ctx *gin.Context) {
	tests, err := c.testService.GetAllTests()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(tests))
}

// GetTestByID godoc
// @Summary Fetch one test
// @Tags Tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} dto.Response{data=dto.TestSummaryDTO}
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id} [get]
func (c *TestController) GetTestByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	test, err := c.testService.GetTestByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(test))
}
