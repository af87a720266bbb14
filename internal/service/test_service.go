package service

import (
	"errors"
	"strings"

	"github.com/hxann/bandprep/internal/apperror"
	"github.com/hxann/bandprep/internal/dto"
	"github.com/hxann/bandprep/internal/model"
	"github.com/hxann/bandprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TestService manages the test catalog: the admin write side and the
// read side the submission flow validates against.
type TestService interface {
	CreateTest(req dto.TestCreateDTO) (*dto.TestSummaryDTO, error)
	GetAllTests() ([]dto.TestSummaryDTO, error)
	GetTestByID(id uint) (*dto.TestSummaryDTO, error)
}

type testService struct {
	testRepo repository.TestRepository
}

func NewTestService(testRepo repository.TestRepository) TestService {
	return &testService{testRepo: testRepo}
}

func (s *testService) CreateTest(req dto.TestCreateDTO) (*dto.TestSummaryDTO, error) {
	status := req.Status
	if status == "" {
		status = "published"
	}
	test := model.Test{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Skills:      strings.Join(req.Skills, ","),
		Status:      status,
	}
	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateTest: create failed")
		return nil, apperror.Internal("Failed to create test").WithCause(err)
	}
	return testToSummary(&test), nil
}

func (s *testService) GetAllTests() ([]dto.TestSummaryDTO, error) {
	tests, err := s.testRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("GetAllTests: repository error")
		return nil, apperror.Internal("Failed to fetch tests").WithCause(err)
	}
	summaries := make([]dto.TestSummaryDTO, 0, len(tests))
	for i := range tests {
		summaries = append(summaries, *testToSummary(&tests[i]))
	}
	return summaries, nil
}

func (s *testService) GetTestByID(id uint) (*dto.TestSummaryDTO, error) {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Test not found")
		}
		log.Error().Err(err).Uint("testID", id).Msg("GetTestByID: repository error")
		return nil, apperror.Internal("Failed to fetch test").WithCause(err)
	}
	return testToSummary(test), nil
}

func testToSummary(test *model.Test) *dto.TestSummaryDTO {
	var skills []string
	if test.Skills != "" {
		skills = strings.Split(test.Skills, ",")
	}
	return &dto.TestSummaryDTO{
		ID:          test.ID,
		Title:       test.Title,
		Description: test.Description,
		Type:        test.Type,
		Skills:      skills,
		Status:      test.Status,
		CreatedAt:   test.CreatedAt,
	}
}
