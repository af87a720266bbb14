package service

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/hxann/bandprep/internal/apperror"
	"github.com/hxann/bandprep/internal/dto"
	"github.com/hxann/bandprep/internal/model"
	"github.com/hxann/bandprep/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SubmissionService coordinates a full-test submission: it validates the
// test reference, invokes the scorer, persists the Result and then derives
// a correlated completed practice session.
//
// The Result write is the authoritative record. The session derivation is
// best effort: its failure is logged and never fails or rolls back the
// submission, so the two writes are deliberately not one transaction.
type SubmissionService interface {
	SubmitResult(userID uint, req dto.SubmitResultDTO) (*dto.ResultDetailDTO, error)
	GetUserResults(userID uint, testID *uint, page, limit int) (*dto.ResultListDTO, error)
	GetResultByID(id, userID uint) (*dto.ResultDetailDTO, error)
}

type submissionService struct {
	testRepo    repository.TestRepository
	resultRepo  repository.ResultRepository
	sessionRepo repository.SessionRepository
	scorer      ScoreService
}

func NewSubmissionService(
	testRepo repository.TestRepository,
	resultRepo repository.ResultRepository,
	sessionRepo repository.SessionRepository,
	scorer ScoreService,
) SubmissionService {
	return &submissionService{
		testRepo:    testRepo,
		resultRepo:  resultRepo,
		sessionRepo: sessionRepo,
		scorer:      scorer,
	}
}

func (s *submissionService) SubmitResult(userID uint, req dto.SubmitResultDTO) (*dto.ResultDetailDTO, error) {
	test, err := s.testRepo.FindByID(req.Test)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Test not found")
		}
		log.Error().Err(err).Uint("testID", req.Test).Msg("SubmitResult: test lookup failed")
		return nil, apperror.Internal("Failed to resolve test").WithCause(err)
	}

	scored := s.scorer.Score(req.Answers, req.TimeTaken)

	result := model.Result{
		UserID:          userID,
		TestID:          test.ID,
		TotalRaw:        scored.TotalScore.Raw,
		TotalBand:       scored.TotalScore.Band,
		TotalPercentage: scored.TotalScore.Percentage,
		TimeTaken:       scored.TimeTaken,
		SubmittedAt:     time.Now(),
		StartedAt:       scored.StartedAt,
	}
	for _, ans := range req.Answers {
		result.Answers = append(result.Answers, model.ResultAnswer{
			QuestionID: ans.QuestionID,
			Answer:     ans.Answer,
			IsCorrect:  ans.IsCorrect,
			TimeTaken:  ans.TimeTaken,
		})
	}
	for _, sec := range scored.SectionResults {
		sr := model.SectionResult{
			Skill:      sec.Skill,
			Raw:        sec.Score.Raw,
			Band:       sec.Score.Band,
			Percentage: sec.Score.Percentage,
		}
		for _, q := range sec.Questions {
			sr.Questions = append(sr.Questions, model.SectionQuestion{
				QuestionID: q.QuestionID,
				IsCorrect:  q.IsCorrect,
			})
		}
		result.SectionResults = append(result.SectionResults, sr)
	}

	if err := s.resultRepo.Create(&result); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("testID", test.ID).Msg("SubmitResult: result write failed")
		return nil, apperror.Internal("Failed to save result").WithCause(err)
	}

	// Derived history entry. Must come after the result write so a session
	// never references scores that were not durably recorded.
	if err := s.deriveSession(userID, &result, req.Answers, scored); err != nil {
		log.Error().Err(err).Uint("resultID", result.ID).Msg("SubmitResult: practice history derivation failed, result stands")
	}

	return s.resultToDetail(&result, test), nil
}

// deriveSession projects the submission into the practice history. The
// derived answers take correctness from the section breakdown, so while
// the scorer produces no sections every derived answer marks incorrect.
func (s *submissionService) deriveSession(userID uint, result *model.Result, answers []dto.AnswerDTO, scored ScoredResult) error {
	correct := make(map[string]bool)
	for _, sec := range scored.SectionResults {
		for _, q := range sec.Questions {
			if q.IsCorrect {
				correct[q.QuestionID] = true
			}
		}
	}

	raw := result.TotalRaw
	band := result.TotalBand
	pct := result.TotalPercentage
	endTime := result.SubmittedAt

	session := model.PracticeSession{
		UserID:    userID,
		TestID:    &result.TestID,
		Type:      model.SessionTypeFullTest,
		Skill:     "overall",
		StartTime: result.StartedAt,
		EndTime:   &endTime,
		Duration:  result.TimeTaken,
		ScoreRaw:  &raw,
		ScoreBand: &band,
		ScorePct:  &pct,
		Status:    model.SessionCompleted,
	}
	for _, ans := range answers {
		session.Answers = append(session.Answers, model.SessionAnswer{
			QuestionID: ans.QuestionID,
			Answer:     ans.Answer,
			IsCorrect:  correct[ans.QuestionID],
			TimeTaken:  ans.TimeTaken,
		})
	}
	if payload, err := json.Marshal(answers); err == nil {
		session.SubmittedAnswers = payload
	}

	return s.sessionRepo.Create(&session)
}

func (s *submissionService) GetUserResults(userID uint, testID *uint, page, limit int) (*dto.ResultListDTO, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	results, total, err := s.resultRepo.FindAllByUser(userID, testID, (page-1)*limit, limit)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserResults: repository error")
		return nil, apperror.Internal("Failed to fetch results").WithCause(err)
	}

	list := dto.ResultListDTO{
		Results: make([]dto.ResultSummaryDTO, 0, len(results)),
		Pagination: dto.PaginationDTO{
			CurrentPage:  page,
			TotalPages:   int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}
	for _, res := range results {
		list.Results = append(list.Results, dto.ResultSummaryDTO{
			ID:     res.ID,
			TestID: res.TestID,
			TestTitle: res.Test.Title,
			TestType:  res.Test.Type,
			TotalScore: dto.ScoreDTO{
				Raw:        res.TotalRaw,
				Band:       res.TotalBand,
				Percentage: res.TotalPercentage,
			},
			TimeTaken:   res.TimeTaken,
			SubmittedAt: res.SubmittedAt,
		})
	}
	return &list, nil
}

func (s *submissionService) GetResultByID(id, userID uint) (*dto.ResultDetailDTO, error) {
	result, err := s.resultRepo.FindByIDWithDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Result not found")
		}
		log.Error().Err(err).Uint("resultID", id).Msg("GetResultByID: repository error")
		return nil, apperror.Internal("Failed to fetch result").WithCause(err)
	}
	if result.UserID != userID {
		return nil, apperror.Forbidden("Access denied")
	}
	return s.resultToDetail(result, &result.Test), nil
}

func (s *submissionService) resultToDetail(result *model.Result, test *model.Test) *dto.ResultDetailDTO {
	detail := dto.ResultDetailDTO{
		ID:     result.ID,
		UserID: result.UserID,
		TestID: result.TestID,
		TotalScore: dto.ScoreDTO{
			Raw:        result.TotalRaw,
			Band:       result.TotalBand,
			Percentage: result.TotalPercentage,
		},
		SectionResults: make([]dto.SectionResultDTO, 0, len(result.SectionResults)),
		TimeTaken:      result.TimeTaken,
		SubmittedAt:    result.SubmittedAt,
		StartedAt:      result.StartedAt,
	}
	if test != nil && test.ID != 0 {
		detail.TestTitle = test.Title
		detail.TestType = test.Type
	}

	detail.Answers = make([]dto.AnswerRecordDTO, 0, len(result.Answers))
	if err := copier.Copy(&detail.Answers, &result.Answers); err != nil {
		log.Warn().Err(err).Uint("resultID", result.ID).Msg("resultToDetail: answer copy failed")
	}

	for _, sec := range result.SectionResults {
		secDTO := dto.SectionResultDTO{
			Skill: sec.Skill,
			Score: dto.ScoreDTO{
				Raw:        sec.Raw,
				Band:       sec.Band,
				Percentage: sec.Percentage,
			},
			Questions: make([]dto.SectionQuestionDTO, 0, len(sec.Questions)),
		}
		for _, q := range sec.Questions {
			secDTO.Questions = append(secDTO.Questions, dto.SectionQuestionDTO{
				QuestionID: q.QuestionID,
				IsCorrect:  q.IsCorrect,
			})
		}
		detail.SectionResults = append(detail.SectionResults, secDTO)
	}
	return &detail
}
