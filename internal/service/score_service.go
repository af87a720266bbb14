package service

import (
	"math"
	"time"

	"github.com/hxann/bandprep/internal/dto"
)

// Score is a normalized score triple.
type Score struct {
	Raw        int
	Band       float64
	Percentage float64
}

// SectionScore is a per-skill breakdown entry.
type SectionScore struct {
	Skill     string
	Score     Score
	Questions []SectionQuestionScore
}

type SectionQuestionScore struct {
	QuestionID string
	IsCorrect  bool
}

// ScoredResult is the scorer's output for one submission.
type ScoredResult struct {
	TotalScore     Score
	SectionResults []SectionScore
	TimeTaken      int
	StartedAt      time.Time
}

// ScoreService turns a set of marked answers into band scores. Pure: no
// I/O, deterministic given inputs and the clock.
type ScoreService interface {
	Score(answers []dto.AnswerDTO, timeTakenSeconds int) ScoredResult
}

type scoreService struct{}

func NewScoreService() ScoreService {
	return &scoreService{}
}

// bandFor maps a percentage onto the band scale. Evaluated top-down,
// first match wins; anything under 50% floors at band 4.0.
func bandFor(percentage float64) float64 {
	switch {
	case percentage >= 90:
		return 9.0
	case percentage >= 80:
		return 8.0
	case percentage >= 70:
		return 7.0
	case percentage >= 60:
		return 6.0
	case percentage >= 50:
		return 5.0
	default:
		return 4.0
	}
}

// Score counts correct answers and derives percentage and band. Empty
// input scores as {0, 0%, band 4.0} rather than erroring. The per-section
// breakdown is left empty: section scoring needs question-to-section
// mapping that no collaborator supplies yet.
func (s *scoreService) Score(answers []dto.AnswerDTO, timeTakenSeconds int) ScoredResult {
	raw := 0
	for _, ans := range answers {
		if ans.IsCorrect {
			raw++
		}
	}

	percentage := 0.0
	if len(answers) > 0 {
		percentage = float64(raw) / float64(len(answers)) * 100
	}
	band := bandFor(percentage)

	return ScoredResult{
		TotalScore: Score{
			Raw:        raw,
			Band:       band,
			Percentage: math.Round(percentage*10) / 10,
		},
		SectionResults: []SectionScore{},
		TimeTaken:      timeTakenSeconds,
		StartedAt:      time.Now().Add(-time.Duration(timeTakenSeconds) * time.Second),
	}
}
