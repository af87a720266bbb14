package dto

import "time"

// SessionDTO is the full view of a practice session.
type SessionDTO struct {
	ID          uint              `json:"id"`
	UserID      uint              `json:"userId"`
	TestID      *uint             `json:"testId,omitempty"`
	SectionID   *uint             `json:"sectionId,omitempty"`
	QuestionID  *uint             `json:"questionId,omitempty"`
	Type        string            `json:"type"`
	Skill       string            `json:"skill,omitempty"`
	StartTime   time.Time         `json:"startTime"`
	EndTime     *time.Time        `json:"endTime,omitempty"`
	Duration    int               `json:"duration"`
	Answers     []AnswerRecordDTO `json:"answers,omitempty"`
	Score       *ScoreDTO         `json:"score,omitempty"`
	Status      string            `json:"status"`
	TimeElapsed *int              `json:"timeElapsed,omitempty"` // seconds since start, active-session view only
	CreatedAt   time.Time         `json:"createdAt"`
}

// SessionSummaryDTO is a list entry with answers stripped.
type SessionSummaryDTO struct {
	ID        uint       `json:"id"`
	TestID    *uint      `json:"testId,omitempty"`
	Type      string     `json:"type"`
	Skill     string     `json:"skill,omitempty"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  int        `json:"duration"`
	Score     *ScoreDTO  `json:"score,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// SessionStatsDTO summarizes a filtered session listing.
type SessionStatsDTO struct {
	TotalSessions  int64   `json:"totalSessions"`
	TotalCompleted int64   `json:"totalCompleted"`
	TotalDuration  int64   `json:"totalDuration"`
	AvgScore       float64 `json:"avgScore"`
}

type SessionListDTO struct {
	Sessions   []SessionSummaryDTO `json:"sessions"`
	Pagination PaginationDTO       `json:"pagination"`
	Statistics SessionStatsDTO     `json:"statistics"`
}

// SessionProgressDTO is the derived read-only progress view of a session.
type SessionProgressDTO struct {
	TotalQuestions    int     `json:"totalQuestions"`
	AnsweredQuestions int     `json:"answeredQuestions"`
	CorrectAnswers    int     `json:"correctAnswers"`
	Accuracy          float64 `json:"accuracy"`
	TimeSpent         int     `json:"timeSpent"`
	CompletionRate    float64 `json:"completionRate"`
}

// SubmitAnswersResultDTO acknowledges a bulk answer append.
type SubmitAnswersResultDTO struct {
	TotalAnswers  int               `json:"totalAnswers"`
	RecentAnswers []AnswerRecordDTO `json:"recentAnswers"`
}
