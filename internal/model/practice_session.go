package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Practice session lifecycle states.
const (
	SessionStarted   = "started"
	SessionCompleted = "completed"
	SessionPaused    = "paused"
	SessionAbandoned = "abandoned"
)

// Practice session types.
const (
	SessionTypeFullTest = "full-test"
	SessionTypeSection  = "section"
	SessionTypeQuestion = "question"
	SessionTypePractice = "practice"
)

// PracticeSession records one attempt at a test, a section, a single
// question or free practice. Owned exclusively by the creating user.
type PracticeSession struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	UserID     uint            `json:"user_id" gorm:"not null;index:idx_sessions_user_created"`
	User       User            `json:"-" gorm:"foreignKey:UserID"`
	TestID     *uint           `json:"test_id,omitempty" gorm:"index"`
	Test       *Test           `json:"test,omitempty" gorm:"foreignKey:TestID"`
	SectionID  *uint           `json:"section_id,omitempty"`
	QuestionID *uint           `json:"question_id,omitempty"`
	Type       string          `json:"type" gorm:"not null"` // full-test, section, question, practice
	Skill      string          `json:"skill,omitempty" gorm:"index"`
	StartTime  time.Time       `json:"start_time" gorm:"not null"`
	EndTime    *time.Time      `json:"end_time,omitempty"`
	Duration   int             `json:"duration"` // seconds, set on completion
	Answers    []SessionAnswer `json:"answers,omitempty" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ScoreRaw   *int            `json:"score_raw,omitempty"`
	ScoreBand  *float64        `json:"score_band,omitempty"`
	ScorePct   *float64        `json:"score_percentage,omitempty"`
	Status     string          `json:"status" gorm:"default:'started';index"`
	Feedback   string          `json:"feedback,omitempty" gorm:"type:text"`
	// Raw client payload as submitted, shape varies by question type.
	SubmittedAnswers datatypes.JSON `json:"submitted_answers,omitempty"`
	CreatedAt        time.Time      `json:"created_at" gorm:"index:idx_sessions_user_created"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// SessionAnswer is one normalized answer record inside a session. Appendable
// while the session is open, frozen once the session completes.
type SessionAnswer struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	SessionID  uint           `json:"session_id" gorm:"not null;index"`
	QuestionID string         `json:"question_id" gorm:"not null"`
	Answer     string         `json:"answer" gorm:"type:text"`
	IsCorrect  bool           `json:"is_correct"`
	TimeTaken  int            `json:"time_taken"` // seconds
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
