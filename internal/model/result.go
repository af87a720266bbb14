package model

import (
	"time"

	"gorm.io/gorm"
)

// Result is the immutable record of one finalized full-test submission.
// It is created exactly once by the submission service and never updated
// or deleted through the API surface.
type Result struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `json:"user_id" gorm:"not null;index:idx_results_user_submitted"`
	User            User            `json:"-" gorm:"foreignKey:UserID"`
	TestID          uint            `json:"test_id" gorm:"not null;index"`
	Test            Test            `json:"test,omitempty" gorm:"foreignKey:TestID"`
	Answers         []ResultAnswer  `json:"answers,omitempty" gorm:"foreignKey:ResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TotalRaw        int             `json:"total_raw"`
	TotalBand       float64         `json:"total_band"`
	TotalPercentage float64         `json:"total_percentage"`
	SectionResults  []SectionResult `json:"section_results" gorm:"foreignKey:ResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TimeTaken       int             `json:"time_taken"` // seconds
	SubmittedAt     time.Time       `json:"submitted_at" gorm:"not null;index:idx_results_user_submitted"`
	StartedAt       time.Time       `json:"started_at"` // derived: SubmittedAt - TimeTaken
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ResultAnswer is one submitted answer frozen into a Result.
type ResultAnswer struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ResultID   uint           `json:"result_id" gorm:"not null;index"`
	QuestionID string         `json:"question_id" gorm:"not null"`
	Answer     string         `json:"answer" gorm:"type:text"`
	IsCorrect  bool           `json:"is_correct"`
	TimeTaken  int            `json:"time_taken"` // seconds
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// SectionResult holds the per-skill breakdown of a Result. The scorer
// currently produces none of these, so the table stays empty until a
// section scorer is plugged in; skill analytics aggregate over it regardless.
type SectionResult struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	ResultID   uint              `json:"result_id" gorm:"not null;index"`
	Skill      string            `json:"skill" gorm:"not null;index"` // "listening", "reading", "writing", "speaking"
	Raw        int               `json:"raw"`
	Band       float64           `json:"band"`
	Percentage float64           `json:"percentage"`
	Questions  []SectionQuestion `json:"questions,omitempty" gorm:"foreignKey:SectionResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

type SectionQuestion struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	SectionResultID uint           `json:"section_result_id" gorm:"not null;index"`
	QuestionID      string         `json:"question_id" gorm:"not null"`
	IsCorrect       bool           `json:"is_correct"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
