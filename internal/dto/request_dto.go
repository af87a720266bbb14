package dto

import "time"

// AnswerDTO is a single submitted answer. Correctness and timing arrive
// pre-marked from the client-side marking step; missing values default to
// false / 0 when normalized into the session or result.
type AnswerDTO struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"isCorrect"`
	TimeTaken  int    `json:"timeTaken" binding:"omitempty,min=0"`
}

// SubmitResultDTO is the request body for submitting a finished full test.
type SubmitResultDTO struct {
	Test      uint        `json:"test" binding:"required"`
	Answers   []AnswerDTO `json:"answers" binding:"required,dive"`
	TimeTaken int         `json:"timeTaken" binding:"omitempty,min=0"`
}

// StartSessionDTO starts a new practice session.
type StartSessionDTO struct {
	Type     string `json:"type" binding:"required,oneof=full-test section question practice"`
	Test     *uint  `json:"test"`
	Section  *uint  `json:"section"`
	Question *uint  `json:"question"`
	Skill    string `json:"skill" binding:"omitempty,oneof=listening reading writing speaking overall"`
}

// UpdateSessionDTO mutates an open session: replaces answers, transitions
// status, or sets an explicit end time.
type UpdateSessionDTO struct {
	Answers []AnswerDTO `json:"answers" binding:"omitempty,dive"`
	Status  string      `json:"status" binding:"omitempty,oneof=started completed paused abandoned"`
	EndTime *time.Time  `json:"endTime"`
}

// SubmitAnswersDTO appends a batch of answers to an open session.
type SubmitAnswersDTO struct {
	SessionID uint        `json:"sessionId" binding:"required"`
	Answers   []AnswerDTO `json:"answers" binding:"required,dive"`
}

// TestCreateDTO is for admins to register a test in the catalog.
type TestCreateDTO struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Type        string   `json:"type" binding:"required,oneof=academic general-training"`
	Skills      []string `json:"skills" binding:"omitempty,dive,oneof=listening reading writing speaking"`
	Status      string   `json:"status" binding:"omitempty,oneof=draft published archived"`
}
