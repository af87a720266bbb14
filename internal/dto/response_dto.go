package dto

import "time"

// Response is the success envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func OKMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// ScoreDTO is a normalized score triple.
type ScoreDTO struct {
	Raw        int     `json:"raw"`
	Band       float64 `json:"band"`
	Percentage float64 `json:"percentage"`
}

// AnswerRecordDTO mirrors a stored answer record.
type AnswerRecordDTO struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"isCorrect"`
	TimeTaken  int    `json:"timeTaken"`
}

type SectionQuestionDTO struct {
	QuestionID string `json:"questionId"`
	IsCorrect  bool   `json:"isCorrect"`
}

type SectionResultDTO struct {
	Skill     string               `json:"skill"`
	Score     ScoreDTO             `json:"score"`
	Questions []SectionQuestionDTO `json:"questions"`
}

// ResultDetailDTO is the full view of a finalized submission.
type ResultDetailDTO struct {
	ID             uint               `json:"id"`
	UserID         uint               `json:"userId"`
	TestID         uint               `json:"testId"`
	TestTitle      string             `json:"testTitle,omitempty"`
	TestType       string             `json:"testType,omitempty"`
	Answers        []AnswerRecordDTO  `json:"answers"`
	TotalScore     ScoreDTO           `json:"totalScore"`
	SectionResults []SectionResultDTO `json:"sectionResults"`
	TimeTaken      int                `json:"timeTaken"`
	SubmittedAt    time.Time          `json:"submittedAt"`
	StartedAt      time.Time          `json:"startedAt"`
}

// ResultSummaryDTO is a list entry with the answer sequence stripped.
type ResultSummaryDTO struct {
	ID          uint      `json:"id"`
	TestID      uint      `json:"testId"`
	TestTitle   string    `json:"testTitle,omitempty"`
	TestType    string    `json:"testType,omitempty"`
	TotalScore  ScoreDTO  `json:"totalScore"`
	TimeTaken   int       `json:"timeTaken"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type PaginationDTO struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

type ResultListDTO struct {
	Results    []ResultSummaryDTO `json:"results"`
	Pagination PaginationDTO      `json:"pagination"`
}

// TestSummaryDTO lists catalog entries.
type TestSummaryDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Skills      []string  `json:"skills,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
