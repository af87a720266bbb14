package service

import (
	"testing"
	"time"

	"github.com/hxann/bandprep/internal/model"
	"github.com/hxann/bandprep/internal/repository"
	"gorm.io/gorm"
)

func newAnalyticsService(t *testing.T) (AnalyticsService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAnalyticsService(
		repository.NewResultRepository(db),
		repository.NewUserRepository(db),
	), db
}

func seedResult(t *testing.T, db *gorm.DB, userID, testID uint, band float64, timeTaken int, submittedAt time.Time, sections ...model.SectionResult) {
	t.Helper()
	result := model.Result{
		UserID:         userID,
		TestID:         testID,
		TotalBand:      band,
		TimeTaken:      timeTaken,
		SubmittedAt:    submittedAt,
		StartedAt:      submittedAt.Add(-time.Duration(timeTaken) * time.Second),
		SectionResults: sections,
	}
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("seed result: %v", err)
	}
}

func TestGetUserStatistics(t *testing.T) {
	svc, db := newAnalyticsService(t)
	user := seedUser(t, db, "Linh", "linh@example.com")
	tst := seedTest(t, db, "Academic Mock 1")

	now := time.Now().UTC()
	day1 := now.AddDate(0, 0, -5).Truncate(24 * time.Hour).Add(10 * time.Hour)
	day2 := day1.AddDate(0, 0, 1)

	seedResult(t, db, user.ID, tst.ID, 8.0, 600, day1,
		model.SectionResult{Skill: "listening", Band: 8.0})
	seedResult(t, db, user.ID, tst.ID, 7.0, 900, day1.Add(time.Hour),
		model.SectionResult{Skill: "listening", Band: 7.0},
		model.SectionResult{Skill: "reading", Band: 6.5})
	seedResult(t, db, user.ID, tst.ID, 6.0, 300, day2)
	// Outside the window, must not contribute anywhere.
	seedResult(t, db, user.ID, tst.ID, 9.0, 100, now.AddDate(0, 0, -60))

	stats, err := svc.GetUserStatistics(user.ID, 30)
	if err != nil {
		t.Fatalf("GetUserStatistics: %v", err)
	}

	if stats.Overall.TotalTests != 3 {
		t.Errorf("TotalTests = %d, want 3", stats.Overall.TotalTests)
	}
	if stats.Overall.AvgOverallBand != 7.0 {
		t.Errorf("AvgOverallBand = %v, want 7.0", stats.Overall.AvgOverallBand)
	}
	if stats.Overall.HighestBand != 8.0 || stats.Overall.LowestBand != 6.0 {
		t.Errorf("Highest/Lowest = %v/%v, want 8.0/6.0", stats.Overall.HighestBand, stats.Overall.LowestBand)
	}
	if stats.Overall.TotalTime != 1800 {
		t.Errorf("TotalTime = %d, want 1800", stats.Overall.TotalTime)
	}

	bySkill := make(map[string]struct {
		avg   float64
		count int64
	})
	for _, sk := range stats.BySkill {
		bySkill[sk.Skill] = struct {
			avg   float64
			count int64
		}{sk.AvgBand, sk.TestCount}
	}
	if got := bySkill["listening"]; got.avg != 7.5 || got.count != 2 {
		t.Errorf("listening = %+v, want avg 7.5 over 2", got)
	}
	if got := bySkill["reading"]; got.avg != 6.5 || got.count != 1 {
		t.Errorf("reading = %+v, want avg 6.5 over 1", got)
	}

	if len(stats.Progress) != 2 {
		t.Fatalf("progress points = %d, want 2", len(stats.Progress))
	}
	first, second := stats.Progress[0], stats.Progress[1]
	if first.Date != day1.Format("2006-01-02") || first.AvgBand != 7.5 || first.TestCount != 2 {
		t.Errorf("first point = %+v, want %s avg 7.5 over 2", first, day1.Format("2006-01-02"))
	}
	if second.Date != day2.Format("2006-01-02") || second.AvgBand != 6.0 || second.TestCount != 1 {
		t.Errorf("second point = %+v, want %s avg 6.0 over 1", second, day2.Format("2006-01-02"))
	}
}

func TestGetUserStatisticsEmpty(t *testing.T) {
	svc, db := newAnalyticsService(t)
	user := seedUser(t, db, "Minh", "minh@example.com")

	stats, err := svc.GetUserStatistics(user.ID, 0)
	if err != nil {
		t.Fatalf("GetUserStatistics: %v", err)
	}
	if stats.Overall.TotalTests != 0 || stats.Overall.AvgOverallBand != 0 {
		t.Errorf("empty overall = %+v, want zeros", stats.Overall)
	}
	if len(stats.BySkill) != 0 || len(stats.Progress) != 0 {
		t.Errorf("empty stats carry skill/progress entries: %+v", stats)
	}
}

func TestGetLeaderboard(t *testing.T) {
	svc, db := newAnalyticsService(t)
	ace := seedUser(t, db, "Ace", "ace@example.com")
	runner := seedUser(t, db, "Runner", "runner@example.com")
	third := seedUser(t, db, "Third", "third@example.com")
	tst := seedTest(t, db, "Academic Mock 1")

	now := time.Now().UTC()
	inWindow := now.AddDate(0, 0, -3).Truncate(time.Second)
	later := now.AddDate(0, 0, -1).Truncate(time.Second)

	seedResult(t, db, ace.ID, tst.ID, 8.0, 600, inWindow)
	seedResult(t, db, ace.ID, tst.ID, 8.0, 600, later)
	seedResult(t, db, runner.ID, tst.ID, 7.0, 600, inWindow)
	// A stale high score must not lift the runner past the ace.
	seedResult(t, db, runner.ID, tst.ID, 9.0, 600, now.AddDate(0, 0, -60))
	seedResult(t, db, third.ID, tst.ID, 6.0, 600, inWindow)

	board, err := svc.GetLeaderboard(30, 2)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("entries = %d, want 2", len(board))
	}

	top := board[0]
	if top.UserID != ace.ID || top.Name != "Ace" {
		t.Errorf("top entry = %+v, want Ace", top)
	}
	if top.AvgBand != 8.0 || top.TestCount != 2 {
		t.Errorf("top aggregate = avg %v over %d, want 8.0 over 2", top.AvgBand, top.TestCount)
	}
	if !top.LatestTest.Equal(later) {
		t.Errorf("top LatestTest = %v, want %v", top.LatestTest, later)
	}

	if board[1].UserID != runner.ID || board[1].AvgBand != 7.0 || board[1].TestCount != 1 {
		t.Errorf("second entry = %+v, want Runner at 7.0 over 1", board[1])
	}
}

func TestGetLeaderboardEmpty(t *testing.T) {
	svc, _ := newAnalyticsService(t)

	board, err := svc.GetLeaderboard(0, 0)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if board == nil || len(board) != 0 {
		t.Errorf("board = %v, want empty non-nil slice", board)
	}
}
