package service

import (
	"sort"
	"time"

	"github.com/hxann/bandprep/internal/apperror"
	"github.com/hxann/bandprep/internal/dto"
	"github.com/hxann/bandprep/internal/model"
	"github.com/hxann/bandprep/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	DefaultStatisticsDays  = 90
	DefaultLeaderboardDays = 30
	DefaultLeaderboardSize = 10
)

// AnalyticsService is the read side over recorded results: windowed user
// statistics, per-skill aggregates, daily trend and the leaderboard.
// Every aggregate answers zero values or an empty list for an empty
// window, never an error.
type AnalyticsService interface {
	GetUserStatistics(userID uint, days int) (*dto.StatisticsDTO, error)
	GetLeaderboard(days, limit int) ([]dto.LeaderboardEntryDTO, error)
}

type analyticsService struct {
	resultRepo repository.ResultRepository
	userRepo   repository.UserRepository
}

func NewAnalyticsService(resultRepo repository.ResultRepository, userRepo repository.UserRepository) AnalyticsService {
	return &analyticsService{resultRepo: resultRepo, userRepo: userRepo}
}

func (s *analyticsService) GetUserStatistics(userID uint, days int) (*dto.StatisticsDTO, error) {
	if days < 1 {
		days = DefaultStatisticsDays
	}
	since := time.Now().AddDate(0, 0, -days)

	overall, err := s.resultRepo.OverallStats(userID, since)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserStatistics: overall aggregate failed")
		return nil, apperror.Internal("Failed to compute statistics").WithCause(err)
	}
	skillRows, err := s.resultRepo.SkillStats(userID, since)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserStatistics: skill aggregate failed")
		return nil, apperror.Internal("Failed to compute skill statistics").WithCause(err)
	}
	windowed, err := s.resultRepo.FindInWindowByUser(userID, since)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserStatistics: window query failed")
		return nil, apperror.Internal("Failed to compute progress trend").WithCause(err)
	}

	stats := dto.StatisticsDTO{
		Overall: dto.OverallStatsDTO{
			TotalTests:     overall.TotalTests,
			AvgOverallBand: overall.AvgOverallBand,
			HighestBand:    overall.HighestBand,
			LowestBand:     overall.LowestBand,
			TotalTime:      overall.TotalTime,
		},
		BySkill:  make([]dto.SkillStatDTO, 0, len(skillRows)),
		Progress: progressTrend(windowed),
	}
	for _, row := range skillRows {
		stats.BySkill = append(stats.BySkill, dto.SkillStatDTO{
			Skill:       row.Skill,
			AvgBand:     row.AvgBand,
			HighestBand: row.HighestBand,
			TestCount:   row.TestCount,
		})
	}
	return &stats, nil
}

// progressTrend buckets results by UTC calendar day, ascending.
func progressTrend(results []model.Result) []dto.ProgressPointDTO {
	type bucket struct {
		sum   float64
		count int64
	}
	byDay := make(map[string]*bucket)
	for _, res := range results {
		day := res.SubmittedAt.UTC().Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}
		b.sum += res.TotalBand
		b.count++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]dto.ProgressPointDTO, 0, len(days))
	for _, day := range days {
		b := byDay[day]
		points = append(points, dto.ProgressPointDTO{
			Date:      day,
			AvgBand:   b.sum / float64(b.count),
			TestCount: b.count,
		})
	}
	return points
}

func (s *analyticsService) GetLeaderboard(days, limit int) ([]dto.LeaderboardEntryDTO, error) {
	if days < 1 {
		days = DefaultLeaderboardDays
	}
	if limit < 1 {
		limit = DefaultLeaderboardSize
	}
	since := time.Now().AddDate(0, 0, -days)

	windowed, err := s.resultRepo.FindInWindow(since)
	if err != nil {
		log.Error().Err(err).Msg("GetLeaderboard: window query failed")
		return nil, apperror.Internal("Failed to compute leaderboard").WithCause(err)
	}

	type standing struct {
		userID uint
		sum    float64
		count  int64
		latest time.Time
	}
	byUser := make(map[uint]*standing)
	for _, res := range windowed {
		st, ok := byUser[res.UserID]
		if !ok {
			st = &standing{userID: res.UserID}
			byUser[res.UserID] = st
		}
		st.sum += res.TotalBand
		st.count++
		if res.SubmittedAt.After(st.latest) {
			st.latest = res.SubmittedAt
		}
	}

	standings := make([]*standing, 0, len(byUser))
	for _, st := range byUser {
		standings = append(standings, st)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].sum/float64(standings[i].count) > standings[j].sum/float64(standings[j].count)
	})
	if len(standings) > limit {
		standings = standings[:limit]
	}

	ids := make([]uint, 0, len(standings))
	for _, st := range standings {
		ids = append(ids, st.userID)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		log.Error().Err(err).Msg("GetLeaderboard: user lookup failed")
		return nil, apperror.Internal("Failed to compute leaderboard").WithCause(err)
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	board := make([]dto.LeaderboardEntryDTO, 0, len(standings))
	for _, st := range standings {
		board = append(board, dto.LeaderboardEntryDTO{
			UserID:     st.userID,
			Name:       names[st.userID],
			AvgBand:    st.sum / float64(st.count),
			TestCount:  st.count,
			LatestTest: st.latest,
		})
	}
	return board, nil
}
