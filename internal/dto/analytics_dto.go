package dto

import "time"

// OverallStatsDTO aggregates a user's results over a trailing window.
type OverallStatsDTO struct {
	TotalTests     int64   `json:"totalTests"`
	AvgOverallBand float64 `json:"avgOverallBand"`
	HighestBand    float64 `json:"highestBand"`
	LowestBand     float64 `json:"lowestBand"`
	TotalTime      int64   `json:"totalTime"` // seconds
}

// SkillStatDTO is one skill's aggregate over the window.
type SkillStatDTO struct {
	Skill       string  `json:"skill"`
	AvgBand     float64 `json:"avgBand"`
	HighestBand float64 `json:"highestBand"`
	TestCount   int64   `json:"testCount"`
}

// ProgressPointDTO is one calendar day's aggregate.
type ProgressPointDTO struct {
	Date      string  `json:"date"` // YYYY-MM-DD, UTC
	AvgBand   float64 `json:"avgBand"`
	TestCount int64   `json:"testCount"`
}

// StatisticsDTO is the statistics endpoint payload.
type StatisticsDTO struct {
	Overall  OverallStatsDTO    `json:"overall"`
	BySkill  []SkillStatDTO     `json:"bySkill"`
	Progress []ProgressPointDTO `json:"progress"`
}

// LeaderboardEntryDTO is one ranked user on the leaderboard.
type LeaderboardEntryDTO struct {
	UserID     uint      `json:"userId"`
	Name       string    `json:"name"`
	AvgBand    float64   `json:"avgBand"`
	TestCount  int64     `json:"testCount"`
	LatestTest time.Time `json:"latestTest"`
}
