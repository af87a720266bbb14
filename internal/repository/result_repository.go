package repository

import (
	"time"

	"github.com/hxann/bandprep/internal/model"
	"gorm.io/gorm"
)

// OverallStatsRow aggregates a user's results over a trailing window.
type OverallStatsRow struct {
	TotalTests     int64
	AvgOverallBand float64
	HighestBand    float64
	LowestBand     float64
	TotalTime      int64
}

// SkillStatsRow is one skill's aggregate over section results.
type SkillStatsRow struct {
	Skill       string
	AvgBand     float64
	HighestBand float64
	TestCount   int64
}

type ResultRepository interface {
	Create(result *model.Result) error
	FindByID(id uint) (*model.Result, error)
	FindByIDWithDetails(id uint) (*model.Result, error)
	FindAllByUser(userID uint, testID *uint, offset, limit int) ([]model.Result, int64, error)
	OverallStats(userID uint, since time.Time) (*OverallStatsRow, error)
	SkillStats(userID uint, since time.Time) ([]SkillStatsRow, error)
	FindInWindowByUser(userID uint, since time.Time) ([]model.Result, error)
	FindInWindow(since time.Time) ([]model.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(result *model.Result) error {
	// GORM creates the associated answer and section rows with the result.
	return r.db.Create(result).Error
}

func (r *resultRepository) FindByID(id uint) (*model.Result, error) {
	var result model.Result
	err := r.db.First(&result, id).Error
	return &result, err
}

func (r *resultRepository) FindByIDWithDetails(id uint) (*model.Result, error) {
	var result model.Result
	err := r.db.
		Preload("Test").
		Preload("Answers").
		Preload("SectionResults.Questions").
		First(&result, id).Error
	return &result, err
}

// FindAllByUser returns a page of the user's results newest first, answers
// not loaded, test metadata joined for the summary view.
func (r *resultRepository) FindAllByUser(userID uint, testID *uint, offset, limit int) ([]model.Result, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if testID != nil {
			db = db.Where("test_id = ?", *testID)
		}
		return db
	}

	var total int64
	if err := filter(r.db.Model(&model.Result{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []model.Result
	err := filter(r.db).
		Preload("Test").
		Order("submitted_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error
	return results, total, err
}

func (r *resultRepository) OverallStats(userID uint, since time.Time) (*OverallStatsRow, error) {
	var row OverallStatsRow
	err := r.db.Model(&model.Result{}).
		Where("user_id = ? AND submitted_at >= ?", userID, since).
		Select("COUNT(*) as total_tests, " +
			"COALESCE(AVG(total_band), 0) as avg_overall_band, " +
			"COALESCE(MAX(total_band), 0) as highest_band, " +
			"COALESCE(MIN(total_band), 0) as lowest_band, " +
			"COALESCE(SUM(time_taken), 0) as total_time").
		Scan(&row).Error
	return &row, err
}

func (r *resultRepository) SkillStats(userID uint, since time.Time) ([]SkillStatsRow, error) {
	var rows []SkillStatsRow
	err := r.db.Table("section_results sr").
		Select("sr.skill as skill, AVG(sr.band) as avg_band, MAX(sr.band) as highest_band, COUNT(*) as test_count").
		Joins("JOIN results res ON res.id = sr.result_id").
		Where("res.user_id = ? AND res.submitted_at >= ? AND res.deleted_at IS NULL AND sr.deleted_at IS NULL", userID, since).
		Group("sr.skill").
		Order("avg_band DESC").
		Scan(&rows).Error
	return rows, err
}

// FindInWindowByUser loads the slim result rows (band, timestamp) one
// user contributed inside the window, oldest first. Grouping happens in
// the analytics layer.
func (r *resultRepository) FindInWindowByUser(userID uint, since time.Time) ([]model.Result, error) {
	var results []model.Result
	err := r.db.
		Select("id", "user_id", "total_band", "submitted_at").
		Where("user_id = ? AND submitted_at >= ?", userID, since).
		Order("submitted_at ASC").
		Find(&results).Error
	return results, err
}

// FindInWindow loads the slim result rows of all users inside the window.
func (r *resultRepository) FindInWindow(since time.Time) ([]model.Result, error) {
	var results []model.Result
	err := r.db.
		Select("id", "user_id", "total_band", "submitted_at").
		Where("submitted_at >= ?", since).
		Order("submitted_at ASC").
		Find(&results).Error
	return results, err
}
