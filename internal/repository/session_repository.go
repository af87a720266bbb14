package repository

import (
	"time"

	"github.com/hxann/bandprep/internal/model"
	"gorm.io/gorm"
)

// SessionFilter narrows a user's session listing.
type SessionFilter struct {
	Status    string
	Type      string
	Skill     string
	StartDate *time.Time
	EndDate   *time.Time
}

// SessionStatsRow summarizes a filtered session set.
type SessionStatsRow struct {
	TotalSessions  int64
	TotalCompleted int64
	TotalDuration  int64
	AvgScore       float64
}

type SessionRepository interface {
	Create(session *model.PracticeSession) error
	Update(session *model.PracticeSession) error
	FindByID(id uint) (*model.PracticeSession, error)
	FindByIDWithAnswers(id uint) (*model.PracticeSession, error)
	FindActiveByUser(userID uint) (*model.PracticeSession, error)
	FindAllByUser(userID uint, filter SessionFilter, offset, limit int) ([]model.PracticeSession, int64, error)
	Stats(userID uint, filter SessionFilter) (*SessionStatsRow, error)
	AppendAnswers(sessionID uint, answers []model.SessionAnswer) error
	ReplaceAnswers(sessionID uint, answers []model.SessionAnswer) error
	Delete(id uint) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.PracticeSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) Update(session *model.PracticeSession) error {
	// Save also persists loaded answer associations.
	return r.db.Save(session).Error
}

func (r *sessionRepository) FindByID(id uint) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.db.First(&session, id).Error
	return &session, err
}

func (r *sessionRepository) FindByIDWithAnswers(id uint) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.db.
		Preload("Test").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("session_answers.id ASC")
		}).
		First(&session, id).Error
	return &session, err
}

// FindActiveByUser returns the most recently created session still in the
// started state. Best effort: nothing stops two started sessions from
// coexisting, callers must not treat this as a lock.
func (r *sessionRepository) FindActiveByUser(userID uint) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.db.
		Preload("Test").
		Preload("Answers").
		Where("user_id = ? AND status = ?", userID, model.SessionStarted).
		Order("created_at DESC").
		First(&session).Error
	return &session, err
}

func (r *sessionRepository) sessionFilter(userID uint, filter SessionFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.Type != "" {
			db = db.Where("type = ?", filter.Type)
		}
		if filter.Skill != "" {
			db = db.Where("skill = ?", filter.Skill)
		}
		if filter.StartDate != nil {
			db = db.Where("created_at >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			db = db.Where("created_at <= ?", *filter.EndDate)
		}
		return db
	}
}

func (r *sessionRepository) FindAllByUser(userID uint, filter SessionFilter, offset, limit int) ([]model.PracticeSession, int64, error) {
	scope := r.sessionFilter(userID, filter)

	var total int64
	if err := scope(r.db.Model(&model.PracticeSession{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.PracticeSession
	err := scope(r.db).
		Preload("Test").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *sessionRepository) Stats(userID uint, filter SessionFilter) (*SessionStatsRow, error) {
	var row SessionStatsRow
	err := r.sessionFilter(userID, filter)(r.db.Model(&model.PracticeSession{})).
		Select("COUNT(*) as total_sessions, " +
			"COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) as total_completed, " +
			"COALESCE(SUM(duration), 0) as total_duration, " +
			"COALESCE(AVG(score_band), 0) as avg_score").
		Scan(&row).Error
	return &row, err
}

// AppendAnswers adds answer rows to an existing session without touching
// the rows already there.
func (r *sessionRepository) AppendAnswers(sessionID uint, answers []model.SessionAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	for i := range answers {
		answers[i].SessionID = sessionID
	}
	return r.db.Create(&answers).Error
}

// ReplaceAnswers swaps the session's answer sequence for the given one.
func (r *sessionRepository) ReplaceAnswers(sessionID uint, answers []model.SessionAnswer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.SessionAnswer{}).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].ID = 0
			answers[i].SessionID = sessionID
		}
		return tx.Create(&answers).Error
	})
}

func (r *sessionRepository) Delete(id uint) error {
	return r.db.Delete(&model.PracticeSession{}, id).Error
}
