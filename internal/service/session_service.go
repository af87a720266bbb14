package service

import (
	"errors"
	"math"
	"time"

	"github.com/hxann/bandprep/internal/apperror"
	"github.com/hxann/bandprep/internal/dto"
	"github.com/hxann/bandprep/internal/model"
	"github.com/hxann/bandprep/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SessionService owns the practice session lifecycle. Every operation that
// reads or mutates a session re-checks that the authenticated user owns it;
// ownership is never taken from the request payload.
type SessionService interface {
	StartSession(userID uint, req dto.StartSessionDTO) (*dto.SessionDTO, error)
	UpdateSession(id, userID uint, req dto.UpdateSessionDTO) (*dto.SessionDTO, error)
	GetActiveSession(userID uint) (*dto.SessionDTO, error)
	GetSessionByID(id, userID uint) (*dto.SessionDTO, error)
	GetUserSessions(userID uint, filter repository.SessionFilter, page, limit int) (*dto.SessionListDTO, error)
	GetSessionProgress(id, userID uint) (*dto.SessionProgressDTO, error)
	SubmitAnswers(userID uint, req dto.SubmitAnswersDTO) (*dto.SubmitAnswersResultDTO, error)
	DeleteSession(id, userID uint) error
}

type sessionService struct {
	sessionRepo repository.SessionRepository
}

func NewSessionService(sessionRepo repository.SessionRepository) SessionService {
	return &sessionService{sessionRepo: sessionRepo}
}

func (s *sessionService) StartSession(userID uint, req dto.StartSessionDTO) (*dto.SessionDTO, error) {
	if req.Type == "" {
		return nil, apperror.Validation("Practice type is required")
	}

	session := model.PracticeSession{
		UserID:     userID,
		TestID:     req.Test,
		SectionID:  req.Section,
		QuestionID: req.Question,
		Type:       req.Type,
		Skill:      req.Skill,
		StartTime:  time.Now(),
		Status:     model.SessionStarted,
	}
	if err := s.sessionRepo.Create(&session); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("StartSession: create failed")
		return nil, apperror.Internal("Failed to start practice session").WithCause(err)
	}
	return s.sessionToDTO(&session, true, nil), nil
}

// UpdateSession replaces answers and/or transitions the session status.
// Completing without an explicit end time stamps now; an explicit end time
// recomputes duration from the stored start time either way.
func (s *sessionService) UpdateSession(id, userID uint, req dto.UpdateSessionDTO) (*dto.SessionDTO, error) {
	session, err := s.ownedSession(id, userID)
	if err != nil {
		return nil, err
	}

	if req.Answers != nil {
		if err := s.sessionRepo.ReplaceAnswers(session.ID, normalizeAnswers(req.Answers)); err != nil {
			log.Error().Err(err).Uint("sessionID", id).Msg("UpdateSession: answer replace failed")
			return nil, apperror.Internal("Failed to update session answers").WithCause(err)
		}
	}

	if req.Status != "" {
		session.Status = req.Status
		if req.Status == model.SessionCompleted && req.EndTime == nil {
			now := time.Now()
			session.EndTime = &now
			session.Duration = int(now.Sub(session.StartTime).Seconds())
		}
	}
	if req.EndTime != nil {
		end := *req.EndTime
		session.EndTime = &end
		session.Duration = int(end.Sub(session.StartTime).Seconds())
	}

	session.Answers = nil // answers were written separately, keep Save from re-inserting
	if err := s.sessionRepo.Update(session); err != nil {
		log.Error().Err(err).Uint("sessionID", id).Msg("UpdateSession: save failed")
		return nil, apperror.Internal("Failed to update practice session").WithCause(err)
	}

	updated, err := s.sessionRepo.FindByIDWithAnswers(session.ID)
	if err != nil {
		log.Warn().Err(err).Uint("sessionID", id).Msg("UpdateSession: reload failed, answering from in-memory state")
		return s.sessionToDTO(session, true, nil), nil
	}
	return s.sessionToDTO(updated, true, nil), nil
}

func (s *sessionService) GetActiveSession(userID uint) (*dto.SessionDTO, error) {
	session, err := s.sessionRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("No active session found")
		}
		log.Error().Err(err).Uint("userID", userID).Msg("GetActiveSession: repository error")
		return nil, apperror.Internal("Failed to fetch active session").WithCause(err)
	}
	elapsed := int(time.Since(session.StartTime).Seconds())
	return s.sessionToDTO(session, true, &elapsed), nil
}

func (s *sessionService) GetSessionByID(id, userID uint) (*dto.SessionDTO, error) {
	session, err := s.ownedSessionWithAnswers(id, userID)
	if err != nil {
		return nil, err
	}
	return s.sessionToDTO(session, true, nil), nil
}

func (s *sessionService) GetUserSessions(userID uint, filter repository.SessionFilter, page, limit int) (*dto.SessionListDTO, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	sessions, total, err := s.sessionRepo.FindAllByUser(userID, filter, (page-1)*limit, limit)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserSessions: repository error")
		return nil, apperror.Internal("Failed to fetch practice sessions").WithCause(err)
	}
	stats, err := s.sessionRepo.Stats(userID, filter)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserSessions: stats query failed")
		return nil, apperror.Internal("Failed to compute session statistics").WithCause(err)
	}

	list := dto.SessionListDTO{
		Sessions: make([]dto.SessionSummaryDTO, 0, len(sessions)),
		Pagination: dto.PaginationDTO{
			CurrentPage:  page,
			TotalPages:   int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:   total,
			ItemsPerPage: limit,
		},
		Statistics: dto.SessionStatsDTO{
			TotalSessions:  stats.TotalSessions,
			TotalCompleted: stats.TotalCompleted,
			TotalDuration:  stats.TotalDuration,
			AvgScore:       stats.AvgScore,
		},
	}
	for i := range sessions {
		sess := &sessions[i]
		summary := dto.SessionSummaryDTO{
			ID:        sess.ID,
			TestID:    sess.TestID,
			Type:      sess.Type,
			Skill:     sess.Skill,
			StartTime: sess.StartTime,
			EndTime:   sess.EndTime,
			Duration:  sess.Duration,
			Status:    sess.Status,
			CreatedAt: sess.CreatedAt,
		}
		summary.Score = scoreDTO(sess)
		list.Sessions = append(list.Sessions, summary)
	}
	return &list, nil
}

// GetSessionProgress derives the read-only progress view. Rates guard the
// zero-question case instead of dividing by zero.
func (s *sessionService) GetSessionProgress(id, userID uint) (*dto.SessionProgressDTO, error) {
	session, err := s.ownedSessionWithAnswers(id, userID)
	if err != nil {
		return nil, err
	}

	totalQuestions := len(session.Answers)
	answered := 0
	correct := 0
	for _, ans := range session.Answers {
		if ans.Answer != "" {
			answered++
		}
		if ans.IsCorrect {
			correct++
		}
	}

	timeSpent := int(time.Since(session.StartTime).Seconds())
	if session.EndTime != nil {
		timeSpent = int(session.EndTime.Sub(session.StartTime).Seconds())
	}

	progress := dto.SessionProgressDTO{
		TotalQuestions:    totalQuestions,
		AnsweredQuestions: answered,
		CorrectAnswers:    correct,
		TimeSpent:         timeSpent,
	}
	if totalQuestions > 0 {
		progress.Accuracy = float64(correct) / float64(totalQuestions) * 100
		progress.CompletionRate = float64(answered) / float64(totalQuestions) * 100
	}
	return &progress, nil
}

// SubmitAnswers appends a batch to the session's answer sequence. Appends
// never replace what is already recorded.
func (s *sessionService) SubmitAnswers(userID uint, req dto.SubmitAnswersDTO) (*dto.SubmitAnswersResultDTO, error) {
	session, err := s.ownedSession(req.SessionID, userID)
	if err != nil {
		return nil, err
	}

	recent := normalizeAnswers(req.Answers)
	if err := s.sessionRepo.AppendAnswers(session.ID, recent); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("SubmitAnswers: append failed")
		return nil, apperror.Internal("Failed to submit answers").WithCause(err)
	}

	updated, err := s.sessionRepo.FindByIDWithAnswers(session.ID)
	if err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("SubmitAnswers: reload failed")
		return nil, apperror.Internal("Failed to load session answers").WithCause(err)
	}

	ack := dto.SubmitAnswersResultDTO{
		TotalAnswers:  len(updated.Answers),
		RecentAnswers: make([]dto.AnswerRecordDTO, 0, len(recent)),
	}
	if err := copier.Copy(&ack.RecentAnswers, &recent); err != nil {
		log.Warn().Err(err).Uint("sessionID", session.ID).Msg("SubmitAnswers: answer copy failed")
	}
	return &ack, nil
}

func (s *sessionService) DeleteSession(id, userID uint) error {
	session, err := s.ownedSession(id, userID)
	if err != nil {
		return err
	}
	if session.Status == model.SessionCompleted {
		return apperror.Validation("Cannot delete completed sessions")
	}
	if err := s.sessionRepo.Delete(session.ID); err != nil {
		log.Error().Err(err).Uint("sessionID", id).Msg("DeleteSession: delete failed")
		return apperror.Internal("Failed to delete practice session").WithCause(err)
	}
	return nil
}

func (s *sessionService) ownedSession(id, userID uint) (*model.PracticeSession, error) {
	session, err := s.sessionRepo.FindByID(id)
	return s.checkOwnership(session, err, id, userID)
}

func (s *sessionService) ownedSessionWithAnswers(id, userID uint) (*model.PracticeSession, error) {
	session, err := s.sessionRepo.FindByIDWithAnswers(id)
	return s.checkOwnership(session, err, id, userID)
}

func (s *sessionService) checkOwnership(session *model.PracticeSession, err error, id, userID uint) (*model.PracticeSession, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Practice session not found")
		}
		log.Error().Err(err).Uint("sessionID", id).Msg("session lookup failed")
		return nil, apperror.Internal("Failed to fetch practice session").WithCause(err)
	}
	if session.UserID != userID {
		return nil, apperror.Forbidden("Access denied")
	}
	return session, nil
}

// normalizeAnswers maps submitted answers onto stored records, defaulting
// missing correctness to false and missing timing to zero.
func normalizeAnswers(answers []dto.AnswerDTO) []model.SessionAnswer {
	normalized := make([]model.SessionAnswer, 0, len(answers))
	for _, ans := range answers {
		timeTaken := ans.TimeTaken
		if timeTaken < 0 {
			timeTaken = 0
		}
		normalized = append(normalized, model.SessionAnswer{
			QuestionID: ans.QuestionID,
			Answer:     ans.Answer,
			IsCorrect:  ans.IsCorrect,
			TimeTaken:  timeTaken,
		})
	}
	return normalized
}

func scoreDTO(session *model.PracticeSession) *dto.ScoreDTO {
	if session.ScoreBand == nil {
		return nil
	}
	score := dto.ScoreDTO{Band: *session.ScoreBand}
	if session.ScoreRaw != nil {
		score.Raw = *session.ScoreRaw
	}
	if session.ScorePct != nil {
		score.Percentage = *session.ScorePct
	}
	return &score
}

func (s *sessionService) sessionToDTO(session *model.PracticeSession, withAnswers bool, timeElapsed *int) *dto.SessionDTO {
	out := dto.SessionDTO{
		ID:          session.ID,
		UserID:      session.UserID,
		TestID:      session.TestID,
		SectionID:   session.SectionID,
		QuestionID:  session.QuestionID,
		Type:        session.Type,
		Skill:       session.Skill,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
		Duration:    session.Duration,
		Status:      session.Status,
		TimeElapsed: timeElapsed,
		CreatedAt:   session.CreatedAt,
	}
	out.Score = scoreDTO(session)
	if withAnswers && len(session.Answers) > 0 {
		out.Answers = make([]dto.AnswerRecordDTO, 0, len(session.Answers))
		if err := copier.Copy(&out.Answers, &session.Answers); err != nil {
			log.Warn().Err(err).Uint("sessionID", session.ID).Msg("sessionToDTO: answer copy failed")
		}
	}
	return &out
}
