// internal/service/student_service.go
package service

import (
	"context"
	"errors"
	"time"

	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"
	"flexifun_server/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentService は生徒自身のプロフィール・進捗台帳・統計を提供します。
// 可視範囲は常に本人のみです。
type StudentService interface {
	GetProfile(ctx context.Context, studentID uuid.UUID) (*model.Student, error)
	UpdateProfile(ctx context.Context, studentID uuid.UUID, req *model.UpdateProfileRequest) (*model.Student, error)
	GetProgress(ctx context.Context, studentID uuid.UUID) ([]*model.GameProgress, error)
	UpdateProgress(ctx context.Context, studentID uuid.UUID, req *model.UpdateProgressRequest) (*model.GameProgress, error)
	RecordSession(ctx context.Context, studentID uuid.UUID, req *model.RecordSessionRequest) (*model.Session, error)
	GetStats(ctx context.Context, studentID uuid.UUID) (*model.StudentStatsResponse, error)
}

type studentService struct {
	db           *gorm.DB
	studentRepo  repository.StudentRepository
	progressRepo repository.ProgressRepository
	sessionRepo  repository.SessionRepository
}

func NewStudentService(db *gorm.DB, studentRepo repository.StudentRepository, progressRepo repository.ProgressRepository, sessionRepo repository.SessionRepository) StudentService {
	return &studentService{
		db:           db,
		studentRepo:  studentRepo,
		progressRepo: progressRepo,
		sessionRepo:  sessionRepo,
	}
}

func (s *studentService) GetProfile(ctx context.Context, studentID uuid.UUID) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	student, err := s.studentRepo.FindByID(ctx, s.db, studentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Student not found", "student_id", studentID.String())
			return nil, model.NewAppError("STUDENT_NOT_FOUND", "Student not found", "", model.ErrNotFound)
		}
		logger.Error("Error finding student", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch profile", "", err)
	}
	return student, nil
}

// UpdateProfile は送られてきたフィールドだけを部分更新します。
func (s *studentService) UpdateProfile(ctx context.Context, studentID uuid.UUID, req *model.UpdateProfileRequest) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.SoundEnabled != nil {
		updates["sound_enabled"] = *req.SoundEnabled
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.studentRepo.Update(ctx, tx, studentID, updates)
		})
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NewAppError("STUDENT_NOT_FOUND", "Student not found", "", model.ErrNotFound)
			}
			logger.Error("Error updating student profile", "error", err)
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update profile", "", err)
		}
	}

	return s.GetProfile(ctx, studentID)
}

func (s *studentService) GetProgress(ctx context.Context, studentID uuid.UUID) ([]*model.GameProgress, error) {
	logger := middleware.GetLogger(ctx)
	progresses, err := s.progressRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		logger.Error("Error finding progress", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch progress", "", err)
	}
	return progresses, nil
}

// UpdateProgress は (生徒, モジュール) の進捗をupsertします。
// completed/accuracy は送られたときだけ上書き (0も正当な値として通す)、
// timeSpent は常に加算、lastPlayedAt は現在時刻に更新されます。
// 統計はここでは一切更新しません。すべて読み出し時に計算します。
func (s *studentService) UpdateProgress(ctx context.Context, studentID uuid.UUID, req *model.UpdateProgressRequest) (*model.GameProgress, error) {
	logger := middleware.GetLogger(ctx)

	if !req.ModuleID.IsValid() {
		return nil, model.NewAppError("INVALID_MODULE", "Unknown module id", "moduleId", model.ErrInvalidInput)
	}

	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.progressRepo.Upsert(ctx, tx, studentID, req.ModuleID, req.Completed, req.Accuracy, req.TimeSpent, now)
	})
	if err != nil {
		logger.Error("Error upserting progress", "error", err, "module_id", string(req.ModuleID))
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update progress", "", err)
	}

	progress, err := s.progressRepo.FindByStudentAndModule(ctx, s.db, studentID, req.ModuleID)
	if err != nil {
		logger.Error("Error reading back progress", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update progress", "", err)
	}
	return progress, nil
}

// RecordSession はセッションログへの純粋な追記です。
// 集計の同期更新は行いません (書き込み時キャッシュ無し)。
func (s *studentService) RecordSession(ctx context.Context, studentID uuid.UUID, req *model.RecordSessionRequest) (*model.Session, error) {
	logger := middleware.GetLogger(ctx)

	if !req.ModuleID.IsValid() {
		return nil, model.NewAppError("INVALID_MODULE", "Unknown module id", "moduleId", model.ErrInvalidInput)
	}

	session := &model.Session{
		SessionID:    uuid.New(),
		StudentID:    studentID,
		TherapistID:  req.TherapistID,
		ModuleID:     req.ModuleID,
		Duration:     req.Duration,
		Accuracy:     req.Accuracy,
		PointsEarned: req.PointsEarned,
		Notes:        req.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.sessionRepo.Create(ctx, tx, session)
	})
	if err != nil {
		logger.Error("Error recording session", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to record session", "", err)
	}

	logger.Info("Session recorded", "session_id", session.SessionID, "student_id", studentID.String())
	return session, nil
}

// GetStats は生徒自身のダッシュボード統計を読み出し時に計算します。
// currentStreak だけはセッション履歴から導出せず、保存値をそのまま返します。
func (s *studentService) GetStats(ctx context.Context, studentID uuid.UUID) (*model.StudentStatsResponse, error) {
	logger := middleware.GetLogger(ctx)

	student, err := s.studentRepo.FindByID(ctx, s.db, studentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("STUDENT_NOT_FOUND", "Student not found", "", model.ErrNotFound)
		}
		logger.Error("Error finding student for stats", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch stats", "", err)
	}

	sessions, err := s.sessionRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		logger.Error("Error finding sessions for stats", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch stats", "", err)
	}

	totalMinutes := 0
	totalPoints := 0
	for _, session := range sessions {
		totalMinutes += session.Duration
		totalPoints += session.PointsEarned
	}

	return &model.StudentStatsResponse{
		Student: model.NewStudentResponse(student),
		Stats: model.StudentStats{
			TotalSessions: len(sessions),
			TotalHours:    float64(totalMinutes) / 60,
			CurrentStreak: student.CurrentStreak,
			TotalPoints:   totalPoints,
		},
	}, nil
}
