//go:generate mockery --name SessionRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"
	"time"

	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository は追記専用のセッションログへのアクセスを抽象化します。
// Update/Deleteは提供しません。セッションは作成後に変更されないためです。
type SessionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, session *model.Session) error
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Session, error)
	FindRecentByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID, limit int) ([]*model.Session, error)
	FindByStudentSince(ctx context.Context, db *gorm.DB, studentID uuid.UUID, since time.Time) ([]*model.Session, error)
	FindRecentByTherapist(ctx context.Context, db *gorm.DB, therapistID uuid.UUID, limit int) ([]*model.Session, error)
	CountByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (int64, error)
}

type gormSessionRepository struct{}

func NewGormSessionRepository() SessionRepository {
	return &gormSessionRepository{}
}

func (r *gormSessionRepository) Create(ctx context.Context, tx *gorm.DB, session *model.Session) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(session)
	if result.Error != nil {
		logger.Error("Error creating session in DB",
			"error", result.Error,
			"student_id", session.StudentID.String(),
		)
		return fmt.Errorf("gormSessionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormSessionRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Session, error) {
	logger := middleware.GetLogger(ctx)
	var sessions []*model.Session
	result := db.WithContext(ctx).Where("student_id = ?", studentID).Order("created_at ASC").Find(&sessions)
	if result.Error != nil {
		logger.Error("Error finding sessions by student in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormSessionRepository.FindByStudent: %w", result.Error)
	}
	return sessions, nil
}

func (r *gormSessionRepository) FindRecentByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID, limit int) ([]*model.Session, error) {
	logger := middleware.GetLogger(ctx)
	var sessions []*model.Session
	result := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions)
	if result.Error != nil {
		logger.Error("Error finding recent sessions by student in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormSessionRepository.FindRecentByStudent: %w", result.Error)
	}
	return sessions, nil
}

func (r *gormSessionRepository) FindByStudentSince(ctx context.Context, db *gorm.DB, studentID uuid.UUID, since time.Time) ([]*model.Session, error) {
	logger := middleware.GetLogger(ctx)
	var sessions []*model.Session
	result := db.WithContext(ctx).
		Where("student_id = ? AND created_at >= ?", studentID, since).
		Order("created_at ASC").
		Find(&sessions)
	if result.Error != nil {
		logger.Error("Error finding sessions since in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormSessionRepository.FindByStudentSince: %w", result.Error)
	}
	return sessions, nil
}

// FindRecentByTherapist はこのセラピスト自身が担当したセッションを新しい順に返します。
func (r *gormSessionRepository) FindRecentByTherapist(ctx context.Context, db *gorm.DB, therapistID uuid.UUID, limit int) ([]*model.Session, error) {
	logger := middleware.GetLogger(ctx)
	var sessions []*model.Session
	result := db.WithContext(ctx).
		Where("therapist_id = ?", therapistID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions)
	if result.Error != nil {
		logger.Error("Error finding recent sessions by therapist in DB",
			"error", result.Error,
			"therapist_id", therapistID.String(),
		)
		return nil, fmt.Errorf("gormSessionRepository.FindRecentByTherapist: %w", result.Error)
	}
	return sessions, nil
}

func (r *gormSessionRepository) CountByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Session{}).Where("student_id = ?", studentID).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting sessions by student in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return 0, fmt.Errorf("gormSessionRepository.CountByStudent: %w", result.Error)
	}
	return count, nil
}
