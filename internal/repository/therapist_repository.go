//go:generate mockery --name TherapistRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TherapistRepository はセラピストと担当割り当てへのアクセスを抽象化します。
type TherapistRepository interface {
	Create(ctx context.Context, tx *gorm.DB, therapist *model.Therapist) error
	FindByID(ctx context.Context, db *gorm.DB, therapistID uuid.UUID) (*model.Therapist, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Therapist, error)
	AssignStudent(ctx context.Context, tx *gorm.DB, therapistID, studentID uuid.UUID) error
	ListAssignedStudentIDs(ctx context.Context, db *gorm.DB, therapistID uuid.UUID) ([]uuid.UUID, error)
	IsAssigned(ctx context.Context, db *gorm.DB, therapistID, studentID uuid.UUID) (bool, error)
}

type gormTherapistRepository struct{}

func NewGormTherapistRepository() TherapistRepository {
	return &gormTherapistRepository{}
}

func (r *gormTherapistRepository) Create(ctx context.Context, tx *gorm.DB, therapist *model.Therapist) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(therapist)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating therapist in DB",
			"error", result.Error,
			"email", therapist.Email,
		)
		return fmt.Errorf("gormTherapistRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormTherapistRepository) FindByID(ctx context.Context, db *gorm.DB, therapistID uuid.UUID) (*model.Therapist, error) {
	logger := middleware.GetLogger(ctx)
	var therapist model.Therapist
	result := db.WithContext(ctx).Where("therapist_id = ?", therapistID).First(&therapist)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding therapist by ID in DB",
			"error", result.Error,
			"therapist_id", therapistID.String(),
		)
		return nil, fmt.Errorf("gormTherapistRepository.FindByID: %w", result.Error)
	}
	return &therapist, nil
}

func (r *gormTherapistRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Therapist, error) {
	logger := middleware.GetLogger(ctx)
	var therapist model.Therapist
	result := db.WithContext(ctx).Where("email = ?", email).First(&therapist)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding therapist by email in DB", "error", result.Error)
		return nil, fmt.Errorf("gormTherapistRepository.FindByEmail: %w", result.Error)
	}
	return &therapist, nil
}

// AssignStudent は担当割り当てを追加します。既に割り当て済みの場合は何もしません。
func (r *gormTherapistRepository) AssignStudent(ctx context.Context, tx *gorm.DB, therapistID, studentID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	assignment := &model.TherapistStudent{TherapistID: therapistID, StudentID: studentID}
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(assignment)
	if result.Error != nil {
		logger.Error("Error assigning student in DB",
			"error", result.Error,
			"therapist_id", therapistID.String(),
			"student_id", studentID.String(),
		)
		return fmt.Errorf("gormTherapistRepository.AssignStudent: %w", result.Error)
	}
	return nil
}

func (r *gormTherapistRepository) ListAssignedStudentIDs(ctx context.Context, db *gorm.DB, therapistID uuid.UUID) ([]uuid.UUID, error) {
	logger := middleware.GetLogger(ctx)
	var studentIDs []uuid.UUID
	result := db.WithContext(ctx).
		Model(&model.TherapistStudent{}).
		Where("therapist_id = ?", therapistID).
		Order("created_at ASC").
		Pluck("student_id", &studentIDs)
	if result.Error != nil {
		logger.Error("Error listing assigned students in DB",
			"error", result.Error,
			"therapist_id", therapistID.String(),
		)
		return nil, fmt.Errorf("gormTherapistRepository.ListAssignedStudentIDs: %w", result.Error)
	}
	return studentIDs, nil
}

func (r *gormTherapistRepository) IsAssigned(ctx context.Context, db *gorm.DB, therapistID, studentID uuid.UUID) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).
		Model(&model.TherapistStudent{}).
		Where("therapist_id = ? AND student_id = ?", therapistID, studentID).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error checking assignment in DB",
			"error", result.Error,
			"therapist_id", therapistID.String(),
			"student_id", studentID.String(),
		)
		return false, fmt.Errorf("gormTherapistRepository.IsAssigned: %w", result.Error)
	}
	return count > 0, nil
}
