//go:generate mockery --name StudentRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentRepository は生徒レコードへのアクセスを抽象化します。
type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *model.Student) error
	FindByID(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.Student, error)
	FindByPinDigest(ctx context.Context, db *gorm.DB, pinDigest string) (*model.Student, error)
	Update(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, updates map[string]interface{}) error
}

type gormStudentRepository struct{}

func NewGormStudentRepository() StudentRepository {
	return &gormStudentRepository{}
}

func (r *gormStudentRepository) Create(ctx context.Context, tx *gorm.DB, student *model.Student) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(student)
	if result.Error != nil {
		// pin_digest の一意制約違反はレースコンディションでここまで来る
		if isUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating student in DB",
			"error", result.Error,
			"name", student.Name,
		)
		return fmt.Errorf("gormStudentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormStudentRepository) FindByID(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	var student model.Student
	result := db.WithContext(ctx).Where("student_id = ?", studentID).First(&student)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding student by ID in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormStudentRepository.FindByID: %w", result.Error)
	}
	return &student, nil
}

func (r *gormStudentRepository) FindByPinDigest(ctx context.Context, db *gorm.DB, pinDigest string) (*model.Student, error) {
	logger := middleware.GetLogger(ctx)
	var student model.Student
	result := db.WithContext(ctx).Where("pin_digest = ?", pinDigest).First(&student)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding student by pin digest in DB", "error", result.Error)
		return nil, fmt.Errorf("gormStudentRepository.FindByPinDigest: %w", result.Error)
	}
	return &student, nil
}

func (r *gormStudentRepository) Update(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Student{}).Where("student_id = ?", studentID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating student in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return fmt.Errorf("gormStudentRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
