//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository は (生徒, モジュール) ごとの進捗レコードへのアクセスを抽象化します。
type ProgressRepository interface {
	// Upsert は進捗レコードを1回のクエリで作成または更新します。
	// 無ければ supplied 値で作成 (total=5)、有れば completed/accuracy は
	// 非nilのときだけ上書き、timeSpentDelta は加算されます。
	// (student_id, module_id) の一意制約 + ON CONFLICT で
	// last-writer-wins / no-lost-creates を満たします。アプリ側のロックは使いません。
	Upsert(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, moduleID model.ModuleID, completed *int, accuracy *float64, timeSpentDelta *int, now time.Time) error
	FindByStudentAndModule(ctx context.Context, db *gorm.DB, studentID uuid.UUID, moduleID model.ModuleID) (*model.GameProgress, error)
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.GameProgress, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Upsert(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, moduleID model.ModuleID, completed *int, accuracy *float64, timeSpentDelta *int, now time.Time) error {
	logger := middleware.GetLogger(ctx)

	record := &model.GameProgress{
		ProgressID:   uuid.New(),
		StudentID:    studentID,
		ModuleID:     moduleID,
		Total:        5,
		LastPlayedAt: now,
	}
	if completed != nil {
		record.Completed = *completed
	}
	if accuracy != nil {
		record.Accuracy = *accuracy
	}
	if timeSpentDelta != nil {
		record.TimeSpent = *timeSpentDelta
	}

	// 既存行がある場合の更新内容。time_spent は常に累積、
	// completed/accuracy は送られたときだけ最新値で上書き。
	assignments := map[string]interface{}{
		"last_played_at": now,
		"updated_at":     now,
	}
	if completed != nil {
		assignments["completed"] = *completed
	}
	if accuracy != nil {
		assignments["accuracy"] = *accuracy
	}
	if timeSpentDelta != nil {
		assignments["time_spent"] = gorm.Expr("game_progress.time_spent + ?", *timeSpentDelta)
	}

	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "module_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(record)
	if result.Error != nil {
		logger.Error("Error upserting game progress in DB",
			"error", result.Error,
			"student_id", studentID.String(),
			"module_id", string(moduleID),
		)
		return fmt.Errorf("gormProgressRepository.Upsert: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindByStudentAndModule(ctx context.Context, db *gorm.DB, studentID uuid.UUID, moduleID model.ModuleID) (*model.GameProgress, error) {
	logger := middleware.GetLogger(ctx)
	var progress model.GameProgress
	result := db.WithContext(ctx).Where("student_id = ? AND module_id = ?", studentID, moduleID).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding game progress in DB",
			"error", result.Error,
			"student_id", studentID.String(),
			"module_id", string(moduleID),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByStudentAndModule: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.GameProgress, error) {
	logger := middleware.GetLogger(ctx)
	var progresses []*model.GameProgress
	result := db.WithContext(ctx).Where("student_id = ?", studentID).Order("module_id ASC").Find(&progresses)
	if result.Error != nil {
		logger.Error("Error finding game progress by student in DB",
			"error", result.Error,
			"student_id", studentID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByStudent: %w", result.Error)
	}
	return progresses, nil
}
