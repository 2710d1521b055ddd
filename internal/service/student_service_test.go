// internal/service/student_service_test.go
package service

import (
	"context"
	"testing"

	"flexifun_server/internal/model"
	"flexifun_server/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMigratedDB はマイグレーション済みのインメモリSQLiteを返します。
// テストごとに別名のDBを使い、コネクションプール越しでも同じDBを共有します。
func setupMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for testing")
	require.NoError(t, repository.Migrate(db))
	return db
}

func newStudentServiceForTest(t *testing.T) (StudentService, *gorm.DB) {
	t.Helper()
	db := setupMigratedDB(t)
	svc := NewStudentService(db,
		repository.NewGormStudentRepository(),
		repository.NewGormProgressRepository(),
		repository.NewGormSessionRepository(),
	)
	return svc, db
}

func seedStudent(t *testing.T, db *gorm.DB, student *model.Student) {
	t.Helper()
	if student.StudentID == uuid.Nil {
		student.StudentID = uuid.New()
	}
	if student.Avatar == "" {
		student.Avatar = "🦁"
	}
	student.PinDigest = uuid.NewString() // 一意制約を満たすだけのダミー
	student.PinHash = "x"
	require.NoError(t, db.Create(student).Error)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }

// --- Test UpdateProgress ---
func Test_studentService_UpdateProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 初回は total=5 でレコードが作成される", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)
		studentID := uuid.New()

		progress, err := svc.UpdateProgress(ctx, studentID, &model.UpdateProgressRequest{
			ModuleID:  model.ModuleTheoryOfMind,
			Completed: intPtr(3),
			Accuracy:  floatPtr(90),
			TimeSpent: intPtr(15),
		})

		require.NoError(t, err)
		require.NotNil(t, progress)
		assert.Equal(t, studentID, progress.StudentID)
		assert.Equal(t, model.ModuleTheoryOfMind, progress.ModuleID)
		assert.Equal(t, 3, progress.Completed)
		assert.Equal(t, 5, progress.Total)
		assert.Equal(t, float64(90), progress.Accuracy)
		assert.Equal(t, 15, progress.TimeSpent)
		assert.False(t, progress.LastPlayedAt.IsZero())
	})

	t.Run("正常系: 2回目は completed/accuracy 上書き、timeSpent 加算", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)
		studentID := uuid.New()

		_, err := svc.UpdateProgress(ctx, studentID, &model.UpdateProgressRequest{
			ModuleID:  model.ModuleTheoryOfMind,
			Completed: intPtr(3),
			Accuracy:  floatPtr(90),
			TimeSpent: intPtr(15),
		})
		require.NoError(t, err)

		progress, err := svc.UpdateProgress(ctx, studentID, &model.UpdateProgressRequest{
			ModuleID:  model.ModuleTheoryOfMind,
			Completed: intPtr(4),
			Accuracy:  floatPtr(80),
			TimeSpent: intPtr(10),
		})

		require.NoError(t, err)
		assert.Equal(t, 4, progress.Completed)
		assert.Equal(t, float64(80), progress.Accuracy)
		assert.Equal(t, 25, progress.TimeSpent) // 15 + 10
	})

	t.Run("正常系: 明示的な0は保存値を上書きする", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)
		studentID := uuid.New()

		_, err := svc.UpdateProgress(ctx, studentID, &model.UpdateProgressRequest{
			ModuleID:  model.ModuleExecutiveFunction,
			Completed: intPtr(3),
			Accuracy:  floatPtr(75),
		})
		require.NoError(t, err)

		progress, err := svc.UpdateProgress(ctx, studentID, &model.UpdateProgressRequest{
			ModuleID:  model.ModuleExecutiveFunction,
			Completed: intPtr(0),
			Accuracy:  floatPtr(0),
		})

		require.NoError(t, err)
		assert.Equal(t, 0, progress.Completed)
		assert.Equal(t, float64(0), progress.Accuracy)
	})

	t.Run("正常系: 省略されたフィールドは保存値が維持される", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)
		studentID := uuid.New()

		_, err := svc.UpdateProgress(ctx, studentID, &model.UpdateProgressRequest{
			ModuleID:  model.ModuleSocialCommunication,
			Completed: intPtr(2),
			Accuracy:  floatPtr(60),
			TimeSpent: intPtr(5),
		})
		require.NoError(t, err)

		progress, err := svc.UpdateProgress(ctx, studentID, &model.UpdateProgressRequest{
			ModuleID:  model.ModuleSocialCommunication,
			TimeSpent: intPtr(7),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, progress.Completed)
		assert.Equal(t, float64(60), progress.Accuracy)
		assert.Equal(t, 12, progress.TimeSpent)
	})

	t.Run("正常系: モジュールごとに独立したレコードになる", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)
		studentID := uuid.New()

		for _, moduleID := range model.AllModuleIDs() {
			_, err := svc.UpdateProgress(ctx, studentID, &model.UpdateProgressRequest{
				ModuleID:  moduleID,
				Completed: intPtr(1),
			})
			require.NoError(t, err)
		}

		progresses, err := svc.GetProgress(ctx, studentID)
		require.NoError(t, err)
		assert.Len(t, progresses, 4)
	})

	t.Run("異常系: 未知のモジュールIDは拒否される", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)

		progress, err := svc.UpdateProgress(ctx, uuid.New(), &model.UpdateProgressRequest{
			ModuleID:  model.ModuleID("time-travel"),
			Completed: intPtr(1),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Nil(t, progress)
	})
}

// --- Test UpdateProfile ---
func Test_studentService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 送られたフィールドだけが更新される", func(t *testing.T) {
		svc, db := newStudentServiceForTest(t)
		student := &model.Student{Name: "Taro", Avatar: "🐯", SoundEnabled: true}
		seedStudent(t, db, student)

		updated, err := svc.UpdateProfile(ctx, student.StudentID, &model.UpdateProfileRequest{
			Name: strPtr("Taro Updated"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Taro Updated", updated.Name)
		assert.Equal(t, "🐯", updated.Avatar) // 未指定は維持
		assert.True(t, updated.SoundEnabled)
	})

	t.Run("正常系: soundEnabled=false も明示指定なら反映される", func(t *testing.T) {
		svc, db := newStudentServiceForTest(t)
		student := &model.Student{Name: "Hanako", SoundEnabled: true}
		seedStudent(t, db, student)

		updated, err := svc.UpdateProfile(ctx, student.StudentID, &model.UpdateProfileRequest{
			SoundEnabled: boolPtr(false),
		})

		require.NoError(t, err)
		assert.False(t, updated.SoundEnabled)
		assert.Equal(t, "Hanako", updated.Name)
	})

	t.Run("異常系: 存在しない生徒", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)

		updated, err := svc.UpdateProfile(ctx, uuid.New(), &model.UpdateProfileRequest{
			Name: strPtr("Ghost"),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, updated)
	})
}

// --- Test RecordSession / GetStats ---
func Test_studentService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: セッション履歴から読み出し時に集計される", func(t *testing.T) {
		svc, db := newStudentServiceForTest(t)
		student := &model.Student{Name: "Taro", CurrentStreak: 4}
		seedStudent(t, db, student)

		durations := []int{10, 20, 30}
		points := []int{5, 10, 15}
		for i := range durations {
			_, err := svc.RecordSession(ctx, student.StudentID, &model.RecordSessionRequest{
				ModuleID:     model.ModuleEmotionalRecognition,
				Duration:     durations[i],
				Accuracy:     80,
				PointsEarned: points[i],
			})
			require.NoError(t, err)
		}

		stats, err := svc.GetStats(ctx, student.StudentID)

		require.NoError(t, err)
		assert.Equal(t, 3, stats.Stats.TotalSessions)
		assert.Equal(t, 1.0, stats.Stats.TotalHours) // 60分 / 60
		assert.Equal(t, 30, stats.Stats.TotalPoints)
		assert.Equal(t, 4, stats.Stats.CurrentStreak) // 保存値をそのまま返す
		assert.Equal(t, student.StudentID, stats.Student.ID)
	})

	t.Run("正常系: セッションが無ければすべてゼロ", func(t *testing.T) {
		svc, db := newStudentServiceForTest(t)
		student := &model.Student{Name: "Hanako"}
		seedStudent(t, db, student)

		stats, err := svc.GetStats(ctx, student.StudentID)

		require.NoError(t, err)
		assert.Equal(t, 0, stats.Stats.TotalSessions)
		assert.Equal(t, 0.0, stats.Stats.TotalHours)
		assert.Equal(t, 0, stats.Stats.TotalPoints)
	})

	t.Run("異常系: 存在しない生徒", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)

		stats, err := svc.GetStats(ctx, uuid.New())

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, stats)
	})
}

func Test_studentService_RecordSession(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 追記専用ログとして保存される", func(t *testing.T) {
		svc, db := newStudentServiceForTest(t)
		studentID := uuid.New()
		therapistID := uuid.New()

		session, err := svc.RecordSession(ctx, studentID, &model.RecordSessionRequest{
			TherapistID:  &therapistID,
			ModuleID:     model.ModuleTheoryOfMind,
			Duration:     25,
			Accuracy:     88,
			PointsEarned: 12,
			Notes:        "Great focus today",
		})

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.NotEqual(t, uuid.Nil, session.SessionID)

		var stored model.Session
		require.NoError(t, db.First(&stored, "session_id = ?", session.SessionID).Error)
		assert.Equal(t, studentID, stored.StudentID)
		require.NotNil(t, stored.TherapistID)
		assert.Equal(t, therapistID, *stored.TherapistID)
		assert.Equal(t, 25, stored.Duration)
		assert.Equal(t, "Great focus today", stored.Notes)
	})

	t.Run("異常系: 未知のモジュールIDは拒否される", func(t *testing.T) {
		svc, _ := newStudentServiceForTest(t)

		session, err := svc.RecordSession(ctx, uuid.New(), &model.RecordSessionRequest{
			ModuleID: model.ModuleID("unknown"),
			Duration: 10,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Nil(t, session)
	})
}
