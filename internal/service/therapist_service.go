// internal/service/therapist_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"flexifun_server/internal/config"
	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"
	"flexifun_server/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TherapistService はセラピスト側の読み出し集計 (ダッシュボード、進捗詳細、
// 週次レポート) と担当割り当てを提供します。可視範囲は担当生徒のみです。
type TherapistService interface {
	GetDashboard(ctx context.Context, therapistID uuid.UUID) (*model.TherapistDashboardResponse, error)
	AssignStudent(ctx context.Context, therapistID, studentID uuid.UUID) (*model.AssignStudentResponse, error)
	GetStudentProgress(ctx context.Context, therapistID, studentID uuid.UUID) (*model.StudentProgressView, error)
	GetWeeklyReport(ctx context.Context, therapistID, studentID uuid.UUID) (*model.WeeklyReport, error)
}

type therapistService struct {
	db            *gorm.DB
	therapistRepo repository.TherapistRepository
	studentRepo   repository.StudentRepository
	progressRepo  repository.ProgressRepository
	sessionRepo   repository.SessionRepository
	cfg           *config.Config
}

func NewTherapistService(db *gorm.DB, therapistRepo repository.TherapistRepository, studentRepo repository.StudentRepository, progressRepo repository.ProgressRepository, sessionRepo repository.SessionRepository, cfg *config.Config) TherapistService {
	return &therapistService{
		db:            db,
		therapistRepo: therapistRepo,
		studentRepo:   studentRepo,
		progressRepo:  progressRepo,
		sessionRepo:   sessionRepo,
		cfg:           cfg,
	}
}

// round2 は小数2桁に丸めます。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// meanAccuracy は進捗レコードの平均正答率を返します。レコード無しは0
// (ゼロ除算ガード)。
func meanAccuracy(progresses []*model.GameProgress) float64 {
	if len(progresses) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range progresses {
		sum += p.Accuracy
	}
	return round2(sum / float64(len(progresses)))
}

// GetDashboard は担当生徒ごとの集計と、自身が担当した直近セッションを返します。
// 参照先の生徒が消えていてもゼロ値で埋め、集計全体は失敗させません。
func (s *therapistService) GetDashboard(ctx context.Context, therapistID uuid.UUID) (*model.TherapistDashboardResponse, error) {
	logger := middleware.GetLogger(ctx)

	therapist, err := s.therapistRepo.FindByID(ctx, s.db, therapistID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("THERAPIST_NOT_FOUND", "Therapist not found", "", model.ErrNotFound)
		}
		logger.Error("Error finding therapist", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch dashboard", "", err)
	}

	studentIDs, err := s.therapistRepo.ListAssignedStudentIDs(ctx, s.db, therapistID)
	if err != nil {
		logger.Error("Error listing assigned students", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch dashboard", "", err)
	}

	studentProgress := make([]model.StudentProgressSummary, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		summary := model.StudentProgressSummary{ID: studentID}

		student, err := s.studentRepo.FindByID(ctx, s.db, studentID)
		if err == nil {
			summary.Name = student.Name
			summary.Avatar = student.Avatar
			summary.ProgressPercentage = float64(student.ProgressStars) / 5 * 100
		} else if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error finding assigned student", "error", err, "student_id", studentID.String())
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch dashboard", "", err)
		}

		count, err := s.sessionRepo.CountByStudent(ctx, s.db, studentID)
		if err != nil {
			logger.Error("Error counting sessions", "error", err, "student_id", studentID.String())
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch dashboard", "", err)
		}
		summary.SessionsCompleted = int(count)

		progresses, err := s.progressRepo.FindByStudent(ctx, s.db, studentID)
		if err != nil {
			logger.Error("Error finding progress", "error", err, "student_id", studentID.String())
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch dashboard", "", err)
		}
		summary.AvgAccuracy = meanAccuracy(progresses)

		studentProgress = append(studentProgress, summary)
	}

	recentSessions, err := s.buildRecentSessions(ctx, therapistID)
	if err != nil {
		return nil, err
	}

	return &model.TherapistDashboardResponse{
		Therapist:       model.NewTherapistResponse(therapist),
		StudentProgress: studentProgress,
		RecentSessions:  recentSessions,
	}, nil
}

// buildRecentSessions は自身が担当した直近セッションを新しい順に解決します。
func (s *therapistService) buildRecentSessions(ctx context.Context, therapistID uuid.UUID) ([]model.RecentSessionView, error) {
	logger := middleware.GetLogger(ctx)

	sessions, err := s.sessionRepo.FindRecentByTherapist(ctx, s.db, therapistID, s.cfg.App.RecentSessionLimit)
	if err != nil {
		logger.Error("Error finding recent sessions", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch dashboard", "", err)
	}

	// 同じ生徒を何度も引かないための簡易キャッシュ
	students := map[uuid.UUID]*model.Student{}
	views := make([]model.RecentSessionView, 0, len(sessions))
	for _, session := range sessions {
		view := model.RecentSessionView{
			ID:        session.SessionID,
			ModuleID:  session.ModuleID,
			Duration:  session.Duration,
			Accuracy:  session.Accuracy,
			CreatedAt: session.CreatedAt,
		}

		student, ok := students[session.StudentID]
		if !ok {
			student, err = s.studentRepo.FindByID(ctx, s.db, session.StudentID)
			if err != nil && !errors.Is(err, model.ErrNotFound) {
				logger.Error("Error resolving session student", "error", err)
				return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch dashboard", "", err)
			}
			students[session.StudentID] = student // 見つからない場合は nil をキャッシュ
		}
		if student != nil {
			view.StudentName = student.Name
			view.StudentAvatar = student.Avatar
		}

		views = append(views, view)
	}
	return views, nil
}

// AssignStudent は担当割り当てを追加します。二重割り当ては黙って無視されます。
func (s *therapistService) AssignStudent(ctx context.Context, therapistID, studentID uuid.UUID) (*model.AssignStudentResponse, error) {
	logger := middleware.GetLogger(ctx)

	therapist, err := s.therapistRepo.FindByID(ctx, s.db, therapistID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("THERAPIST_NOT_FOUND", "Therapist not found", "", model.ErrNotFound)
		}
		logger.Error("Error finding therapist", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to assign student", "", err)
	}

	// 存在しない生徒への割り当ては拒否する
	if _, err := s.studentRepo.FindByID(ctx, s.db, studentID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("STUDENT_NOT_FOUND", "Student not found", "", model.ErrNotFound)
		}
		logger.Error("Error finding student for assignment", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to assign student", "", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.therapistRepo.AssignStudent(ctx, tx, therapistID, studentID)
	})
	if err != nil {
		logger.Error("Error assigning student", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to assign student", "", err)
	}

	studentIDs, err := s.therapistRepo.ListAssignedStudentIDs(ctx, s.db, therapistID)
	if err != nil {
		logger.Error("Error listing assigned students", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to assign student", "", err)
	}

	logger.Info("Student assigned", "therapist_id", therapistID.String(), "student_id", studentID.String())
	return &model.AssignStudentResponse{
		Therapist:        model.NewTherapistResponse(therapist),
		AssignedStudents: studentIDs,
	}, nil
}

// requireAssigned は対象の生徒が担当範囲内かを確認します。
// 範囲外は存在を明かさないために NotFound を返します。
func (s *therapistService) requireAssigned(ctx context.Context, therapistID, studentID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	assigned, err := s.therapistRepo.IsAssigned(ctx, s.db, therapistID, studentID)
	if err != nil {
		logger.Error("Error checking assignment", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch student data", "", err)
	}
	if !assigned {
		logger.Warn("Access to unassigned student denied",
			"therapist_id", therapistID.String(),
			"student_id", studentID.String(),
		)
		return model.NewAppError("STUDENT_NOT_FOUND", "Student not found", "", model.ErrNotFound)
	}
	return nil
}

// GetStudentProgress は担当生徒1人の進捗詳細 (モジュール別進捗、直近セッション、
// スキル別サマリ) を返します。
func (s *therapistService) GetStudentProgress(ctx context.Context, therapistID, studentID uuid.UUID) (*model.StudentProgressView, error) {
	logger := middleware.GetLogger(ctx)

	if err := s.requireAssigned(ctx, therapistID, studentID); err != nil {
		return nil, err
	}

	progresses, err := s.progressRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		logger.Error("Error finding progress", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch student progress", "", err)
	}

	sessions, err := s.sessionRepo.FindRecentByStudent(ctx, s.db, studentID, s.cfg.App.StudentSessionLimit)
	if err != nil {
		logger.Error("Error finding sessions", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch student progress", "", err)
	}
	// 表示は古い順 (直近N件を時系列で見せる)
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}

	accuracyByModule := map[model.ModuleID]float64{}
	for _, p := range progresses {
		accuracyByModule[p.ModuleID] = p.Accuracy
	}

	// モジュールをスキル名に読み替える。進捗レコードが無いモジュールは0%。
	skills := []model.SkillProgress{
		{Name: "Communication", Progress: accuracyByModule[model.ModuleSocialCommunication], Emoji: "💬"},
		{Name: "Focus & Attention", Progress: accuracyByModule[model.ModuleExecutiveFunction], Emoji: "👀"},
		{Name: "Motor Skills", Progress: accuracyByModule[model.ModuleEmotionalRecognition], Emoji: "✋"},
		{Name: "Social Interaction", Progress: accuracyByModule[model.ModuleTheoryOfMind], Emoji: "👥"},
	}

	return &model.StudentProgressView{
		ModuleProgress: progresses,
		Sessions:       sessions,
		SkillsProgress: skills,
	}, nil
}

// GetWeeklyReport は直近7日間のレポートを生成します。
// moduleBreakdown だけは7日窓に関係なく生涯累計です (意図した非対称)。
func (s *therapistService) GetWeeklyReport(ctx context.Context, therapistID, studentID uuid.UUID) (*model.WeeklyReport, error) {
	logger := middleware.GetLogger(ctx)

	if err := s.requireAssigned(ctx, therapistID, studentID); err != nil {
		return nil, err
	}

	now := time.Now()
	weekStart := now.Add(-7 * 24 * time.Hour)

	// 生徒が消えていてもレポート自体は生成する
	studentName := ""
	student, err := s.studentRepo.FindByID(ctx, s.db, studentID)
	if err == nil {
		studentName = student.Name
	} else if !errors.Is(err, model.ErrNotFound) {
		logger.Error("Error finding student for report", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to generate report", "", err)
	}

	sessions, err := s.sessionRepo.FindByStudentSince(ctx, s.db, studentID, weekStart)
	if err != nil {
		logger.Error("Error finding sessions for report", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to generate report", "", err)
	}

	totalMinutes := 0
	accuracySum := 0.0
	for _, session := range sessions {
		totalMinutes += session.Duration
		accuracySum += session.Accuracy
	}
	averageAccuracy := 0.0
	if len(sessions) > 0 {
		averageAccuracy = round2(accuracySum / float64(len(sessions)))
	}

	progresses, err := s.progressRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		logger.Error("Error finding progress for report", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to generate report", "", err)
	}
	breakdown := make([]model.ModuleBreakdown, 0, len(progresses))
	for _, p := range progresses {
		breakdown = append(breakdown, model.ModuleBreakdown{
			Module:    p.ModuleID,
			Completed: p.Completed,
			Accuracy:  p.Accuracy,
		})
	}

	return &model.WeeklyReport{
		StudentName:      studentName,
		Week:             fmt.Sprintf("%s to %s", weekStart.Format("2006-01-02"), now.Format("2006-01-02")),
		SessionsThisWeek: len(sessions),
		TotalMinutes:     totalMinutes,
		AverageAccuracy:  averageAccuracy,
		ModuleBreakdown:  breakdown,
		Timestamp:        now,
	}, nil
}
