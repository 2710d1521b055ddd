// internal/model/report.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentStatsResponse は生徒自身のダッシュボード統計です。
// currentStreak は Student レコードの保存値をそのまま返します。
type StudentStatsResponse struct {
	Student StudentResponse `json:"student"`
	Stats   StudentStats    `json:"stats"`
}

type StudentStats struct {
	TotalSessions int     `json:"totalSessions"`
	TotalHours    float64 `json:"totalHours"` // Σduration(分) / 60
	CurrentStreak int     `json:"currentStreak"`
	TotalPoints   int     `json:"totalPoints"`
}

// StudentProgressSummary はセラピストのダッシュボードに載せる担当生徒1人分の集計です。
type StudentProgressSummary struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Avatar             string    `json:"avatar"`
	SessionsCompleted  int       `json:"sessionsCompleted"`
	AvgAccuracy        float64   `json:"avgAccuracy"`        // 進捗レコードの平均、小数2桁、レコード無しは0
	ProgressPercentage float64   `json:"progressPercentage"` // progressStars/5*100
}

// RecentSessionView はセラピスト自身が担当した直近セッションの表示用DTOです。
// 生徒が消えていてもゼロ値で埋めて集計全体は失敗させません。
type RecentSessionView struct {
	ID            uuid.UUID `json:"id"`
	StudentName   string    `json:"studentName"`
	StudentAvatar string    `json:"studentAvatar"`
	ModuleID      ModuleID  `json:"moduleId"`
	Duration      int       `json:"duration"`
	Accuracy      float64   `json:"accuracy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TherapistDashboardResponse はダッシュボードAPIのレスポンスです。
type TherapistDashboardResponse struct {
	Therapist       TherapistResponse        `json:"therapist"`
	StudentProgress []StudentProgressSummary `json:"studentProgress"`
	RecentSessions  []RecentSessionView      `json:"recentSessions"`
}

// SkillProgress は進捗画面用のスキル別サマリです。
// モジュールの正答率をスキル名に読み替えて返します。
type SkillProgress struct {
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
	Emoji    string  `json:"emoji"`
}

// StudentProgressView はセラピストから見た担当生徒1人の進捗詳細です。
type StudentProgressView struct {
	ModuleProgress []*GameProgress `json:"moduleProgress"`
	Sessions       []*Session      `json:"sessions"`
	SkillsProgress []SkillProgress `json:"skillsProgress"`
}

// ModuleBreakdown は週次レポートの生涯累計内訳です (7日窓の対象外)。
type ModuleBreakdown struct {
	Module    ModuleID `json:"module"`
	Completed int      `json:"completed"`
	Accuracy  float64  `json:"accuracy"`
}

// WeeklyReport は直近7日間のレポートです。
// moduleBreakdown だけは窓に関係なく生涯累計を載せます (意図した非対称)。
type WeeklyReport struct {
	StudentName      string            `json:"studentName"`
	Week             string            `json:"week"` // "YYYY-MM-DD to YYYY-MM-DD"
	SessionsThisWeek int               `json:"sessionsThisWeek"`
	TotalMinutes     int               `json:"totalMinutes"`
	AverageAccuracy  float64           `json:"averageAccuracy"` // 小数2桁、セッション無しは0
	ModuleBreakdown  []ModuleBreakdown `json:"moduleBreakdown"`
	Timestamp        time.Time         `json:"timestamp"`
}
