// internal/model/student.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student は学習者のアイデンティティレコードです。
// PINは平文では保持しません。ログイン検索用の決定的ダイジェスト (pin_digest,
// グローバル一意) と照合用の bcrypt ハッシュ (pin_hash) の二本立てです。
type Student struct {
	StudentID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Avatar        string         `gorm:"not null;default:'🦁'" json:"avatar"`
	PinDigest     string         `gorm:"uniqueIndex;not null" json:"-"`
	PinHash       string         `gorm:"not null" json:"-"`
	SoundEnabled  bool           `gorm:"not null;default:true" json:"soundEnabled"`
	ProgressStars int            `gorm:"not null;default:0" json:"progressStars"` // 0〜5
	TotalSessions int            `gorm:"not null;default:0" json:"totalSessions"`
	TotalHours    float64        `gorm:"not null;default:0" json:"totalHours"`
	CurrentStreak int            `gorm:"not null;default:0" json:"currentStreak"` // セッション履歴から再計算はしない (外部設定のカウンタ)
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

// StudentResponse はクライアントに返す生徒情報です。認証情報は含めません。
type StudentResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Avatar        string    `json:"avatar"`
	ProgressStars int       `json:"progressStars"`
	SoundEnabled  bool      `json:"soundEnabled"`
}

func NewStudentResponse(s *Student) StudentResponse {
	return StudentResponse{
		ID:            s.StudentID,
		Name:          s.Name,
		Avatar:        s.Avatar,
		ProgressStars: s.ProgressStars,
		SoundEnabled:  s.SoundEnabled,
	}
}

// UpdateProfileRequest はプロフィール部分更新のDTO。
// ポインタで「フィールドが送られたか」を区別します。
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Avatar       *string `json:"avatar,omitempty" validate:"omitempty,max=16"`
	SoundEnabled *bool   `json:"soundEnabled,omitempty"`
}
