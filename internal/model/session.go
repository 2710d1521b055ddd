// internal/model/session.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Session は完了した1回のプレイ/セラピーの追記専用ログです。
// 作成後は一切変更しません。統計は書き込み時ではなく読み出し時に計算します。
type Session struct {
	SessionID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"studentId"`
	TherapistID  *uuid.UUID `gorm:"type:uuid;index" json:"therapistId,omitempty"` // 無監督セッションはnil
	ModuleID     ModuleID   `gorm:"type:varchar(50);not null" json:"moduleId"`
	Duration     int        `gorm:"not null" json:"duration"` // 分
	Accuracy     float64    `gorm:"not null;default:0" json:"accuracy"`
	PointsEarned int        `gorm:"not null;default:0" json:"pointsEarned"`
	Notes        string     `gorm:"not null;default:''" json:"notes"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
}

func (Session) TableName() string {
	return "sessions"
}

// RecordSessionRequest はセッション完了記録のDTO。唯一の書き込み経路です。
type RecordSessionRequest struct {
	TherapistID  *uuid.UUID `json:"therapistId,omitempty"`
	ModuleID     ModuleID   `json:"moduleId" validate:"required,oneof=emotional-recognition theory-of-mind executive-function social-communication"`
	Duration     int        `json:"duration" validate:"required,min=1"`
	Accuracy     float64    `json:"accuracy" validate:"min=0,max=100"`
	PointsEarned int        `json:"pointsEarned" validate:"min=0"`
	Notes        string     `json:"notes" validate:"max=2000"`
}
