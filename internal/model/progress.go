// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ModuleID は学習モジュールの閉じた列挙です。未知の値は保存せず拒否します。
type ModuleID string

const (
	ModuleEmotionalRecognition ModuleID = "emotional-recognition"
	ModuleTheoryOfMind         ModuleID = "theory-of-mind"
	ModuleExecutiveFunction    ModuleID = "executive-function"
	ModuleSocialCommunication  ModuleID = "social-communication"
)

// validator タグ用の候補リスト (oneof と同期を取ること)
const ModuleIDOneOf = "emotional-recognition theory-of-mind executive-function social-communication"

func (m ModuleID) IsValid() bool {
	switch m {
	case ModuleEmotionalRecognition, ModuleTheoryOfMind, ModuleExecutiveFunction, ModuleSocialCommunication:
		return true
	}
	return false
}

// AllModuleIDs は列挙順のモジュール一覧を返します。
func AllModuleIDs() []ModuleID {
	return []ModuleID{
		ModuleEmotionalRecognition,
		ModuleTheoryOfMind,
		ModuleExecutiveFunction,
		ModuleSocialCommunication,
	}
}

// GameProgress は (生徒, モジュール) ごとに高々1件の進捗サマリです。
// completed/accuracy は最新値で上書き、time_spent は累積。
type GameProgress struct {
	ProgressID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index:idx_student_module,unique" json:"studentId"`
	ModuleID     ModuleID  `gorm:"type:varchar(50);not null;index:idx_student_module,unique" json:"moduleId"`
	Completed    int       `gorm:"not null;default:0" json:"completed"`
	Total        int       `gorm:"not null;default:5" json:"total"`
	Accuracy     float64   `gorm:"not null;default:0" json:"accuracy"` // 0〜100
	TimeSpent    int       `gorm:"not null;default:0" json:"timeSpent"`
	LastPlayedAt time.Time `gorm:"not null" json:"lastPlayedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (GameProgress) TableName() string {
	return "game_progress"
}

// UpdateProgressRequest は進捗upsertのDTO。
// ポインタの三値 (未指定/ゼロ/値あり) で「0を送った」と「送っていない」を
// 区別します。TimeSpent は増分で、保存値に加算されます。
type UpdateProgressRequest struct {
	ModuleID  ModuleID `json:"moduleId" validate:"required,oneof=emotional-recognition theory-of-mind executive-function social-communication"`
	Completed *int     `json:"completed,omitempty" validate:"omitempty,min=0"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,min=0,max=100"`
	TimeSpent *int     `json:"timeSpent,omitempty" validate:"omitempty,min=0"`
}
