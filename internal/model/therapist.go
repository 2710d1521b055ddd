// internal/model/therapist.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Therapist は監督者のアイデンティティレコードです。
// Emailは小文字に正規化して一意制約をかけます。
type Therapist struct {
	TherapistID  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Organization string         `gorm:"not null;default:'Independent'" json:"organization"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Therapist) TableName() string {
	return "therapists"
}

// TherapistStudent は担当割り当ての明示的な結合テーブルです。
// 埋め込み配列ではなく (therapist_id, student_id) の組で持つことで、
// 将来の割り当て解除を曖昧さなく扱えます。排他制約は無し
// (一人の生徒を複数のセラピストが担当してよい)。
type TherapistStudent struct {
	TherapistID uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time
}

func (TherapistStudent) TableName() string {
	return "therapist_students"
}

// TherapistResponse はクライアントに返すセラピスト情報です。
type TherapistResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization"`
}

func NewTherapistResponse(t *Therapist) TherapistResponse {
	return TherapistResponse{
		ID:           t.TherapistID,
		Name:         t.Name,
		Email:        t.Email,
		Organization: t.Organization,
	}
}

// AssignStudentRequest は担当割り当てAPIのリクエストボディ
type AssignStudentRequest struct {
	StudentID uuid.UUID `json:"studentId" validate:"required"`
}

// AssignStudentResponse は割り当て後の担当生徒一覧を返します。
type AssignStudentResponse struct {
	Therapist        TherapistResponse `json:"therapist"`
	AssignedStudents []uuid.UUID       `json:"assignedStudents"`
}
