// internal/model/auth.go
package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PrincipalType はトークンに載せるロール識別子です。
type PrincipalType string

const (
	PrincipalStudent   PrincipalType = "student"
	PrincipalTherapist PrincipalType = "therapist"
)

// Principal は認証済みの行為者 (生徒またはセラピスト) を表します。
// 認証ミドルウェアがコンテキストにセットします。
type Principal struct {
	ID   uuid.UUID
	Type PrincipalType
}

// Claims はJWTのペイロードです。Subject に principal ID を入れ、
// Type でロールを判別します ({ id, type } 形式)。
type Claims struct {
	Type PrincipalType `json:"type"`
	jwt.RegisteredClaims
}

type ContextKey string

const (
	PrincipalKey ContextKey = "principal"
)

// StudentSignupRequest は生徒サインアップAPIのリクエストボディ (DTO)
type StudentSignupRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Avatar  string `json:"avatar" validate:"omitempty,max=16"`
	PinCode string `json:"pinCode" validate:"required,numeric,min=4,max=8"`
}

// StudentLoginRequest は生徒ログインAPIのリクエストボディ。PINのみが認証要素です。
type StudentLoginRequest struct {
	PinCode string `json:"pinCode" validate:"required"`
}

// TherapistSignupRequest はセラピストサインアップAPIのリクエストボディ
type TherapistSignupRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Organization string `json:"organization" validate:"omitempty,max=100"`
}

// TherapistLoginRequest はセラピストログインAPIのリクエストボディ
type TherapistLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StudentAuthResponse はサインアップ/ログイン成功時のレスポンス
type StudentAuthResponse struct {
	Token   string          `json:"token"`
	Student StudentResponse `json:"student"`
}

// TherapistAuthResponse はサインアップ/ログイン成功時のレスポンス
type TherapistAuthResponse struct {
	Token     string            `json:"token"`
	Therapist TherapistResponse `json:"therapist"`
}
