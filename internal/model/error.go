// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict") // 重複エラー用
	ErrInternalServer = errors.New("internal server error")
)

// AppError はクライアントへ返す情報と根本原因のセンチネルエラーを束ねます。
// Unwrap がセンチネルを返すので errors.Is でのステータス判定が可能です。
type AppError struct {
	Code    string // 機械可読なエラーコード (例: "DUPLICATE_PIN")
	Message string // ユーザー向けメッセージ
	Field   string // エラー対象のフィールド名 (任意)
	Err     error  // ラップするセンチネルエラー
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Err: err}
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// APIErrorResponse はエラーレスポンスのボディです。
// 失敗時は常に { "error": "..." } の形で返します。スタックトレースは返しません。
type APIErrorResponse struct {
	Error string `json:"error"`
}
