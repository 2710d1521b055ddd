// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"flexifun_server/internal/config"
	"flexifun_server/internal/model"
	"flexifun_server/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証し、
// 検証済みの Principal をコンテキストにセットするミドルウェアです。
// requiredType が指定されている場合、ロール不一致は 403 になります。
// トークン無し・無効・期限切れはすべて 401 です。検証失敗は正常系として扱い、
// panicさせません。永続化層へのI/Oは一切行いません。
func JWTAuthMiddleware(cfg *config.Config, requiredType model.PrincipalType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			// 1. Authorization ヘッダーからトークンを取得
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				appErr := model.NewAppError("UNAUTHORIZED", "No token provided", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// "Bearer {token}" の形式を検証
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				appErr := model.NewAppError("UNAUTHORIZED", "Invalid authorization header format", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}
			tokenString := headerParts[1]

			// 2. JWTをパースし、署名と有効期限を検証
			claims := &model.Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				// 署名アルゴリズムが期待通り(HS256)かチェック
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWT.SecretKey), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				appErr := model.NewAppError("INVALID_TOKEN", "Invalid token", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// 3. ペイロードから principal を復元
			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				logger.Warn("JWT auth failed: Subject (sub) claim missing", "error", err)
				appErr := model.NewAppError("INVALID_TOKEN", "Invalid token", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}
			principalID, err := uuid.Parse(subject)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid subject (sub) format", "subject", subject, "error", err)
				appErr := model.NewAppError("INVALID_TOKEN", "Invalid token", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}
			if claims.Type != model.PrincipalStudent && claims.Type != model.PrincipalTherapist {
				logger.Warn("JWT auth failed: Unknown principal type", "type", string(claims.Type))
				appErr := model.NewAppError("INVALID_TOKEN", "Invalid token", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// 4. ロールチェック。トークン自体は有効なので 403 を返す
			if requiredType != "" && claims.Type != requiredType {
				logger.Warn("JWT auth failed: Role mismatch",
					"required", string(requiredType),
					"actual", string(claims.Type),
				)
				var msg string
				if requiredType == model.PrincipalStudent {
					msg = "Student access required"
				} else {
					msg = "Therapist access required"
				}
				appErr := model.NewAppError("FORBIDDEN", msg, "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			principal := model.Principal{ID: principalID, Type: claims.Type}
			ctx := context.WithValue(r.Context(), model.PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StudentAuthMiddleware は生徒ロールを要求するゲートです。
func StudentAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return JWTAuthMiddleware(cfg, model.PrincipalStudent)
}

// TherapistAuthMiddleware はセラピストロールを要求するゲートです。
func TherapistAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return JWTAuthMiddleware(cfg, model.PrincipalTherapist)
}

// GetPrincipalFromContext はコンテキストから認証済みの Principal を取得します。
func GetPrincipalFromContext(ctx context.Context) (model.Principal, error) {
	value, ok := ctx.Value(model.PrincipalKey).(model.Principal)
	if !ok {
		// ミドルウェアを通っていない場合の内部エラー
		return model.Principal{}, model.NewAppError("UNAUTHORIZED", "Unauthorized", "", model.ErrUnauthorized)
	}
	return value, nil
}
