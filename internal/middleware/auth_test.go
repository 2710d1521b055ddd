// internal/middleware/auth_test.go
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flexifun_server/internal/config"
	"flexifun_server/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "FlexiFun"
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.AccessTokenTTL = 7 * 24 * time.Hour
	return cfg
}

// signTestToken はテスト用のHS256トークンを任意のパラメータで発行します。
func signTestToken(t *testing.T, secret string, principalID uuid.UUID, principalType model.PrincipalType, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := &model.Claims{
		Type: principalType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "FlexiFun",
			Subject:   principalID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := testAuthConfig()
	studentID := uuid.New()
	therapistID := uuid.New()

	// ミドルウェアを通過したら principal をそのまま返すハンドラ
	passthrough := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := GetPrincipalFromContext(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"id":   principal.ID.String(),
			"type": string(principal.Type),
		})
	})

	tests := []struct {
		name         string
		requiredType model.PrincipalType
		authHeader   string
		wantStatus   int
		wantErrMsg   string
	}{
		{
			name:         "正常系: 有効な生徒トークン",
			requiredType: model.PrincipalStudent,
			authHeader:   "Bearer " + signTestToken(t, cfg.JWT.SecretKey, studentID, model.PrincipalStudent, time.Hour),
			wantStatus:   http.StatusOK,
		},
		{
			name:         "正常系: 有効なセラピストトークン",
			requiredType: model.PrincipalTherapist,
			authHeader:   "Bearer " + signTestToken(t, cfg.JWT.SecretKey, therapistID, model.PrincipalTherapist, time.Hour),
			wantStatus:   http.StatusOK,
		},
		{
			name:         "異常系: トークン無し",
			requiredType: model.PrincipalStudent,
			authHeader:   "",
			wantStatus:   http.StatusUnauthorized,
			wantErrMsg:   "No token provided",
		},
		{
			name:         "異常系: Bearerでないヘッダー形式",
			requiredType: model.PrincipalStudent,
			authHeader:   "Basic dXNlcjpwYXNz",
			wantStatus:   http.StatusUnauthorized,
			wantErrMsg:   "Invalid authorization header format",
		},
		{
			name:         "異常系: 壊れたトークン",
			requiredType: model.PrincipalStudent,
			authHeader:   "Bearer not-a-jwt",
			wantStatus:   http.StatusUnauthorized,
			wantErrMsg:   "Invalid token",
		},
		{
			name:         "異常系: 別のシークレットで署名されたトークン",
			requiredType: model.PrincipalStudent,
			authHeader:   "Bearer " + signTestToken(t, "wrong-secret", studentID, model.PrincipalStudent, time.Hour),
			wantStatus:   http.StatusUnauthorized,
			wantErrMsg:   "Invalid token",
		},
		{
			name:         "異常系: 期限切れトークン",
			requiredType: model.PrincipalStudent,
			authHeader:   "Bearer " + signTestToken(t, cfg.JWT.SecretKey, studentID, model.PrincipalStudent, -time.Hour),
			wantStatus:   http.StatusUnauthorized,
			wantErrMsg:   "Invalid token",
		},
		{
			name:         "異常系: 生徒トークンでセラピスト専用ルート",
			requiredType: model.PrincipalTherapist,
			authHeader:   "Bearer " + signTestToken(t, cfg.JWT.SecretKey, studentID, model.PrincipalStudent, time.Hour),
			wantStatus:   http.StatusForbidden,
			wantErrMsg:   "Therapist access required",
		},
		{
			name:         "異常系: セラピストトークンで生徒専用ルート",
			requiredType: model.PrincipalStudent,
			authHeader:   "Bearer " + signTestToken(t, cfg.JWT.SecretKey, therapistID, model.PrincipalTherapist, time.Hour),
			wantStatus:   http.StatusForbidden,
			wantErrMsg:   "Student access required",
		},
		{
			name:         "異常系: 未知のロールを持つトークン",
			requiredType: model.PrincipalStudent,
			authHeader:   "Bearer " + signTestToken(t, cfg.JWT.SecretKey, studentID, model.PrincipalType("admin"), time.Hour),
			wantStatus:   http.StatusUnauthorized,
			wantErrMsg:   "Invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := JWTAuthMiddleware(cfg, tt.requiredType)(passthrough)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantErrMsg != "" {
				var body model.APIErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantErrMsg, body.Error)
			}
		})
	}

	t.Run("正常系: 検証済みprincipalがコンテキストに入る", func(t *testing.T) {
		handler := StudentAuthMiddleware(cfg)(passthrough)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, cfg.JWT.SecretKey, studentID, model.PrincipalStudent, time.Hour))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, studentID.String(), body["id"])
		assert.Equal(t, string(model.PrincipalStudent), body["type"])
	})
}

func TestGetPrincipalFromContext(t *testing.T) {
	t.Run("異常系: ミドルウェアを通っていないコンテキスト", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		principal, err := GetPrincipalFromContext(req.Context())

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUnauthorized)
		assert.Equal(t, uuid.Nil, principal.ID)
	})
}
