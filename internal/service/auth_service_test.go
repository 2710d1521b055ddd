// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"flexifun_server/internal/config"
	"flexifun_server/internal/model"
	"flexifun_server/internal/repository/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 ---
// setupTestDB はサービスが Transaction を張るための (インメモリSQLiteの)
// *gorm.DB を返します。リポジトリ操作自体はモックされます。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for testing")
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "FlexiFun"
	cfg.App.RecentSessionLimit = 10
	cfg.App.StudentSessionLimit = 20
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.AccessTokenTTL = 7 * 24 * time.Hour
	return cfg
}

// parseTestToken は発行されたトークンをテスト用シークレットで検証して返します。
func parseTestToken(t *testing.T, tokenString string, cfg *config.Config) *model.Claims {
	t.Helper()
	claims := &model.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.SecretKey), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return claims
}

// --- Test RegisterStudent ---
func Test_authService_RegisterStudent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()

	t.Run("正常系: 生徒が作成されトークンが発行される", func(t *testing.T) {
		mockStudentRepo := new(mocks.StudentRepository)
		mockTherapistRepo := new(mocks.TherapistRepository)
		authService := NewAuthService(db, mockStudentRepo, mockTherapistRepo, cfg)

		mockStudentRepo.On("FindByPinDigest", ctx, mock.Anything, mock.AnythingOfType("string")).
			Return(nil, model.ErrNotFound).Once()
		mockStudentRepo.On("Create", ctx, mock.Anything, mock.AnythingOfType("*model.Student")).
			Run(func(args mock.Arguments) {
				student := args.Get(2).(*model.Student)
				// PINの平文は永続化されない
				assert.NotEqual(t, "1234", student.PinDigest)
				assert.NotEqual(t, "1234", student.PinHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PinHash), []byte("1234")))
			}).
			Return(nil).Once()

		resp, err := authService.RegisterStudent(ctx, &model.StudentSignupRequest{
			Name:    "Taro",
			PinCode: "1234",
		})

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, "Taro", resp.Student.Name)
		// アバター未指定時のデフォルト
		assert.Equal(t, "🦁", resp.Student.Avatar)
		assert.True(t, resp.Student.SoundEnabled)

		claims := parseTestToken(t, resp.Token, cfg)
		assert.Equal(t, model.PrincipalStudent, claims.Type)
		assert.Equal(t, resp.Student.ID.String(), claims.Subject)
		assert.Equal(t, "FlexiFun", claims.Issuer)
		// 有効期限はおよそ7日後
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)

		mockStudentRepo.AssertExpectations(t)
	})

	t.Run("異常系: PINが既に使われている", func(t *testing.T) {
		mockStudentRepo := new(mocks.StudentRepository)
		mockTherapistRepo := new(mocks.TherapistRepository)
		authService := NewAuthService(db, mockStudentRepo, mockTherapistRepo, cfg)

		existing := &model.Student{StudentID: uuid.New(), Name: "Existing"}
		mockStudentRepo.On("FindByPinDigest", ctx, mock.Anything, mock.AnythingOfType("string")).
			Return(existing, nil).Once()

		resp, err := authService.RegisterStudent(ctx, &model.StudentSignupRequest{
			Name:    "Jiro",
			PinCode: "1234",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
		assert.Nil(t, resp)
		mockStudentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: 重複チェックとCreateの間で競合した場合もConflict", func(t *testing.T) {
		mockStudentRepo := new(mocks.StudentRepository)
		mockTherapistRepo := new(mocks.TherapistRepository)
		authService := NewAuthService(db, mockStudentRepo, mockTherapistRepo, cfg)

		mockStudentRepo.On("FindByPinDigest", ctx, mock.Anything, mock.AnythingOfType("string")).
			Return(nil, model.ErrNotFound).Once()
		mockStudentRepo.On("Create", ctx, mock.Anything, mock.AnythingOfType("*model.Student")).
			Return(model.ErrConflict).Once()

		resp, err := authService.RegisterStudent(ctx, &model.StudentSignupRequest{
			Name:    "Saburo",
			PinCode: "1234",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
		assert.Nil(t, resp)
		mockStudentRepo.AssertExpectations(t)
	})
}

// --- Test LoginStudent ---
func Test_authService_LoginStudent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()

	hashedPin, err := bcrypt.GenerateFromPassword([]byte("4321"), bcrypt.MinCost)
	require.NoError(t, err)
	student := &model.Student{
		StudentID: uuid.New(),
		Name:      "Hanako",
		Avatar:    "🐰",
		PinHash:   string(hashedPin),
	}

	tests := []struct {
		name      string
		pinCode   string
		setupMock func(m *mocks.StudentRepository)
		wantErr   error
	}{
		{
			name:    "正常系: 正しいPINでログイン成功",
			pinCode: "4321",
			setupMock: func(m *mocks.StudentRepository) {
				m.On("FindByPinDigest", ctx, mock.Anything, pinDigest("4321")).
					Return(student, nil).Once()
			},
			wantErr: nil,
		},
		{
			name:    "異常系: 存在しないPIN",
			pinCode: "0000",
			setupMock: func(m *mocks.StudentRepository) {
				m.On("FindByPinDigest", ctx, mock.Anything, pinDigest("0000")).
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStudentRepo := new(mocks.StudentRepository)
			mockTherapistRepo := new(mocks.TherapistRepository)
			authService := NewAuthService(db, mockStudentRepo, mockTherapistRepo, cfg)
			tt.setupMock(mockStudentRepo)

			resp, err := authService.LoginStudent(ctx, &model.StudentLoginRequest{PinCode: tt.pinCode})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, student.StudentID, resp.Student.ID)
				claims := parseTestToken(t, resp.Token, cfg)
				assert.Equal(t, model.PrincipalStudent, claims.Type)
				assert.Equal(t, student.StudentID.String(), claims.Subject)
			}
			mockStudentRepo.AssertExpectations(t)
		})
	}
}

// --- Test RegisterTherapist ---
func Test_authService_RegisterTherapist(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()

	t.Run("正常系: Emailは小文字に正規化され組織はデフォルト値になる", func(t *testing.T) {
		mockStudentRepo := new(mocks.StudentRepository)
		mockTherapistRepo := new(mocks.TherapistRepository)
		authService := NewAuthService(db, mockStudentRepo, mockTherapistRepo, cfg)

		mockTherapistRepo.On("FindByEmail", ctx, mock.Anything, "dr.smith@example.com").
			Return(nil, model.ErrNotFound).Once()
		mockTherapistRepo.On("Create", ctx, mock.Anything, mock.AnythingOfType("*model.Therapist")).
			Return(nil).Once()

		resp, err := authService.RegisterTherapist(ctx, &model.TherapistSignupRequest{
			Name:     "Dr. Smith",
			Email:    "  Dr.Smith@Example.com ",
			Password: "password123",
		})

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, "dr.smith@example.com", resp.Therapist.Email)
		assert.Equal(t, "Independent", resp.Therapist.Organization)

		claims := parseTestToken(t, resp.Token, cfg)
		assert.Equal(t, model.PrincipalTherapist, claims.Type)
		assert.Equal(t, resp.Therapist.ID.String(), claims.Subject)

		mockTherapistRepo.AssertExpectations(t)
	})

	t.Run("異常系: Emailが既に使われている", func(t *testing.T) {
		mockStudentRepo := new(mocks.StudentRepository)
		mockTherapistRepo := new(mocks.TherapistRepository)
		authService := NewAuthService(db, mockStudentRepo, mockTherapistRepo, cfg)

		existing := &model.Therapist{TherapistID: uuid.New(), Email: "dr.smith@example.com"}
		mockTherapistRepo.On("FindByEmail", ctx, mock.Anything, "dr.smith@example.com").
			Return(existing, nil).Once()

		resp, err := authService.RegisterTherapist(ctx, &model.TherapistSignupRequest{
			Name:     "Dr. Smith",
			Email:    "dr.smith@example.com",
			Password: "password123",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
		assert.Nil(t, resp)
		mockTherapistRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

// --- Test LoginTherapist ---
func Test_authService_LoginTherapist(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cfg := testConfig()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	therapist := &model.Therapist{
		TherapistID:  uuid.New(),
		Name:         "Dr. Smith",
		Email:        "dr.smith@example.com",
		PasswordHash: string(hashedPassword),
		Organization: "Sunrise Clinic",
	}

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(m *mocks.TherapistRepository)
		wantErr   error
	}{
		{
			name:     "正常系: 正しい資格情報でログイン成功",
			email:    "Dr.Smith@Example.com",
			password: "password123",
			setupMock: func(m *mocks.TherapistRepository) {
				m.On("FindByEmail", ctx, mock.Anything, "dr.smith@example.com").
					Return(therapist, nil).Once()
			},
			wantErr: nil,
		},
		{
			name:     "異常系: 存在しないEmail",
			email:    "unknown@example.com",
			password: "password123",
			setupMock: func(m *mocks.TherapistRepository) {
				m.On("FindByEmail", ctx, mock.Anything, "unknown@example.com").
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrUnauthorized,
		},
		{
			name:     "異常系: パスワード不一致",
			email:    "dr.smith@example.com",
			password: "wrong-password",
			setupMock: func(m *mocks.TherapistRepository) {
				m.On("FindByEmail", ctx, mock.Anything, "dr.smith@example.com").
					Return(therapist, nil).Once()
			},
			wantErr: model.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStudentRepo := new(mocks.StudentRepository)
			mockTherapistRepo := new(mocks.TherapistRepository)
			authService := NewAuthService(db, mockStudentRepo, mockTherapistRepo, cfg)
			tt.setupMock(mockTherapistRepo)

			resp, err := authService.LoginTherapist(ctx, &model.TherapistLoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, therapist.TherapistID, resp.Therapist.ID)
				claims := parseTestToken(t, resp.Token, cfg)
				assert.Equal(t, model.PrincipalTherapist, claims.Type)
			}
			mockTherapistRepo.AssertExpectations(t)
		})
	}
}
