// internal/service/auth_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"flexifun_server/internal/config"
	"flexifun_server/internal/middleware"
	"flexifun_server/internal/model"
	"flexifun_server/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService は二種類のプリンシパルのサインアップ/ログインと
// トークン発行を提供します (Credential Store + Token Service)。
type AuthService interface {
	RegisterStudent(ctx context.Context, req *model.StudentSignupRequest) (*model.StudentAuthResponse, error)
	LoginStudent(ctx context.Context, req *model.StudentLoginRequest) (*model.StudentAuthResponse, error)
	RegisterTherapist(ctx context.Context, req *model.TherapistSignupRequest) (*model.TherapistAuthResponse, error)
	LoginTherapist(ctx context.Context, req *model.TherapistLoginRequest) (*model.TherapistAuthResponse, error)
}

type authService struct {
	db            *gorm.DB
	studentRepo   repository.StudentRepository
	therapistRepo repository.TherapistRepository
	cfg           *config.Config
}

func NewAuthService(db *gorm.DB, studentRepo repository.StudentRepository, therapistRepo repository.TherapistRepository, cfg *config.Config) AuthService {
	return &authService{
		db:            db,
		studentRepo:   studentRepo,
		therapistRepo: therapistRepo,
		cfg:           cfg,
	}
}

// pinDigest はPIN検索用の決定的ダイジェストを返します。
// PINは平文では保存しません。一意制約はこのダイジェストにかかります。
func pinDigest(pinCode string) string {
	sum := sha256.Sum256([]byte(pinCode))
	return hex.EncodeToString(sum[:])
}

// generateToken は {sub: principalID, type: role} のHS256トークンを発行します。
// 有効期間は設定値 (既定7日)。リフレッシュ機構は無く、再ログインのみが更新手段です。
func (s *authService) generateToken(principalID uuid.UUID, principalType model.PrincipalType) (string, error) {
	now := time.Now()
	claims := &model.Claims{
		Type: principalType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.App.Name,
			Subject:   principalID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

// RegisterStudent は生徒を作成し、トークンを返します。
// PINはログインの唯一のキーなのでグローバルに一意でなければなりません。
func (s *authService) RegisterStudent(ctx context.Context, req *model.StudentSignupRequest) (*model.StudentAuthResponse, error) {
	logger := middleware.GetLogger(ctx)
	var newStudent *model.Student

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// PINの重複チェック
		_, err := s.studentRepo.FindByPinDigest(ctx, tx, pinDigest(req.PinCode))
		if err == nil {
			logger.Warn("PIN code already in use")
			return model.NewAppError("DUPLICATE_PIN", "PIN code already in use", "pinCode", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check pin existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Signup failed", "", err)
		}

		hashedPin, err := bcrypt.GenerateFromPassword([]byte(req.PinCode), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash pin code", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Signup failed", "", err)
		}

		avatar := req.Avatar
		if avatar == "" {
			avatar = "🦁"
		}

		student := &model.Student{
			StudentID:    uuid.New(),
			Name:         req.Name,
			Avatar:       avatar,
			PinDigest:    pinDigest(req.PinCode),
			PinHash:      string(hashedPin),
			SoundEnabled: true,
		}

		// レコードの永続化が完了してからトークンを発行する
		if err := s.studentRepo.Create(ctx, tx, student); err != nil {
			if errors.Is(err, model.ErrConflict) {
				// 重複チェックとCreateの間に他のリクエストが滑り込んだ場合
				logger.Warn("Conflict during student creation (race condition)")
				return model.NewAppError("DUPLICATE_PIN", "PIN code already in use", "pinCode", model.ErrConflict)
			}
			logger.Error("Failed to create student in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Signup failed", "", err)
		}
		newStudent = student
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(newStudent.StudentID, model.PrincipalStudent)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "student_id", newStudent.StudentID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Signup failed", "", err)
	}

	logger.Info("Student registered", "student_id", newStudent.StudentID)
	return &model.StudentAuthResponse{
		Token:   token,
		Student: model.NewStudentResponse(newStudent),
	}, nil
}

// LoginStudent はPINのみで生徒を認証します。
func (s *authService) LoginStudent(ctx context.Context, req *model.StudentLoginRequest) (*model.StudentAuthResponse, error) {
	logger := middleware.GetLogger(ctx)

	student, err := s.studentRepo.FindByPinDigest(ctx, s.db, pinDigest(req.PinCode))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Student login failed: unknown PIN")
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "Invalid PIN code", "", model.ErrUnauthorized)
		}
		logger.Error("Student login failed: db error", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Login failed", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PinHash), []byte(req.PinCode)); err != nil {
		logger.Warn("Student login failed: pin mismatch", "student_id", student.StudentID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "Invalid PIN code", "", model.ErrUnauthorized)
	}

	token, err := s.generateToken(student.StudentID, model.PrincipalStudent)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "student_id", student.StudentID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Login failed", "", err)
	}

	logger.Info("Student login successful", "student_id", student.StudentID)
	return &model.StudentAuthResponse{
		Token:   token,
		Student: model.NewStudentResponse(student),
	}, nil
}

// RegisterTherapist はセラピストを作成し、トークンを返します。
// Emailは小文字に正規化した上で一意です。
func (s *authService) RegisterTherapist(ctx context.Context, req *model.TherapistSignupRequest) (*model.TherapistAuthResponse, error) {
	logger := middleware.GetLogger(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var newTherapist *model.Therapist

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.therapistRepo.FindByEmail(ctx, tx, email)
		if err == nil {
			logger.Warn("Email already exists", "email", email)
			return model.NewAppError("DUPLICATE_EMAIL", "Email already in use", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Signup failed", "", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Signup failed", "", err)
		}

		organization := req.Organization
		if organization == "" {
			organization = "Independent"
		}

		therapist := &model.Therapist{
			TherapistID:  uuid.New(),
			Name:         req.Name,
			Email:        email,
			PasswordHash: string(hashedPassword),
			Organization: organization,
		}

		if err := s.therapistRepo.Create(ctx, tx, therapist); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during therapist creation (race condition)")
				return model.NewAppError("DUPLICATE_EMAIL", "Email already in use", "email", model.ErrConflict)
			}
			logger.Error("Failed to create therapist in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Signup failed", "", err)
		}
		newTherapist = therapist
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(newTherapist.TherapistID, model.PrincipalTherapist)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "therapist_id", newTherapist.TherapistID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Signup failed", "", err)
	}

	logger.Info("Therapist registered", "therapist_id", newTherapist.TherapistID, "email", newTherapist.Email)
	return &model.TherapistAuthResponse{
		Token:     token,
		Therapist: model.NewTherapistResponse(newTherapist),
	}, nil
}

// LoginTherapist はEmailとパスワードでセラピストを認証します。
// Emailの存在有無を悟らせないため、失敗メッセージは一種類に統一しています。
func (s *authService) LoginTherapist(ctx context.Context, req *model.TherapistLoginRequest) (*model.TherapistAuthResponse, error) {
	logger := middleware.GetLogger(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	therapist, err := s.therapistRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Therapist login failed: unknown email")
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "Invalid credentials", "", model.ErrUnauthorized)
		}
		logger.Error("Therapist login failed: db error", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Login failed", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(therapist.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Therapist login failed: password mismatch", "therapist_id", therapist.TherapistID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "Invalid credentials", "", model.ErrUnauthorized)
	}

	token, err := s.generateToken(therapist.TherapistID, model.PrincipalTherapist)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "therapist_id", therapist.TherapistID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Login failed", "", err)
	}

	logger.Info("Therapist login successful", "therapist_id", therapist.TherapistID)
	return &model.TherapistAuthResponse{
		Token:     token,
		Therapist: model.NewTherapistResponse(therapist),
	}, nil
}
