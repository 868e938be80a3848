package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/converter"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/repository"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrTokenRevoked           = errors.New("token has been revoked")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout revokes the current access token and, when given, the refresh token.
	Logout(ctx context.Context, session *entity.Session, req *dto.LogoutRequest) error
	// RefreshToken rotates the pair. The session is rebuilt from the stored user.
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, session *entity.Session) (*dto.UserResponse, error)
	// ChangePassword signs the user out everywhere.
	ChangePassword(ctx context.Context, session *entity.Session, req *dto.ChangePasswordRequest) error
}

type authUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
	sessions   service.SessionStore
	activity   service.ActivityService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	sessions service.SessionStore,
	activity service.ActivityService,
) AuthUsecase {
	return &authUsecase{
		db:         db,
		log:        log,
		userRepo:   userRepo,
		jwtService: jwtService,
		sessions:   sessions,
		activity:   activity,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) Logout(ctx context.Context, session *entity.Session, req *dto.LogoutRequest) error {
	refreshTokenID := ""
	if req != nil && req.RefreshToken != "" {
		claims, err := u.jwtService.ValidateTokenOfType(req.RefreshToken, jwt.RefreshToken)
		if err == nil && claims.UserID == session.UserID {
			refreshTokenID = claims.TokenID
		}
	}

	if err := u.sessions.Revoke(ctx, session.UserID, session.TokenID, refreshTokenID); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateTokenOfType(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Single use: a replayed refresh token finds nothing to consume.
	consumed, err := u.sessions.ConsumeRefresh(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to consume refresh token: %+v", err)
		return nil, err
	}
	if !consumed {
		return nil, ErrTokenRevoked
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) Me(ctx context.Context, session *entity.Session) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, session *entity.Session, req *dto.ChangePasswordRequest) error {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCurrentPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}
	user.Password = string(hashedPassword)

	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	if err := u.sessions.RevokeAll(ctx, user.ID); err != nil {
		u.log.Errorf("CRITICAL: failed to revoke sessions of user %s: %+v", user.ID, err)
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityUserPasswordChange, user.Name, map[string]any{
		"user_id": user.ID.String(),
	})
	return nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	session := entity.NewSession(user, accessTokenID)
	if err := u.sessions.Save(ctx, session, refreshTokenID, u.jwtService.GetAccessExpiry(), u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:         converter.UserToResponse(user),
	}, nil
}
