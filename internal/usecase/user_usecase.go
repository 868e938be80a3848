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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrCannotDeleteSelf   = errors.New("you cannot delete your own account")
)

type UserUsecase interface {
	CreateUser(ctx context.Context, session *entity.Session, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context) (*dto.UserListResponse, error)
	// UpdateUser resets permissions to the role defaults when the role changes.
	UpdateUser(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	UpdatePermissions(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdatePermissionsRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, session *entity.Session, id uuid.UUID) error
	UploadAvatar(ctx context.Context, session *entity.Session, id uuid.UUID, upload *dto.AvatarUpload) (*dto.UserResponse, error)
}

type userUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	userRepo      repository.UserRepository
	sessions      service.SessionStore
	activity      service.ActivityService
	avatars       service.AvatarStorage
	defaultAvatar string
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	sessions service.SessionStore,
	activity service.ActivityService,
	avatars service.AvatarStorage,
	defaultAvatar string,
) UserUsecase {
	return &userUsecase{
		db:            db,
		log:           log,
		userRepo:      userRepo,
		sessions:      sessions,
		activity:      activity,
		avatars:       avatars,
		defaultAvatar: defaultAvatar,
	}
}

func (u *userUsecase) CreateUser(ctx context.Context, session *entity.Session, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := u.userRepo.FindByEmail(db, email)
	if err != nil {
		u.log.Warnf("Failed to check user email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	role := entity.Role(req.Role)
	user := &entity.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Phone:       strings.TrimSpace(req.Phone),
		Password:    string(hashedPassword),
		Role:        role,
		Avatar:      u.defaultAvatar,
		Permissions: entity.DefaultPermissions(role),
	}

	if err := u.userRepo.Create(db, user); err != nil {
		if isDuplicateKeyError(err, constraintUserEmail) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityUserCreate, user.Name, map[string]any{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
	})

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.findUser(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetAllUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

func (u *userUsecase) UpdateUser(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.findUser(db, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			existing, err := u.userRepo.FindByEmail(db, email)
			if err != nil {
				u.log.Warnf("Failed to check user email: %+v", err)
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, ErrEmailAlreadyExists
			}
		}
		user.Email = email
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	roleChanged := false
	if req.Role != nil && entity.Role(*req.Role) != user.Role {
		user.ChangeRole(entity.Role(*req.Role))
		roleChanged = true
	}

	if err := u.userRepo.Update(db, user); err != nil {
		if isDuplicateKeyError(err, constraintUserEmail) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update user %s: %+v", id, err)
		return nil, err
	}

	// Sessions carry the permission set, so a role change must force a new login.
	if roleChanged {
		u.revokeSessions(ctx, user.ID)
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityUserUpdate, user.Name, map[string]any{
		"user_id":      user.ID.String(),
		"role":         string(user.Role),
		"role_changed": roleChanged,
	})

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) UpdatePermissions(ctx context.Context, session *entity.Session, id uuid.UUID, req *dto.UpdatePermissionsRequest) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.findUser(db, id)
	if err != nil {
		return nil, err
	}

	user.Permissions = converter.StringsToPermissions(req.Permissions).Normalize()
	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to update permissions of user %s: %+v", id, err)
		return nil, err
	}

	u.revokeSessions(ctx, user.ID)

	u.activity.Record(ctx, session.Actor(), entity.ActivityPermissionsUpdate, user.Name, map[string]any{
		"user_id":     user.ID.String(),
		"permissions": converter.PermissionsToStrings(user.Permissions),
	})

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, session *entity.Session, id uuid.UUID) error {
	if session != nil && session.UserID == id {
		return ErrCannotDeleteSelf
	}

	db := u.db.WithContext(ctx)
	user, err := u.findUser(db, id)
	if err != nil {
		return err
	}

	rows, err := u.userRepo.Delete(db, id)
	if err != nil {
		u.log.Warnf("Failed to delete user %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	u.revokeSessions(ctx, id)

	u.activity.Record(ctx, session.Actor(), entity.ActivityUserDelete, user.Name, map[string]any{
		"user_id": id.String(),
	})
	return nil
}

func (u *userUsecase) UploadAvatar(ctx context.Context, session *entity.Session, id uuid.UUID, upload *dto.AvatarUpload) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.findUser(db, id)
	if err != nil {
		return nil, err
	}

	url, err := u.avatars.Upload(ctx, "users", user.ID, upload.File, upload.Size, upload.ContentType)
	if err != nil {
		return nil, err
	}
	user.Avatar = url

	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to save avatar of user %s: %+v", id, err)
		return nil, err
	}

	u.activity.Record(ctx, session.Actor(), entity.ActivityUserUpdate, user.Name, map[string]any{
		"user_id": user.ID.String(),
		"avatar":  url,
	})

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) findUser(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// revokeSessions logs instead of failing: the database change already happened.
func (u *userUsecase) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if err := u.sessions.RevokeAll(ctx, userID); err != nil {
		u.log.Errorf("CRITICAL: failed to revoke sessions of user %s: %+v", userID, err)
	}
}
