package converter

import (
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		Role:        string(user.Role),
		Avatar:      user.Avatar,
		Permissions: PermissionsToStrings(user.Permissions),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// SessionToResponse renders the cached identity of the current request
func SessionToResponse(session *entity.Session) *dto.UserResponse {
	if session == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:          session.UserID,
		Name:        session.Name,
		Email:       session.Email,
		Role:        string(session.Role),
		Avatar:      session.Avatar,
		Permissions: PermissionsToStrings(session.Permissions),
	}
}

func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

func PermissionsToStrings(perms entity.Permissions) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms.Normalize() {
		out = append(out, string(p))
	}
	return out
}

func StringsToPermissions(values []string) entity.Permissions {
	perms := make(entity.Permissions, 0, len(values))
	for _, v := range values {
		perms = append(perms, entity.Permission(v))
	}
	return perms.Normalize()
}
