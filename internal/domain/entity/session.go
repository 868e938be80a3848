package entity

import "github.com/google/uuid"

// Session is the authenticated identity attached to a request.
// It is stored in Redis under the access token id and rebuilt on login.
type Session struct {
	UserID      uuid.UUID   `json:"user_id"`
	TokenID     string      `json:"token_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Avatar      string      `json:"avatar"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
}

func NewSession(user *User, tokenID string) *Session {
	return &Session{
		UserID:      user.ID,
		TokenID:     tokenID,
		Name:        user.Name,
		Email:       user.Email,
		Avatar:      user.Avatar,
		Role:        user.Role,
		Permissions: user.Permissions.Normalize(),
	}
}

func (s *Session) Can(p Permission) bool {
	if s == nil {
		return false
	}
	return s.Permissions.Has(p)
}

// Actor converts the session into the activity log author.
func (s *Session) Actor() ActivityActor {
	if s == nil {
		return ActivityActor{Name: "public booking"}
	}
	return ActivityActor{
		UserID: s.UserID.String(),
		Name:   s.Name,
		Avatar: s.Avatar,
	}
}
