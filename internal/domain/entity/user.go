package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff account. Permissions are independent of Role after creation.
type User struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Email       string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string      `gorm:"type:varchar(32)" json:"phone"`
	Password    string      `gorm:"type:text;not null" json:"-"`
	Role        Role        `gorm:"type:varchar(20);not null;index" json:"role"`
	Avatar      string      `gorm:"type:text" json:"avatar"`
	Permissions Permissions `gorm:"type:jsonb;serializer:json;not null" json:"permissions"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Can checks whether the user holds a permission.
func (u *User) Can(p Permission) bool {
	return u.Permissions.Has(p)
}

// ChangeRole sets a new role and resets permissions to that role's template.
func (u *User) ChangeRole(role Role) {
	u.Role = role
	u.Permissions = DefaultPermissions(role)
}
