package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold. Anything other than manager is treated as server.
const (
	RoleServer  = "server"
	RoleManager = "manager"
)

// User represents a staff member. The primary key is the identity
// provider's UUID, so rows can be provisioned lazily on first request.
type User struct {
	ID           string     `gorm:"primaryKey;size:64" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Role         string     `gorm:"size:20;not null;default:'server'" json:"role"`
	RestaurantID *string    `gorm:"size:64" json:"restaurant_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	TipEntries   []TipEntry `json:"-"`
}

// IsManager reports whether the user sees all staff data.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// AuthIdentity is what the external auth provider asserts about a caller.
type AuthIdentity struct {
	ID    string
	Email string
	Name  string
}

// GetOrCreateUser resolves the local user row for an authenticated identity,
// creating it with the default server role on first touch. Idempotent; called
// once per request at the auth boundary rather than inside handlers.
func GetOrCreateUser(db *gorm.DB, ident AuthIdentity) (*User, error) {
	var user User
	err := db.Where("id = ?", ident.ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = User{
		ID:    ident.ID,
		Email: ident.Email,
		Name:  ident.Name,
		Role:  RoleServer,
	}
	if err := db.Create(&user).Error; err != nil {
		// Two first requests for the same identity can race on the insert;
		// whoever lost re-reads the winner's row.
		var existing User
		if rerr := db.Where("id = ?", ident.ID).First(&existing).Error; rerr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &user, nil
}
