package models

import "time"

// UserProfile is the signed-in customer as returned by the auth endpoints and
// persisted next to the token in the session store.
type UserProfile struct {
	ID         string `json:"id" mapstructure:"id"`
	Email      string `json:"email" mapstructure:"email"`
	FirstName  string `json:"first_name" mapstructure:"first_name"`
	LastName   string `json:"last_name,omitempty" mapstructure:"last_name"`
	Phone      string `json:"phone,omitempty" mapstructure:"phone"`
	IsAdmin    bool   `json:"is_admin" mapstructure:"is_admin"`
	IsVerified bool   `json:"is_verified,omitempty" mapstructure:"is_verified"`
}

// DisplayName is what the header shows for a signed-in user.
func (p UserProfile) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	return "User"
}

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type Registration struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone,omitempty"`
}

// User is the sandbox API's account record.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Phone        string    `db:"phone"`
	IsAdmin      bool      `db:"is_admin"`
	IsVerified   bool      `db:"is_verified"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.Phone,
		IsAdmin:    u.IsAdmin,
		IsVerified: u.IsVerified,
	}
}
