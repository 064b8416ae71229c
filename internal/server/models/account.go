// Package models defines server-side data models persisted by the stores.
package models

import "time"

// Role is the authorization role of an account.
type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Valid reports whether r belongs to the closed set of roles.
func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleAdmin
}

// Account is a registered user of the booking platform.
// Email is stored trimmed and lower-cased; PasswordHash is a bcrypt string.
type Account struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string `json:"-"`
	Role         Role
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountView is the sanitized representation returned to clients.
type AccountView struct {
	ID         string     `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Role       Role       `json:"role"`
	IsVerified bool       `json:"isVerified"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// View returns the sanitized account without timestamps.
func (a *Account) View() AccountView {
	return AccountView{
		ID:         a.ID,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Email:      a.Email,
		Phone:      a.Phone,
		Role:       a.Role,
		IsVerified: a.IsVerified,
	}
}

// ProfileView is View plus the creation and update timestamps.
func (a *Account) ProfileView() AccountView {
	v := a.View()
	created, updated := a.CreatedAt, a.UpdatedAt
	v.CreatedAt = &created
	v.UpdatedAt = &updated
	return v
}
