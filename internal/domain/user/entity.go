// internal/domain/user/entity.go
package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is keyed by the Firebase uid.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignInAt time.Time `json:"lastSignInAt"`
}

var (
	ErrInvalidID          = errors.New("user: invalid id")
	ErrInvalidEmail       = errors.New("user: invalid email")
	ErrInvalidDisplayName = errors.New("user: invalid displayName")
	ErrInvalidRole        = errors.New("user: invalid role")
	ErrInvalidCreatedAt   = errors.New("user: invalid createdAt")
)

var MaxNameLength = 100

func New(id, email, displayName string, now time.Time) (User, error) {
	u := User{
		ID:           strings.TrimSpace(id),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  strings.TrimSpace(displayName),
		Role:         RoleCustomer,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
		LastSignInAt: now.UTC(),
	}
	if err := u.validate(); err != nil {
		return User{}, err
	}
	return u, nil
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// SignedIn records a sign-in and refreshes profile fields that Firebase owns.
func (u *User) SignedIn(email, displayName string, now time.Time) error {
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
		if !validEmail(e) {
			return ErrInvalidEmail
		}
		u.Email = e
	}
	if n := strings.TrimSpace(displayName); n != "" {
		if len([]rune(n)) > MaxNameLength {
			return ErrInvalidDisplayName
		}
		u.DisplayName = n
	}
	u.LastSignInAt = now.UTC()
	u.UpdatedAt = now.UTC()
	return nil
}

func (u *User) SetRole(r Role, now time.Time) error {
	if !r.Valid() {
		return ErrInvalidRole
	}
	u.Role = r
	u.UpdatedAt = now.UTC()
	return nil
}

func (u User) validate() error {
	if u.ID == "" {
		return ErrInvalidID
	}
	if u.Email != "" && !validEmail(u.Email) {
		return ErrInvalidEmail
	}
	if len([]rune(u.DisplayName)) > MaxNameLength {
		return ErrInvalidDisplayName
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if u.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}
