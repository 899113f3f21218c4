package domain

import (
	"time"
)

type Role string

const (
	RoleHR       Role = "HR"
	RoleHOD      Role = "HOD"
	RoleUnitHead Role = "UnitHead"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHR, RoleHOD, RoleUnitHead:
		return true
	}
	return false
}

type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CanLogin reports whether the activation gate lets this account in.
// Only HOD accounts wait for HR approval.
func (a *Account) CanLogin() bool {
	return a.Role != RoleHOD || a.IsActive
}

// DisplayName falls back to the email when no name was given at registration.
func (a *Account) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Email
}
