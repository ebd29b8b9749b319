package models

import (
	"strings"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserBanned   UserStatus = "banned"
)

type User struct {
	gorm.Model
	// IdentityID is the subject issued by the identity provider.
	IdentityID string     `json:"-" gorm:"uniqueIndex"`
	Email      string     `json:"email" gorm:"index"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone" gorm:"index"`
	Avatar     string     `json:"avatar"`
	Role       Role       `json:"role" gorm:"not null;default:customer"`
	Status     UserStatus `json:"status" gorm:"not null;default:active"`
}

func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Phone = NormalizePhone(u.Phone)
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	if u.Status == "" {
		u.Status = UserActive
	}
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}

func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleCustomer
}

func ValidUserStatus(s UserStatus) bool {
	return s == UserActive || s == UserInactive || s == UserBanned
}

// UserStats are derived from bookings at read time.
type UserStats struct {
	BookingCount int64 `json:"bookingCount"`
	TotalSpend   int64 `json:"totalSpend"`
}
