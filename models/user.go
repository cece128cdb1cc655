package models

import (
	"strings"
	"time"
)

// Role controls access to the admin surface.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(255);unique;not null" json:"username"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `gorm:"type:varchar(255)" json:"firstName"`
	LastName  string    `gorm:"type:varchar(255)" json:"lastName"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	Locked    bool      `gorm:"default:false" json:"-"`
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Address is a saved shipping address owned by a user.
type Address struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	RecipientName string    `gorm:"type:varchar(255);not null" json:"recipientName"`
	Phone         string    `gorm:"type:varchar(20)" json:"phone"`
	Street        string    `gorm:"type:varchar(255)" json:"street"`
	Ward          string    `gorm:"type:varchar(255)" json:"ward"`
	District      string    `gorm:"type:varchar(255)" json:"district"`
	Province      string    `gorm:"type:varchar(255)" json:"province"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"-"`
}

// UserResponse hides credential fields from API payloads.
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      Role   `json:"role"`
	Enabled   bool   `json:"enabled"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		Enabled:   u.Enabled,
	}
}
