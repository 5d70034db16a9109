package models

import (
	"time"
)

// User represents the users table
// DB: users
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"column:username;size:255;not null;uniqueIndex:users_username_key" json:"username"`
	Email          string    `gorm:"column:email;size:255;not null;uniqueIndex:users_email_key" json:"email"`
	HashedPassword string    `gorm:"column:hashed_password;size:255;not null" json:"-"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
