package models

import (
	"time"
)

// BaseModel carries the columns shared by cache entities. Rows are hard
// deleted so cascades behave the same on every dialect.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
