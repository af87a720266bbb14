package model

import (
	"time"

	"gorm.io/gorm"
)

type Test struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null;uniqueIndex"` // "Academic Practice Test 1"
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type" gorm:"not null"` // "academic", "general-training"
	Skills      string         `json:"skills,omitempty"`     // comma-separated subset of listening,reading,writing,speaking
	Status      string         `json:"status" gorm:"default:'published'"` // "draft", "published", "archived"
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
