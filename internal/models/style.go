package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Style is a dated set of daily tasks. The four statistics fields are a
// materialized view over the style's record history: they are only ever
// written with the output of the streak engine, never edited directly.
type Style struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	StartDate          string    `json:"startDate" gorm:"size:10;uniqueIndex;not null"`
	ValidCheckins      int       `json:"validCheckins" gorm:"not null;default:0"`
	FullyDone          int       `json:"fullyDone" gorm:"not null;default:0"`
	LongestStreak      int       `json:"longestStreak" gorm:"not null;default:0"`
	LongestFullyStreak int       `json:"longestFullyStreak" gorm:"not null;default:0"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	Tasks              []Task    `json:"tasks,omitempty" gorm:"foreignKey:StyleID"`
	Records            []Record  `json:"records,omitempty" gorm:"foreignKey:StyleID"`
}

func (s *Style) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Style DTOs
type NewTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type CreateStyleRequest struct {
	Tasks []NewTaskRequest `json:"tasks" validate:"required"`
}

type StyleSummary struct {
	StyleID            uuid.UUID `json:"styleId"`
	StartDate          string    `json:"startDate"`
	ValidCheckins      int       `json:"validCheckins"`
	FullyDone          int       `json:"fullyDone"`
	LongestStreak      int       `json:"longestStreak"`
	LongestFullyStreak int       `json:"longestFullyStreak"`
}
