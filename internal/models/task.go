package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task belongs to exactly one style. Position is the catalog order the
// submitted completion vector aligns to.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	StyleID     uuid.UUID `json:"styleId" gorm:"type:uuid;index;not null"`
	Position    int       `json:"position" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TaskStatus is a catalog task annotated with today's completion flag.
type TaskStatus struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsDone      bool   `json:"isDone"`
}
