package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is one day's submission for a style. At most one record exists per
// (style, date); resubmitting the same day overwrites it.
type Record struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	StyleID     uuid.UUID    `json:"styleId" gorm:"type:uuid;uniqueIndex:idx_records_style_date;not null"`
	RecordDate  string       `json:"recordDate" gorm:"size:10;uniqueIndex:idx_records_style_date;not null"`
	Message     string       `json:"message"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	TaskRecords []TaskRecord `json:"taskRecords,omitempty" gorm:"foreignKey:RecordID"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Record DTOs
type SubmitRequest struct {
	StyleID string  `json:"styleId"`
	Finish  []int   `json:"finish"`
	Message *string `json:"message"`
}

// TodayView is the response for the today-task endpoint.
type TodayView struct {
	Style   StyleSummary `json:"style"`
	Tasks   []TaskStatus `json:"tasks"`
	Message string       `json:"message"`
}
