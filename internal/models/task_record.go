package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRecord is one task's completion flag on one record, unique per
// (record, task) and upserted on every submission.
type TaskRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecordID  uuid.UUID `json:"recordId" gorm:"type:uuid;uniqueIndex:idx_task_records_record_task;not null"`
	TaskID    uuid.UUID `json:"taskId" gorm:"type:uuid;uniqueIndex:idx_task_records_record_task;not null"`
	IsDone    bool      `json:"isDone" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (tr *TaskRecord) BeforeCreate(tx *gorm.DB) error {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	return nil
}
