package models

import (
	"eventsphere/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobTask records a scheduled one-shot job so pending jobs survive a
// restart and can be re-queued on boot.
type JobTask struct {
	ID        uuid.UUID   `gorm:"primarykey;type:uuid" json:"id"`
	Name      string      `json:"name,omitempty"`
	JobType   string      `json:"job_type,omitempty"`
	Status    string      `gorm:"default:'pending'" json:"status,omitempty"`
	RunsAt    time.Time   `json:"runs_at,omitempty"`
	Topic     string      `json:"topic,omitempty"`
	Payload   types.JSONB `gorm:"serializer:json" json:"payload,omitempty"`
	PayloadID string      `json:"payload_id,omitempty"`

	types.Timestamps
}

func (j *JobTask) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
