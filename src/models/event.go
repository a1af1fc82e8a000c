package models

import (
	"eventsphere/src/types"
	"time"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Slug        string            `json:"slug,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Faculty     string            `json:"faculty,omitempty"`
	Venue       string            `json:"venue,omitempty"`
	DateTime    time.Time         `json:"date_time,omitempty"`
	Status      types.EventStatus `gorm:"default:'draft'" json:"status,omitempty"`
	// Capacity is the sum of the ticket types' seat totals, fixed at submit.
	Capacity    uint `json:"capacity,omitempty"`
	OrganizerID uint `json:"organizer,omitempty"`
	// ReviewCycle counts submissions; a resubmission after rejection starts a
	// new cycle instead of overwriting the previous decision.
	ReviewCycle uint `gorm:"default:1" json:"review_cycle,omitempty"`

	Organizer   User          `gorm:"foreignKey:organizer_id" json:"-"`
	TicketTypes []TicketType  `gorm:"foreignKey:event_id" json:"ticket_types,omitempty"`
	Reviews     []EventReview `gorm:"foreignKey:event_id" json:"reviews,omitempty"`

	types.Timestamps
}

type EventReview struct {
	ID         uint                 `gorm:"primarykey" json:"id"`
	EventID    uint                 `json:"event_id,omitempty"`
	ReviewerID uint                 `json:"reviewer_id,omitempty"`
	Cycle      uint                 `json:"cycle,omitempty"`
	Decision   types.ReviewDecision `json:"decision,omitempty"`
	Comment    string               `json:"comment,omitempty"`

	Event    Event `gorm:"foreignKey:event_id" json:"-"`
	Reviewer User  `gorm:"foreignKey:reviewer_id" json:"-"`

	types.Timestamps
}
