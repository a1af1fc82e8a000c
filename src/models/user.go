package models

import (
	"eventsphere/src/types"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `json:"name,omitempty"`
	Email        string         `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string         `json:"-"`
	Role         types.UserRole `gorm:"default:'STUDENT'" json:"role,omitempty"`
	Faculty      string         `json:"faculty,omitempty"`
	Suspended    bool           `json:"suspended,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Events   []Event   `gorm:"foreignKey:organizer_id" json:"events,omitempty"`

	types.Timestamps
}
