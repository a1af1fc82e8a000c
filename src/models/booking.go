package models

import (
	"eventsphere/src/types"
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID uint `gorm:"primarykey" json:"id"`
	// Code is the ticket code embedded in the QR payload.
	Code         string              `gorm:"uniqueIndex" json:"code,omitempty"`
	EventID      uint                `json:"event_id,omitempty"`
	TicketTypeID uint                `json:"ticket_type_id,omitempty"`
	UserID       uint                `json:"user_id,omitempty"`
	Qty          uint8               `json:"qty,omitempty"`
	UnitPrice    decimal.Decimal     `gorm:"type:decimal(10,2)" json:"unit_price"`
	ServiceFee   decimal.Decimal     `gorm:"type:decimal(10,2)" json:"service_fee"`
	Subtotal     decimal.Decimal     `gorm:"type:decimal(10,2)" json:"subtotal"`
	Status       types.BookingStatus `gorm:"default:'created'" json:"status,omitempty"`
	// HoldToken ties the booking to its inventory hold in the ledger.
	HoldToken     string     `json:"-"`
	HoldExpiresAt time.Time  `json:"hold_expires_at,omitempty"`
	CanceledAt    *time.Time `json:"canceled_at,omitempty"`
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`

	Event      *Event      `gorm:"foreignKey:event_id" json:"event,omitempty"`
	TicketType *TicketType `gorm:"foreignKey:ticket_type_id" json:"ticket_type,omitempty"`
	User       *User       `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
