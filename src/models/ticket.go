package models

import (
	"eventsphere/src/types"

	"github.com/shopspring/decimal"
)

// TicketType is a priced admission category with its own seat allocation.
// The counter triple (Total, Reserved, Sold) is owned by the inventory
// ledger; nothing else may write it. Invariant: reserved + sold <= total.
type TicketType struct {
	ID       uint            `gorm:"primarykey" json:"id"`
	EventID  uint            `json:"event_id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Total    uint            `json:"total"`
	Reserved uint            `json:"reserved"`
	Sold     uint            `json:"sold"`

	Event Event `json:"event,omitempty"`

	types.Timestamps
}

// InventoryHold is the reservation token handed out by the ledger. The
// state column is the idempotency guard: commit and release flip it with a
// guarded update, so replays become no-ops.
type InventoryHold struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	Token        string          `gorm:"uniqueIndex" json:"token"`
	TicketTypeID uint            `json:"ticket_type_id,omitempty"`
	Qty          uint            `json:"qty,omitempty"`
	State        types.HoldState `gorm:"default:'held'" json:"state,omitempty"`

	TicketType TicketType `json:"-"`

	types.Timestamps
}
