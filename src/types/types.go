package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_PENDING   EventStatus = "pending"
	EVENT_APPROVED  EventStatus = "approved"
	EVENT_REJECTED  EventStatus = "rejected"
	EVENT_CANCELED  EventStatus = "canceled"
	EVENT_COMPLETED EventStatus = "completed"
)

type BookingStatus string

const (
	BOOKING_CREATED   BookingStatus = "created"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELED  BookingStatus = "canceled"
	BOOKING_CHECKEDIN BookingStatus = "checked_in"
)

type HoldState string

const (
	HOLD_HELD      HoldState = "held"
	HOLD_COMMITTED HoldState = "committed"
	HOLD_RELEASED  HoldState = "released"
)

type ReviewDecision string

const (
	REVIEW_APPROVE ReviewDecision = "approve"
	REVIEW_REJECT  ReviewDecision = "reject"
)

type UserRole string

const (
	ROLE_STUDENT   UserRole = "STUDENT"
	ROLE_ORGANIZER UserRole = "ORGANIZER"
	ROLE_ADMIN     UserRole = "ADMIN"
)

// ValidationResult is the outcome of a ticket-code scan.
type ValidationResult string

const (
	TICKET_VALID        ValidationResult = "VALID"
	TICKET_ALREADY_USED ValidationResult = "ALREADY_USED"
	TICKET_INVALID      ValidationResult = "INVALID"
)

type CreateTicketTypeBody struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
	Seats uint            `json:"seats" binding:"required,min=1"`
}

type CreateEventRequestBody struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description,omitempty"`
	Category    string                 `json:"category" binding:"required"`
	Faculty     string                 `json:"faculty" binding:"required"`
	Venue       string                 `json:"venue" binding:"required"`
	DateTime    string                 `json:"date_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	TicketTypes []CreateTicketTypeBody `json:"ticket_types" binding:"required,min=1,dive"`
	Publish     bool                   `json:"publish,omitempty"`
}

type ReviewEventRequestBody struct {
	Decision ReviewDecision `json:"decision" binding:"required,oneof=approve reject"`
	Comment  string         `json:"comment" binding:"required"`
}

type CreateBookingRequestBody struct {
	EventID      uint  `json:"event" binding:"required"`
	TicketTypeID uint  `json:"ticket_type" binding:"required"`
	Qty          uint8 `json:"qty" binding:"required,min=1"`
}

type CreateAdmissionRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty" binding:"omitempty,oneof=STUDENT ORGANIZER"`
	Faculty  string `json:"faculty,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

// EventQueryFilters are the public listing filters. PriceMin/PriceMax apply
// to the cheapest ticket type of the event.
type EventQueryFilters struct {
	Category string   `form:"category"`
	Faculty  string   `form:"faculty"`
	Search   string   `form:"q"`
	PriceMin *float64 `form:"price_min"`
	PriceMax *float64 `form:"price_max"`
	Sort     string   `form:"sort" binding:"omitempty,oneof=date_asc date_desc price_asc price_desc name popular"`
	Page     int      `form:"page"`
	PerPage  int      `form:"per_page" binding:"omitempty,max=48"`
}

type Claims struct {
	Name string   `json:"name"`
	Role UserRole `json:"role"`
	jwt.RegisteredClaims
}

type JSONB map[string]any

// TicketAvailability is computed from the ledger counters, never stored.
type TicketAvailability struct {
	TicketTypeID uint `json:"ticket_type_id"`
	Available    uint `json:"available"`
	Reserved     uint `json:"reserved"`
	Sold         uint `json:"sold"`
}

type ValidationDetail struct {
	Result    ValidationResult `json:"result"`
	Reason    string           `json:"reason,omitempty"`
	BookingID uint             `json:"booking_id,omitempty"`
	Attendee  string           `json:"attendee,omitempty"`
	Event     string           `json:"event,omitempty"`
	Qty       uint8            `json:"qty,omitempty"`
	CheckedIn *time.Time       `json:"checked_in_at,omitempty"`
}
