package common

import (
	"errors"
	"log"
	"time"

	"eventsphere/src/config"
	"eventsphere/src/db"
	"eventsphere/src/lib"
	"eventsphere/src/models"
	"eventsphere/src/monitoring"
	"eventsphere/src/types"
	"eventsphere/src/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking lifecycle: created -> confirmed -> checked_in, with canceled
// reachable from created and confirmed. Every transition is a guarded
// UPDATE on the status column so racing callers resolve to exactly one
// winner and the loser sees a no-op.

// bookingFees prices a booking at reservation time. Swappable so a flat
// or per-category policy can replace the percentage default.
var bookingFees utils.FeePolicy = utils.DefaultFeePolicy

// CreateBooking reserves seats and opens a booking in created state. The
// unit price is frozen at reservation time; later price edits never touch
// existing bookings. Free bookings skip the hold window and confirm
// immediately.
func CreateBooking(userId uint, body *types.CreateBookingRequestBody) (*models.Booking, error) {
	conn := db.GetDb()
	var event models.Event
	if err := conn.
		Where(&models.Event{ID: body.EventID}).
		First(&event).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if event.Status != types.EVENT_APPROVED || time.Now().After(event.DateTime) {
		return nil, ErrEventNotBookable
	}

	var tt models.TicketType
	if err := conn.
		Where(&models.TicketType{ID: body.TicketTypeID, EventID: event.ID}).
		First(&tt).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownTicketType
		}
		return nil, err
	}

	token, err := TryReserve(tt.ID, uint(body.Qty))
	if err != nil {
		monitoring.BookingOperation("create", "rejected")
		return nil, err
	}

	serviceFee, total := bookingFees(tt.Price, body.Qty)
	booking := models.Booking{
		Code:          uuid.NewString(),
		EventID:       event.ID,
		TicketTypeID:  tt.ID,
		UserID:        userId,
		Qty:           body.Qty,
		UnitPrice:     tt.Price,
		ServiceFee:    serviceFee,
		Subtotal:      total,
		Status:        types.BOOKING_CREATED,
		HoldToken:     token,
		HoldExpiresAt: time.Now().Add(config.HoldWindow()),
	}
	if err := conn.Create(&booking).Error; err != nil {
		// The booking row never existed, so hand the seats back.
		if rerr := Release(token); rerr != nil {
			log.Printf("[bookings] failed to release hold %s: %s\n", token, rerr.Error())
		}
		return nil, err
	}
	monitoring.BookingOperation("create", "ok")

	if total.Equal(decimal.Zero) {
		return ConfirmBooking(userId, booking.ID)
	}
	return &booking, nil
}

// ConfirmBooking finalizes a created booking within its hold window and
// commits the reserved seats to sold. Confirming an already confirmed
// booking is a no-op; a booking whose hold lapsed is expired on the spot.
func ConfirmBooking(userId uint, bookingId uint) (*models.Booking, error) {
	conn := db.GetDb()
	booking, err := bookingForUser(userId, bookingId)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case types.BOOKING_CREATED:
	case types.BOOKING_CONFIRMED:
		return booking, nil
	default:
		return nil, ErrInvalidState
	}
	if time.Now().After(booking.HoldExpiresAt) {
		if expireBooking(booking) {
			monitoring.StaleHoldsReclaimed(1)
		}
		monitoring.BookingOperation("confirm", "expired")
		return nil, ErrHoldExpired
	}

	res := conn.
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, types.BOOKING_CREATED).
		Update("status", types.BOOKING_CONFIRMED)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race. The sweep or a cancel got there first.
		if err := conn.First(booking, booking.ID).Error; err != nil {
			return nil, err
		}
		if booking.Status == types.BOOKING_CONFIRMED {
			return booking, nil
		}
		monitoring.BookingOperation("confirm", "conflict")
		return nil, ErrInvalidState
	}
	if err := Commit(booking.HoldToken); err != nil {
		log.Printf("[bookings] commit failed for booking %d: %s\n", booking.ID, err.Error())
		// Put the booking back in created so the seats are not shown as
		// confirmed while the hold never settled.
		revert := conn.
			Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, types.BOOKING_CONFIRMED).
			Update("status", types.BOOKING_CREATED)
		if revert.Error != nil {
			log.Printf("[bookings] revert failed for booking %d: %s\n", booking.ID, revert.Error.Error())
		}
		return nil, err
	}
	booking.Status = types.BOOKING_CONFIRMED
	monitoring.BookingOperation("confirm", "ok")

	go func(b models.Booking) {
		lib.KafkaProduceMessage("bookings", lib.TOPIC_BOOKINGS_CONFIRMED, map[string]any{
			"booking": b.ID,
			"event":   b.EventID,
			"user":    b.UserID,
			"code":    b.Code,
		})
	}(*booking)
	return booking, nil
}

// CancelBooking voids a created or confirmed booking. Seats held by an
// unconfirmed booking go back to the pool; seats of a confirmed booking
// stay sold because the hold was already committed.
func CancelBooking(userId uint, bookingId uint) (*models.Booking, error) {
	conn := db.GetDb()
	booking, err := bookingForUser(userId, bookingId)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case types.BOOKING_CREATED, types.BOOKING_CONFIRMED:
	case types.BOOKING_CANCELED:
		return booking, nil
	default:
		return nil, ErrInvalidState
	}

	var event models.Event
	if err := conn.First(&event, booking.EventID).Error; err != nil {
		return nil, err
	}
	if time.Now().After(event.DateTime.Add(-config.CancelCutoff())) {
		return nil, ErrCancellationWindowClosed
	}

	now := time.Now()
	res := conn.
		Model(&models.Booking{}).
		Where("id = ? AND status IN ?", booking.ID, []types.BookingStatus{types.BOOKING_CREATED, types.BOOKING_CONFIRMED}).
		Updates(map[string]any{"status": types.BOOKING_CANCELED, "canceled_at": &now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		monitoring.BookingOperation("cancel", "conflict")
		return nil, ErrInvalidState
	}
	// No-op for committed holds, which keeps confirmed-then-canceled seats
	// out of resale.
	if err := Release(booking.HoldToken); err != nil {
		log.Printf("[bookings] release failed for booking %d: %s\n", booking.ID, err.Error())
	}
	booking.Status = types.BOOKING_CANCELED
	booking.CanceledAt = &now
	monitoring.BookingOperation("cancel", "ok")

	go func(b models.Booking) {
		lib.KafkaProduceMessage("bookings", lib.TOPIC_BOOKINGS_CANCELED, map[string]any{
			"booking": b.ID,
			"event":   b.EventID,
			"user":    b.UserID,
		})
	}(*booking)
	return booking, nil
}

// ExpireStaleHolds reclaims inventory from bookings that sat in created
// state past their hold window. Runs from the scheduler; safe to overlap
// with user-driven confirms because both sides flip the status with
// guarded updates.
func ExpireStaleHolds() {
	conn := db.GetDb()
	var stale []models.Booking
	if err := conn.
		Where("status = ? AND hold_expires_at < ?", types.BOOKING_CREATED, time.Now()).
		Find(&stale).
		Error; err != nil {
		log.Printf("[bookings] sweep query failed: %s\n", err.Error())
		return
	}
	reclaimed := 0
	for i := range stale {
		if expireBooking(&stale[i]) {
			reclaimed++
		}
	}
	if reclaimed > 0 {
		monitoring.StaleHoldsReclaimed(reclaimed)
		log.Printf("[bookings] sweep reclaimed %d stale holds\n", reclaimed)
	}
}

func expireBooking(booking *models.Booking) bool {
	conn := db.GetDb()
	now := time.Now()
	res := conn.
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, types.BOOKING_CREATED).
		Updates(map[string]any{"status": types.BOOKING_CANCELED, "canceled_at": &now})
	if res.Error != nil {
		log.Printf("[bookings] expire failed for booking %d: %s\n", booking.ID, res.Error.Error())
		return false
	}
	if res.RowsAffected == 0 {
		return false
	}
	if err := Release(booking.HoldToken); err != nil {
		log.Printf("[bookings] release failed for booking %d: %s\n", booking.ID, err.Error())
	}
	booking.Status = types.BOOKING_CANCELED
	booking.CanceledAt = &now
	return true
}

func bookingForUser(userId uint, bookingId uint) (*models.Booking, error) {
	conn := db.GetDb()
	var booking models.Booking
	query := conn.Where(&models.Booking{ID: bookingId})
	if userId > 0 {
		query = query.Where(&models.Booking{UserID: userId})
	}
	if err := query.First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}
