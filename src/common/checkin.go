package common

import (
	"errors"
	"time"

	"eventsphere/src/db"
	"eventsphere/src/models"
	"eventsphere/src/monitoring"
	"eventsphere/src/types"

	"gorm.io/gorm"
)

// ValidateTicket resolves a scanned ticket code for an organizer's event.
// organizerId zero skips the ownership check, for admin scans. The
// confirmed -> checked_in flip is a single guarded UPDATE, so a code
// scanned at two gates at once admits exactly one.
func ValidateTicket(organizerId uint, eventId uint, code string) (*types.ValidationDetail, error) {
	conn := db.GetDb()
	var booking models.Booking
	err := conn.
		Preload("Event").
		Preload("User").
		Where(&models.Booking{Code: code}).
		First(&booking).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.CheckinResult(string(types.TICKET_INVALID))
			return &types.ValidationDetail{Result: types.TICKET_INVALID, Reason: "unknown code"}, nil
		}
		return nil, err
	}
	detail := types.ValidationDetail{
		BookingID: booking.ID,
		Qty:       booking.Qty,
	}
	if booking.User != nil {
		detail.Attendee = booking.User.Name
	}
	if booking.Event != nil {
		detail.Event = booking.Event.Title
	}
	if booking.EventID != eventId || (organizerId > 0 && booking.Event != nil && booking.Event.OrganizerID != organizerId) {
		detail.Result = types.TICKET_INVALID
		detail.Reason = "code belongs to another event"
		monitoring.CheckinResult(string(detail.Result))
		return &detail, nil
	}
	if booking.Status != types.BOOKING_CONFIRMED {
		// Any resolved booking that is no longer confirmable reports
		// ALREADY_USED; the detail says whether it was scanned or voided.
		detail.Result = types.TICKET_ALREADY_USED
		if booking.Status == types.BOOKING_CHECKEDIN {
			detail.CheckedIn = booking.CheckedInAt
		} else {
			detail.Reason = "booking is " + string(booking.Status)
		}
		monitoring.CheckinResult(string(detail.Result))
		return &detail, nil
	}

	now := time.Now()
	res := conn.
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, types.BOOKING_CONFIRMED).
		Updates(map[string]any{"status": types.BOOKING_CHECKEDIN, "checked_in_at": &now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Another gate won the flip between our read and the update.
		if err := conn.First(&booking, booking.ID).Error; err != nil {
			return nil, err
		}
		detail.Result = types.TICKET_ALREADY_USED
		detail.CheckedIn = booking.CheckedInAt
		monitoring.CheckinResult(string(detail.Result))
		return &detail, nil
	}
	detail.Result = types.TICKET_VALID
	detail.CheckedIn = &now
	monitoring.CheckinResult(string(detail.Result))
	return &detail, nil
}
