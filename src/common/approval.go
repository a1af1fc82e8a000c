package common

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"eventsphere/src/config"
	"eventsphere/src/db"
	"eventsphere/src/lib"
	"eventsphere/src/models"
	"eventsphere/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Events travel draft -> pending -> approved|rejected, with rejected able
// to re-enter pending on resubmission. Only approved events accept
// bookings. Status flips are guarded updates, same discipline as the
// booking state machine.

// CreateEvent registers an organizer's event together with its ticket
// types. Capacity is fixed here as the sum of the seat allocations. With
// Publish set the event goes straight to pending review.
func CreateEvent(organizerId uint, body *types.CreateEventRequestBody) (*models.Event, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.DateTime)
	if err != nil {
		return nil, err
	}
	status := types.EVENT_DRAFT
	if body.Publish {
		status = types.EVENT_PENDING
	}
	var capacity uint
	ticketTypes := []models.TicketType{}
	for _, tt := range body.TicketTypes {
		capacity += tt.Seats
		ticketTypes = append(ticketTypes, models.TicketType{
			Name:  tt.Name,
			Price: tt.Price,
			Total: tt.Seats,
		})
	}
	event := models.Event{
		Title:       body.Title,
		Category:    body.Category,
		Faculty:     body.Faculty,
		Venue:       body.Venue,
		DateTime:    dateTime,
		Status:      status,
		Capacity:    capacity,
		OrganizerID: organizerId,
		TicketTypes: ticketTypes,
	}
	if body.Description != "" {
		event.Description = &body.Description
	}
	conn := db.GetDb()
	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		event.Slug = fmt.Sprintf("%s-%d", slug.Make(event.Title), event.ID)
		return tx.Model(&event).Update("slug", event.Slug).Error
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// SubmitEvent moves a draft into the review queue.
func SubmitEvent(organizerId uint, eventId uint) (*models.Event, error) {
	return flipEventStatus(organizerId, eventId, types.EVENT_DRAFT, types.EVENT_PENDING, nil)
}

// ResubmitEvent puts a rejected event back in the queue under a new
// review cycle, so the previous decision stays on record.
func ResubmitEvent(organizerId uint, eventId uint) (*models.Event, error) {
	extra := map[string]any{"review_cycle": gorm.Expr("review_cycle + 1")}
	return flipEventStatus(organizerId, eventId, types.EVENT_REJECTED, types.EVENT_PENDING, extra)
}

// ReviewEvent records an admin decision on a pending event. Approval
// makes the event bookable and schedules its completion; rejection sends
// it back to the organizer with the comment.
func ReviewEvent(reviewerId uint, eventId uint, body *types.ReviewEventRequestBody) (*models.Event, error) {
	conn := db.GetDb()
	var event models.Event
	if err := conn.First(&event, eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if event.Status != types.EVENT_PENDING {
		return nil, ErrInvalidState
	}
	decided := types.EVENT_APPROVED
	if body.Decision == types.REVIEW_REJECT {
		decided = types.EVENT_REJECTED
	}
	err := conn.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Event{}).
			Where("id = ? AND status = ?", event.ID, types.EVENT_PENDING).
			Update("status", decided)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}
		review := models.EventReview{
			EventID:    event.ID,
			ReviewerID: reviewerId,
			Cycle:      event.ReviewCycle,
			Decision:   body.Decision,
			Comment:    body.Comment,
		}
		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, err
	}
	event.Status = decided

	if decided == types.EVENT_APPROVED {
		if err := ScheduleEventCompletion(&event); err != nil {
			log.Printf("[events] could not schedule completion for event %d: %s\n", event.ID, err.Error())
		}
	}
	go func(e models.Event) {
		lib.KafkaProduceMessage("events", lib.TOPIC_EVENTS_REVIEWED, map[string]any{
			"event":     e.ID,
			"organizer": e.OrganizerID,
			"decision":  string(body.Decision),
			"comment":   body.Comment,
		})
	}(event)
	return &event, nil
}

// CancelEvent voids an organizer's event and cascades to its open
// bookings. Held seats go back to the ledger; committed seats are voided
// with the booking.
func CancelEvent(organizerId uint, eventId uint) (*models.Event, error) {
	event, err := flipEventStatus(organizerId, eventId, "", types.EVENT_CANCELED, nil)
	if err != nil {
		return nil, err
	}
	conn := db.GetDb()
	var open []models.Booking
	if err := conn.
		Where("event_id = ? AND status IN ?", event.ID, []types.BookingStatus{types.BOOKING_CREATED, types.BOOKING_CONFIRMED}).
		Find(&open).
		Error; err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range open {
		b := &open[i]
		res := conn.
			Model(&models.Booking{}).
			Where("id = ? AND status IN ?", b.ID, []types.BookingStatus{types.BOOKING_CREATED, types.BOOKING_CONFIRMED}).
			Updates(map[string]any{"status": types.BOOKING_CANCELED, "canceled_at": &now})
		if res.Error != nil {
			log.Printf("[events] cascade cancel failed for booking %d: %s\n", b.ID, res.Error.Error())
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		if err := Release(b.HoldToken); err != nil {
			log.Printf("[events] release failed for booking %d: %s\n", b.ID, err.Error())
		}
		go func(b models.Booking) {
			lib.KafkaProduceMessage("bookings", lib.TOPIC_BOOKINGS_CANCELED, map[string]any{
				"booking": b.ID,
				"event":   b.EventID,
				"user":    b.UserID,
				"reason":  "event_canceled",
			})
		}(*b)
	}
	log.Printf("[events] canceled event %d with %d open bookings\n", event.ID, len(open))
	return event, nil
}

// CompleteEvent closes out an approved event after its date has passed.
func CompleteEvent(eventId uint) error {
	conn := db.GetDb()
	res := conn.
		Model(&models.Event{}).
		Where("id = ? AND status = ? AND date_time <= ?", eventId, types.EVENT_APPROVED, time.Now()).
		Update("status", types.EVENT_COMPLETED)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("[events] event %d not completed, status changed or date not reached\n", eventId)
	}
	return nil
}

// ScheduleEventCompletion queues a one-shot job at the event date and
// records it so boot can re-queue it after a restart.
func ScheduleEventCompletion(event *models.Event) error {
	conn := db.GetDb()
	jobId, err := lib.CreateOneTimeJob(event.DateTime, func(id uint) {
		if err := CompleteEvent(id); err != nil {
			log.Printf("[events] completion job failed for event %d: %s\n", id, err.Error())
		}
		conn := db.GetDb()
		conn.
			Model(&models.JobTask{}).
			Where(&models.JobTask{JobType: "event_completion", PayloadID: strconv.Itoa(int(id))}).
			Update("status", "done")
	}, event.ID)
	if err != nil {
		return err
	}
	task := models.JobTask{
		Name:      *jobId,
		JobType:   "event_completion",
		RunsAt:    event.DateTime,
		PayloadID: strconv.Itoa(int(event.ID)),
		Payload:   types.JSONB{"event": event.ID},
	}
	return conn.Create(&task).Error
}

func flipEventStatus(organizerId uint, eventId uint, from types.EventStatus, to types.EventStatus, extra map[string]any) (*models.Event, error) {
	conn := db.GetDb()
	var event models.Event
	query := conn.Where(&models.Event{ID: eventId})
	if organizerId > 0 {
		query = query.Where(&models.Event{OrganizerID: organizerId})
	}
	if err := query.First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	flip := conn.Model(&models.Event{})
	if from != "" {
		flip = flip.Where("id = ? AND status = ?", event.ID, from)
	} else {
		// Cancellation is allowed from any live state.
		flip = flip.Where("id = ? AND status IN ?", event.ID, []types.EventStatus{
			types.EVENT_DRAFT, types.EVENT_PENDING, types.EVENT_APPROVED, types.EVENT_REJECTED,
		})
	}
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := flip.Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidState
	}
	if err := conn.First(&event, event.ID).Error; err != nil {
		return nil, err
	}
	return &event, nil
}
