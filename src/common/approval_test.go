package common

import (
	"testing"
	"time"

	"eventsphere/src/config"
	"eventsphere/src/models"
	"eventsphere/src/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func createEventBody(dateTime time.Time, publish bool) *types.CreateEventRequestBody {
	return &types.CreateEventRequestBody{
		Title:    "Robotics Expo",
		Category: "academic",
		Faculty:  "engineering",
		Venue:    "Lab 3",
		DateTime: dateTime.Format(config.TIME_PARSE_FORMAT),
		TicketTypes: []types.CreateTicketTypeBody{
			{Name: "General", Price: decimal.NewFromFloat(25), Seats: 40},
			{Name: "VIP", Price: decimal.NewFromFloat(60), Seats: 10},
		},
		Publish: publish,
	}
}

func TestCreateEventDraft(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)

	event, err := CreateEvent(organizer.ID, createEventBody(time.Now().Add(96*time.Hour), false))
	assert.Nil(t, err)
	assert.Equal(t, types.EVENT_DRAFT, event.Status)
	assert.Equal(t, uint(50), event.Capacity)
	assert.Contains(t, event.Slug, "robotics-expo")
	assert.Equal(t, uint(1), event.ReviewCycle)
}

func TestCreateEventPublishGoesPending(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)

	event, err := CreateEvent(organizer.ID, createEventBody(time.Now().Add(96*time.Hour), true))
	assert.Nil(t, err)
	assert.Equal(t, types.EVENT_PENDING, event.Status)
}

func TestSubmitEvent(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	event, _ := CreateEvent(organizer.ID, createEventBody(time.Now().Add(96*time.Hour), false))

	submitted, err := SubmitEvent(organizer.ID, event.ID)
	assert.Nil(t, err)
	assert.Equal(t, types.EVENT_PENDING, submitted.Status)

	// a second submit finds nothing in draft
	_, err = SubmitEvent(organizer.ID, event.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitSomeoneElsesEvent(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	other := seedUser(t, conn, types.ROLE_ORGANIZER)
	event, _ := CreateEvent(organizer.ID, createEventBody(time.Now().Add(96*time.Hour), false))

	_, err := SubmitEvent(other.ID, event.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewApproveMakesBookable(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	admin := seedUser(t, conn, types.ROLE_ADMIN)
	student := seedUser(t, conn, types.ROLE_STUDENT)
	event, _ := CreateEvent(organizer.ID, createEventBody(time.Now().Add(96*time.Hour), true))

	var tts []models.TicketType
	assert.Nil(t, conn.Where("event_id = ?", event.ID).Find(&tts).Error)

	_, err := CreateBooking(student.ID, &types.CreateBookingRequestBody{
		EventID:      event.ID,
		TicketTypeID: tts[0].ID,
		Qty:          1,
	})
	assert.ErrorIs(t, err, ErrEventNotBookable)

	reviewed, err := ReviewEvent(admin.ID, event.ID, &types.ReviewEventRequestBody{
		Decision: types.REVIEW_APPROVE,
		Comment:  "Looks good",
	})
	assert.Nil(t, err)
	assert.Equal(t, types.EVENT_APPROVED, reviewed.Status)

	booking, err := CreateBooking(student.ID, &types.CreateBookingRequestBody{
		EventID:      event.ID,
		TicketTypeID: tts[0].ID,
		Qty:          1,
	})
	assert.Nil(t, err)
	assert.Equal(t, types.BOOKING_CREATED, booking.Status)

	// approval queues the completion job
	var task models.JobTask
	err = conn.Where(&models.JobTask{JobType: "event_completion"}).First(&task).Error
	assert.Nil(t, err)
	assert.Equal(t, "pending", task.Status)
}

func TestReviewRejectAndResubmit(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	admin := seedUser(t, conn, types.ROLE_ADMIN)
	event, _ := CreateEvent(organizer.ID, createEventBody(time.Now().Add(96*time.Hour), true))

	rejected, err := ReviewEvent(admin.ID, event.ID, &types.ReviewEventRequestBody{
		Decision: types.REVIEW_REJECT,
		Comment:  "Venue is double booked",
	})
	assert.Nil(t, err)
	assert.Equal(t, types.EVENT_REJECTED, rejected.Status)

	resubmitted, err := ResubmitEvent(organizer.ID, event.ID)
	assert.Nil(t, err)
	assert.Equal(t, types.EVENT_PENDING, resubmitted.Status)
	assert.Equal(t, uint(2), resubmitted.ReviewCycle)

	_, err = ReviewEvent(admin.ID, event.ID, &types.ReviewEventRequestBody{
		Decision: types.REVIEW_APPROVE,
		Comment:  "Conflict resolved",
	})
	assert.Nil(t, err)

	// both decisions stay on record, tagged with their cycle
	var reviews []models.EventReview
	assert.Nil(t, conn.Where("event_id = ?", event.ID).Order("cycle asc").Find(&reviews).Error)
	assert.Len(t, reviews, 2)
	assert.Equal(t, types.REVIEW_REJECT, reviews[0].Decision)
	assert.Equal(t, uint(1), reviews[0].Cycle)
	assert.Equal(t, types.REVIEW_APPROVE, reviews[1].Decision)
	assert.Equal(t, uint(2), reviews[1].Cycle)
}

func TestReviewNonPendingEvent(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	admin := seedUser(t, conn, types.ROLE_ADMIN)
	event, _ := CreateEvent(organizer.ID, createEventBody(time.Now().Add(96*time.Hour), false))

	_, err := ReviewEvent(admin.ID, event.ID, &types.ReviewEventRequestBody{
		Decision: types.REVIEW_APPROVE,
		Comment:  "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelEventCascades(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	student := seedUser(t, conn, types.ROLE_STUDENT)
	event := seedEvent(t, conn, organizer.ID, types.EVENT_APPROVED, time.Now().Add(96*time.Hour), 20, 30)
	tt := &event.TicketTypes[0]

	held, err := CreateBooking(student.ID, &types.CreateBookingRequestBody{
		EventID: event.ID, TicketTypeID: tt.ID, Qty: 2,
	})
	assert.Nil(t, err)
	confirmed, err := CreateBooking(student.ID, &types.CreateBookingRequestBody{
		EventID: event.ID, TicketTypeID: tt.ID, Qty: 1,
	})
	assert.Nil(t, err)
	_, err = ConfirmBooking(student.ID, confirmed.ID)
	assert.Nil(t, err)

	canceled, err := CancelEvent(organizer.ID, event.ID)
	assert.Nil(t, err)
	assert.Equal(t, types.EVENT_CANCELED, canceled.Status)

	assert.Equal(t, types.BOOKING_CANCELED, reloadBooking(t, conn, held.ID).Status)
	assert.Equal(t, types.BOOKING_CANCELED, reloadBooking(t, conn, confirmed.ID).Status)

	// the unconfirmed hold went back, the committed seat stayed sold
	_, reserved, sold, err := TicketSeats(tt.ID)
	assert.Nil(t, err)
	assert.Equal(t, uint(0), reserved)
	assert.Equal(t, uint(1), sold)

	// no more bookings after cancellation
	_, err = CreateBooking(student.ID, &types.CreateBookingRequestBody{
		EventID: event.ID, TicketTypeID: tt.ID, Qty: 1,
	})
	assert.ErrorIs(t, err, ErrEventNotBookable)
}

func TestCompleteEvent(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	event := seedEvent(t, conn, organizer.ID, types.EVENT_APPROVED, time.Now().Add(-time.Hour), 10, 5)

	assert.Nil(t, CompleteEvent(event.ID))

	var reloaded models.Event
	assert.Nil(t, conn.First(&reloaded, event.ID).Error)
	assert.Equal(t, types.EVENT_COMPLETED, reloaded.Status)
}

func TestCompleteEventBeforeDateIsNoop(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	event := seedEvent(t, conn, organizer.ID, types.EVENT_APPROVED, time.Now().Add(48*time.Hour), 10, 5)

	assert.Nil(t, CompleteEvent(event.ID))

	var reloaded models.Event
	assert.Nil(t, conn.First(&reloaded, event.ID).Error)
	assert.Equal(t, types.EVENT_APPROVED, reloaded.Status)
}
