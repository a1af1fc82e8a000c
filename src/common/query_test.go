package common

import (
	"testing"
	"time"

	"eventsphere/src/models"
	"eventsphere/src/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T) (*gorm.DB, *models.User) {
	t.Helper()
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)

	seed := []struct {
		title    string
		category string
		faculty  string
		status   types.EventStatus
		inHours  int
		price    float64
	}{
		{"Jazz Night", "music", "arts", types.EVENT_APPROVED, 24, 15},
		{"Career Fair", "career", "business", types.EVENT_APPROVED, 48, 0},
		{"Robotics Expo", "academic", "engineering", types.EVENT_APPROVED, 72, 40},
		{"Hidden Draft", "music", "arts", types.EVENT_DRAFT, 24, 10},
		{"Last Week", "music", "arts", types.EVENT_APPROVED, -24, 10},
	}
	for _, s := range seed {
		event := models.Event{
			Title:       s.title,
			Category:    s.category,
			Faculty:     s.faculty,
			Venue:       "Campus",
			DateTime:    time.Now().Add(time.Duration(s.inHours) * time.Hour),
			Status:      s.status,
			OrganizerID: organizer.ID,
			TicketTypes: []models.TicketType{
				{Name: "General", Price: decimal.NewFromFloat(s.price), Total: 100},
			},
		}
		if err := conn.Create(&event).Error; err != nil {
			t.Fatalf("could not seed event: %s", err.Error())
		}
	}
	return conn, organizer
}

func TestListEventsOnlyApprovedUpcoming(t *testing.T) {
	seedCatalog(t)

	events, total, err := ListEvents(&types.EventQueryFilters{})
	assert.Nil(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, types.EVENT_APPROVED, e.Status)
		assert.True(t, e.DateTime.After(time.Now()))
	}
	// default sort is soonest first
	assert.Equal(t, "Jazz Night", events[0].Title)
}

func TestListEventsCategoryFilter(t *testing.T) {
	seedCatalog(t)

	events, total, err := ListEvents(&types.EventQueryFilters{Category: "music"})
	assert.Nil(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Jazz Night", events[0].Title)
}

func TestListEventsSearch(t *testing.T) {
	seedCatalog(t)

	events, _, err := ListEvents(&types.EventQueryFilters{Search: "robotics"})
	assert.Nil(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "Robotics Expo", events[0].Title)
}

func TestListEventsPriceRange(t *testing.T) {
	seedCatalog(t)

	min := 10.0
	max := 20.0
	events, _, err := ListEvents(&types.EventQueryFilters{PriceMin: &min, PriceMax: &max})
	assert.Nil(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "Jazz Night", events[0].Title)
}

func TestListEventsPriceSort(t *testing.T) {
	seedCatalog(t)

	events, _, err := ListEvents(&types.EventQueryFilters{Sort: "price_desc"})
	assert.Nil(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, "Robotics Expo", events[0].Title)
	assert.Equal(t, "Career Fair", events[2].Title)
}

func TestListEventsPagination(t *testing.T) {
	seedCatalog(t)

	events, total, err := ListEvents(&types.EventQueryFilters{Page: 2, PerPage: 2})
	assert.Nil(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, events, 1)
}

func TestGetEventById(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	event := seedEvent(t, conn, organizer.ID, types.EVENT_APPROVED, time.Now().Add(24*time.Hour), 10, 20)

	found, err := GetEvent("1")
	assert.Nil(t, err)
	assert.Equal(t, event.ID, found.ID)
	assert.Len(t, found.TicketTypes, 1)
}

func TestGetEventBySlug(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	event := seedEvent(t, conn, organizer.ID, types.EVENT_APPROVED, time.Now().Add(24*time.Hour), 10, 20)
	assert.Nil(t, conn.Model(&models.Event{}).Where("id = ?", event.ID).Update("slug", "orientation-night-1").Error)

	found, err := GetEvent("orientation-night-1")
	assert.Nil(t, err)
	assert.Equal(t, event.ID, found.ID)
}

func TestGetEventNotFound(t *testing.T) {
	newTestDB(t)

	_, err := GetEvent("12345")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventAvailabilityTracksLedger(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	student := seedUser(t, conn, types.ROLE_STUDENT)
	event := seedEvent(t, conn, organizer.ID, types.EVENT_APPROVED, time.Now().Add(24*time.Hour), 10, 20)

	booking, err := CreateBooking(student.ID, &types.CreateBookingRequestBody{
		EventID:      event.ID,
		TicketTypeID: event.TicketTypes[0].ID,
		Qty:          3,
	})
	assert.Nil(t, err)
	_, err = ConfirmBooking(student.ID, booking.ID)
	assert.Nil(t, err)

	found, err := GetEvent("1")
	assert.Nil(t, err)
	availability := EventAvailability(found)
	assert.Len(t, availability, 1)
	assert.Equal(t, uint(17), availability[0].Available)
	assert.Equal(t, uint(0), availability[0].Reserved)
	assert.Equal(t, uint(3), availability[0].Sold)
}

func TestListMyBookings(t *testing.T) {
	f := newBookingFixture(t, 20, 30)
	first := f.book(t, 1)
	second := f.book(t, 2)
	_, err := ConfirmBooking(f.student.ID, second.ID)
	assert.Nil(t, err)

	all, err := ListMyBookings(f.student.ID, "")
	assert.Nil(t, err)
	assert.Len(t, all, 2)

	confirmed, err := ListMyBookings(f.student.ID, "confirmed")
	assert.Nil(t, err)
	assert.Len(t, confirmed, 1)
	assert.Equal(t, second.ID, confirmed[0].ID)

	created, err := ListMyBookings(f.student.ID, "created")
	assert.Nil(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, first.ID, created[0].ID)
}

func TestListEventBookingsRequiresOwnership(t *testing.T) {
	f := newBookingFixture(t, 20, 30)
	f.book(t, 1)
	stranger := seedUser(t, f.conn, types.ROLE_ORGANIZER)

	_, err := ListEventBookings(stranger.ID, f.event.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var event models.Event
	assert.Nil(t, f.conn.First(&event, f.event.ID).Error)
	bookings, err := ListEventBookings(event.OrganizerID, f.event.ID)
	assert.Nil(t, err)
	assert.Len(t, bookings, 1)
}

func TestListPendingEvents(t *testing.T) {
	conn := newTestDB(t)
	organizer := seedUser(t, conn, types.ROLE_ORGANIZER)
	seedEvent(t, conn, organizer.ID, types.EVENT_PENDING, time.Now().Add(24*time.Hour), 10, 20)
	seedEvent(t, conn, organizer.ID, types.EVENT_APPROVED, time.Now().Add(24*time.Hour), 10, 20)

	pending, err := ListPendingEvents()
	assert.Nil(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, types.EVENT_PENDING, pending[0].Status)
}
