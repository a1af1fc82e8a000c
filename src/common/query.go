package common

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"eventsphere/src/db"
	"eventsphere/src/lib"
	"eventsphere/src/models"
	"eventsphere/src/monitoring"
	"eventsphere/src/types"

	"gorm.io/gorm"
)

// Read side. Listings and lookups only; nothing here writes ledger or
// booking state.

const slugCacheTTL = 5 * time.Minute

// ListEvents is the public catalog: approved events with upcoming dates,
// filtered and paged. Price filters apply to the cheapest ticket type.
func ListEvents(filters *types.EventQueryFilters) ([]models.Event, int64, error) {
	conn := db.GetDb()
	query := conn.
		Model(&models.Event{}).
		Where("status = ? AND date_time > ?", types.EVENT_APPROVED, time.Now())
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Faculty != "" {
		query = query.Where("faculty = ?", filters.Faculty)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(venue) LIKE LOWER(?)", pattern, pattern)
	}
	minPrice := "(SELECT MIN(price) FROM ticket_types WHERE ticket_types.event_id = events.id)"
	if filters.PriceMin != nil {
		query = query.Where(minPrice+" >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where(minPrice+" <= ?", *filters.PriceMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.Sort {
	case "date_desc":
		query = query.Order("date_time DESC")
	case "price_asc":
		query = query.Order(minPrice + " ASC")
	case "price_desc":
		query = query.Order(minPrice + " DESC")
	case "name":
		query = query.Order("title ASC")
	case "popular":
		query = query.Order("(SELECT COALESCE(SUM(sold), 0) FROM ticket_types WHERE ticket_types.event_id = events.id) DESC")
	default:
		query = query.Order("date_time ASC")
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	perPage := filters.PerPage
	if perPage < 1 {
		perPage = 12
	}
	var events []models.Event
	err := query.
		Preload("TicketTypes").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&events).
		Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetEvent resolves a numeric id or a slug to the event with its ticket
// types. Slug lookups go through a small redis cache so catalog pages do
// not hit the events table twice.
func GetEvent(idOrSlug string) (*models.Event, error) {
	conn := db.GetDb()
	var event models.Event
	if id, err := strconv.Atoi(idOrSlug); err == nil {
		if err := conn.Preload("TicketTypes").First(&event, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &event, nil
	}

	ctx := context.Background()
	cacheKey := "event_slug:" + idOrSlug
	if rdb := lib.GetRedisClient(); rdb != nil {
		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			if id, err := strconv.Atoi(cached); err == nil {
				if err := conn.Preload("TicketTypes").First(&event, id).Error; err == nil {
					return &event, nil
				}
			}
		}
	}
	if err := conn.
		Preload("TicketTypes").
		Where(&models.Event{Slug: idOrSlug}).
		First(&event).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rdb := lib.GetRedisClient(); rdb != nil {
		if err := rdb.Set(ctx, cacheKey, strconv.Itoa(int(event.ID)), slugCacheTTL).Err(); err != nil {
			log.Printf("[query] slug cache write failed: %s\n", err.Error())
		}
	}
	return &event, nil
}

// EventAvailability derives the per-ticket-type seat picture from the
// ledger counters. Always computed, never stored.
func EventAvailability(event *models.Event) []types.TicketAvailability {
	availability := []types.TicketAvailability{}
	var held uint
	for _, tt := range event.TicketTypes {
		held += tt.Reserved
		availability = append(availability, types.TicketAvailability{
			TicketTypeID: tt.ID,
			Available:    tt.Total - tt.Reserved - tt.Sold,
			Reserved:     tt.Reserved,
			Sold:         tt.Sold,
		})
	}
	monitoring.SeatsHeld(event.ID, float64(held))
	return availability
}

// ListMyBookings returns a user's bookings newest first, optionally
// narrowed by status.
func ListMyBookings(userId uint, status string) ([]models.Booking, error) {
	conn := db.GetDb()
	query := conn.
		Preload("Event").
		Preload("TicketType").
		Where(&models.Booking{UserID: userId}).
		Order("created_at DESC")
	if status != "" {
		query = query.Where(&models.Booking{Status: types.BookingStatus(status)})
	}
	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListOrganizerEvents returns all of an organizer's events, drafts and
// rejections included.
func ListOrganizerEvents(organizerId uint) ([]models.Event, error) {
	conn := db.GetDb()
	var events []models.Event
	err := conn.
		Preload("TicketTypes").
		Preload("Reviews").
		Where(&models.Event{OrganizerID: organizerId}).
		Order("created_at DESC").
		Find(&events).
		Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListEventBookings is the organizer's attendee list for one of their
// events.
func ListEventBookings(organizerId uint, eventId uint) ([]models.Booking, error) {
	conn := db.GetDb()
	var event models.Event
	if err := conn.
		Where(&models.Event{ID: eventId, OrganizerID: organizerId}).
		First(&event).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var bookings []models.Booking
	err := conn.
		Preload("User").
		Preload("TicketType").
		Where(&models.Booking{EventID: eventId}).
		Order("created_at DESC").
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListPendingEvents is the admin review queue, oldest submission first.
func ListPendingEvents() ([]models.Event, error) {
	conn := db.GetDb()
	var events []models.Event
	err := conn.
		Preload("TicketTypes").
		Preload("Reviews").
		Where(&models.Event{Status: types.EVENT_PENDING}).
		Order("updated_at ASC").
		Find(&events).
		Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
