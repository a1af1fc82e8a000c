package common

import (
	"fmt"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"eventsphere/src/db"
	"eventsphere/src/models"
	"eventsphere/src/types"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB swaps the shared connection for a fresh in-memory sqlite
// database. A single open connection keeps the memory database alive and
// doubles as the serialization point sqlite needs under concurrency.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	inner, err := conn.DB()
	if err != nil {
		log.Fatalf("error accessing inner db instance: %s", err.Error())
	}
	inner.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventReview{},
		&models.TicketType{},
		&models.InventoryHold{},
		&models.Booking{},
		&models.JobTask{},
	); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	db.NewDB(conn)
	t.Cleanup(func() {
		inner.Close()
	})
	return conn
}

var userSeq atomic.Uint64

func seedUser(t *testing.T, conn *gorm.DB, role types.UserRole) *models.User {
	t.Helper()
	// The sequence keeps emails unique when a test seeds several users of
	// the same role.
	user := models.User{
		Name:  "Test User",
		Email: fmt.Sprintf("%s-%d@example.com", role, userSeq.Add(1)),
		Role:  role,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("could not create user: %s", err.Error())
	}
	return &user
}

func seedEvent(t *testing.T, conn *gorm.DB, organizerId uint, status types.EventStatus, dateTime time.Time, price float64, seats uint) *models.Event {
	t.Helper()
	event := models.Event{
		Title:       "Orientation Night",
		Category:    "social",
		Faculty:     "engineering",
		Venue:       "Main Hall",
		DateTime:    dateTime,
		Status:      status,
		Capacity:    seats,
		OrganizerID: organizerId,
		TicketTypes: []models.TicketType{
			{Name: "General", Price: decimal.NewFromFloat(price), Total: seats},
		},
	}
	if err := conn.Create(&event).Error; err != nil {
		t.Fatalf("could not create event: %s", err.Error())
	}
	return &event
}

func reloadTicketType(t *testing.T, conn *gorm.DB, id uint) *models.TicketType {
	t.Helper()
	var tt models.TicketType
	if err := conn.First(&tt, id).Error; err != nil {
		t.Fatalf("could not reload ticket type: %s", err.Error())
	}
	return &tt
}

func reloadBooking(t *testing.T, conn *gorm.DB, id uint) *models.Booking {
	t.Helper()
	var booking models.Booking
	if err := conn.First(&booking, id).Error; err != nil {
		t.Fatalf("could not reload booking: %s", err.Error())
	}
	return &booking
}
