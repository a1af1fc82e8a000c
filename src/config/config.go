package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// HoldWindow is how long a created Booking may sit unconfirmed before the
// sweep reclaims its inventory.
func HoldWindow() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("HOLD_WINDOW_MINUTES"))
	if err != nil || minutes < 1 {
		minutes = 10
	}
	return time.Duration(minutes) * time.Minute
}

// CancelCutoff is the no-cancellation window before event start. Zero means
// cancellation is allowed up to the event date.
func CancelCutoff() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("CANCEL_CUTOFF_HOURS"))
	if err != nil || hours < 0 {
		hours = 0
	}
	return time.Duration(hours) * time.Hour
}
