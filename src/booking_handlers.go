package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"eventsphere/src/common"
	"eventsphere/src/db"
	"eventsphere/src/lib"
	"eventsphere/src/models"
	"eventsphere/src/types"
	"eventsphere/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			status := ctx.Query("status")
			bookings, err := common.ListMyBookings(userId, status)
			if err != nil {
				log.Printf("Error retrieving Bookings: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			var booking models.Booking
			conn := db.GetDb()
			if err := conn.
				Preload("Event").
				Preload("TicketType").
				Where(&models.Booking{ID: params.ID, UserID: userId}).
				First(&booking).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := common.CreateBooking(userId, &body)
			if err != nil {
				log.Printf("Error creating Booking: %s\n", err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		POST("/bookings/:id/confirm", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			booking, err := common.ConfirmBooking(userId, params.ID)
			if err != nil {
				log.Printf("Error confirming Booking [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			booking, err := common.CancelBooking(userId, params.ID)
			if err != nil {
				log.Printf("Error canceling Booking [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/:id/code", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			var booking models.Booking
			conn := db.GetDb()
			if err := conn.
				Preload("Event").
				Where(&models.Booking{ID: params.ID, UserID: userId}).
				First(&booking).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			if booking.Status != types.BOOKING_CONFIRMED {
				ctx.JSON(http.StatusConflict, gin.H{"error": "booking is not confirmed"})
				return
			}
			if booking.Event != nil && time.Now().After(booking.Event.DateTime) {
				err := errors.New("ticket is no longer valid")
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}

			filename := fmt.Sprintf("eticket-%d", booking.ID)
			tempdir := os.Getenv("TEMP_DIR")
			filepath := path.Join(tempdir, fmt.Sprintf("%s.jpeg", filename))

			rd := lib.GetRedisClient()
			if rd != nil {
				if cached := rd.Get(context.Background(), filename).Val(); cached != "" {
					ctx.FileAttachment(cached, "eticket.jpeg")
					return
				}
			}

			payload := booking.Code
			keyEnv := os.Getenv("API_QRC_SECRET")
			if key, err := hex.DecodeString(keyEnv); err == nil && len(key) > 0 {
				enc, err := utils.EncryptMessage(key, booking.Code)
				if err != nil {
					log.Printf("Error encrypting message: %s\n", err.Error())
					ctx.Status(http.StatusInternalServerError)
					return
				}
				payload = enc
			}
			qrc, err := qrcode.New(payload)
			if err != nil {
				log.Printf("Could not build qrcode: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if rd != nil {
				rd.SetEx(context.Background(), filename, filepath, 2*time.Hour)
			}
			ctx.FileAttachment(filepath, "eticket.jpeg")
		})
	return g
}
