package main

import (
	"log"
	"net/http"

	"eventsphere/src/common"
	"eventsphere/src/middlewares"
	"eventsphere/src/types"

	"github.com/gin-gonic/gin"
)

func publicEventRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/events", func(ctx *gin.Context) {
			var filters types.EventQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			events, total, err := common.ListEvents(&filters)
			if err != nil {
				log.Printf("Error retrieving Events: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "total": total})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			idOrSlug := ctx.Params.ByName("id")
			event, err := common.GetEvent(idOrSlug)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":         event,
				"availability": common.EventAvailability(event),
			})
		})
	return apiv1
}

func organizerEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	organizer := g.Group("")
	organizer.Use(middlewares.RequireRole(types.ROLE_ORGANIZER, types.ROLE_ADMIN))
	organizer.
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			event, err := common.CreateEvent(organizerId, &body)
			if err != nil {
				log.Printf("Error creating Event: %s\n", err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		GET("/organizer/events", func(ctx *gin.Context) {
			organizerId := ctx.GetUint("id")
			events, err := common.ListOrganizerEvents(organizerId)
			if err != nil {
				log.Printf("Error retrieving Events: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		POST("/events/:id/submit", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			organizerId := ctx.GetUint("id")
			event, err := common.SubmitEvent(organizerId, params.ID)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		POST("/events/:id/resubmit", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			organizerId := ctx.GetUint("id")
			event, err := common.ResubmitEvent(organizerId, params.ID)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		POST("/events/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			organizerId := ctx.GetUint("id")
			event, err := common.CancelEvent(organizerId, params.ID)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		GET("/events/:id/bookings", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			organizerId := ctx.GetUint("id")
			bookings, err := common.ListEventBookings(organizerId, params.ID)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		})
	return g
}
