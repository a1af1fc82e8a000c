package main

import (
	"log"
	"net/http"

	"eventsphere/src/common"
	"eventsphere/src/db"
	"eventsphere/src/middlewares"
	"eventsphere/src/models"
	"eventsphere/src/types"

	"github.com/gin-gonic/gin"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("/admin")
	admin.Use(middlewares.RequireRole(types.ROLE_ADMIN))
	admin.
		GET("/events/pending", func(ctx *gin.Context) {
			events, err := common.ListPendingEvents()
			if err != nil {
				log.Printf("Error retrieving review queue: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		POST("/events/:id/review", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.ReviewEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reviewerId := ctx.GetUint("id")
			event, err := common.ReviewEvent(reviewerId, params.ID, &body)
			if err != nil {
				log.Printf("Error reviewing Event [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		GET("/users", func(ctx *gin.Context) {
			var users []models.User
			conn := db.GetDb()
			if err := conn.Order("created_at desc").Find(&users).Error; err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		}).
		PUT("/users/:id/suspend", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Suspended bool `json:"suspended"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			conn := db.GetDb()
			res := conn.
				Model(&models.User{}).
				Where("id = ?", params.ID).
				Update("suspended", body.Suspended)
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		PUT("/users/:id/role", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Role types.UserRole `json:"role" binding:"required,oneof=STUDENT ORGANIZER ADMIN"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			conn := db.GetDb()
			res := conn.
				Model(&models.User{}).
				Where("id = ?", params.ID).
				Update("role", body.Role)
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}
