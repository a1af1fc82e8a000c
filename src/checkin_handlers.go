package main

import (
	"encoding/hex"
	"log"
	"net/http"
	"os"

	"eventsphere/src/common"
	"eventsphere/src/middlewares"
	"eventsphere/src/types"
	"eventsphere/src/utils"

	"github.com/gin-gonic/gin"
)

func checkinHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	gate := g.Group("")
	gate.Use(middlewares.RequireRole(types.ROLE_ORGANIZER, types.ROLE_ADMIN))
	gate.
		POST("/events/:id/validate", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateAdmissionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			code := body.Code
			// Scanners send the encrypted QR payload; manual entry sends
			// the raw code.
			keyEnv := os.Getenv("API_QRC_SECRET")
			if key, err := hex.DecodeString(keyEnv); err == nil && len(key) > 0 {
				if dec, err := utils.DecryptMessage(key, code); err == nil {
					code = *dec
				}
			}
			organizerId := ctx.GetUint("id")
			if value, ok := ctx.Get("role"); ok && value.(types.UserRole) == types.ROLE_ADMIN {
				organizerId = 0
			}
			detail, err := common.ValidateTicket(organizerId, params.ID, code)
			if err != nil {
				log.Printf("Error validating code for Event [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": detail})
		})
	return g
}
