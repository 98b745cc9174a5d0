package main

import (
	"apts/src/common"
	"apts/src/db"
	"apts/src/models"
	"apts/src/types"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets/:id/qr", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var ticket models.Ticket
			err := db.
				Where(&models.Ticket{ID: params.ID}).
				Preload("BookingItem").
				First(&ticket).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			// Ownership check rides on the booking lookup rules.
			if _, err := common.GetBooking(ticket.BookingItem.BookingID, ctx.GetUint("id"), ctx.GetString("role")); err != nil {
				domainErrorResponse(ctx, err)
				return
			}
			qrc, err := qrcode.New(ticket.QRPayload)
			if err != nil {
				log.Printf("Error generating QR for ticket [%d]: %s\n", ticket.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			tmpDir := os.Getenv("TEMP_DIR")
			if tmpDir == "" {
				tmpDir = os.TempDir()
			}
			filename := fmt.Sprintf("%s.png", ticket.Code)
			filePath := path.Join(tmpDir, filename)
			if err := qrc.Save(filePath); err != nil {
				log.Printf("Error writing QR image for ticket [%d]: %s\n", ticket.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.FileAttachment(filePath, filename)
		})
	return g
}

func admissionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/admission", func(ctx *gin.Context) {
			var body types.CreateAdmissionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := common.AdmitTicket(body.Code)
			if err != nil {
				log.Printf("Error on ticket admission: %s\n", err.Error())
				domainErrorResponse(ctx, err)
				return
			}
			log.Printf("Admitted ticket %s by gate staff [%d]\n", ticket.Code, ctx.GetUint("id"))
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		})
	return g
}
