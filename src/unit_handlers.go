package main

import (
	"apts/src/common"
	"apts/src/db"
	"apts/src/models"
	"apts/src/types"
	"apts/src/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func unitHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/units", func(ctx *gin.Context) {
			var query types.UnitQueryFilters
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var units []models.Unit
			tx := db.Where(&models.Unit{IsActive: true})
			if query.Kind != "" {
				tx = tx.Where(&models.Unit{Kind: types.UnitKind(query.Kind)})
			}
			if err := tx.Order("name asc").Find(&units).Error; err != nil {
				log.Printf("Error retrieving units: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": units, "count": len(units)})
		}).
		GET("/units/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var unit models.Unit
			err := db.
				Where(&models.Unit{ID: params.ID, IsActive: true}).
				Preload("TicketTypes", "is_active = ?", true).
				First(&unit).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": unit})
		}).
		GET("/units/:id/ticket-types", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var ticketTypes []models.TicketType
			err := db.
				Where(&models.TicketType{UnitID: params.ID, IsActive: true}).
				Order("price_cents asc").
				Find(&ticketTypes).
				Error
			if err != nil {
				log.Printf("Error retrieving ticket types for unit [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketTypes, "count": len(ticketTypes)})
		}).
		GET("/units/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.AvailabilityQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			qty := query.Qty
			if qty == 0 {
				qty = 1
			}
			ok, avail, err := common.CheckAvailability(params.ID, qty)
			if err != nil {
				if errors.Is(err, common.ErrUnitNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
					return
				}
				log.Printf("Error checking availability for unit [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": avail, "available": ok})
		})
	return g
}

func catalogAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/units", func(ctx *gin.Context) {
			var body types.CreateUnitRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			unit, err := utils.CreateNewUnit(&body, userId)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": unit})
		}).
		POST("/ticket-types", func(ctx *gin.Context) {
			var body types.CreateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tt, err := utils.CreateNewTicketType(&body)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": tt})
		})
	return g
}
