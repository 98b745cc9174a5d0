package main

import (
	"apts/src/common"
	"apts/src/types"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// domainErrorResponse maps domain errors onto the API error contract.
func domainErrorResponse(ctx *gin.Context, err error) {
	var capErr *common.CapacityError
	if errors.As(err, &capErr) {
		ctx.JSON(http.StatusConflict, gin.H{"error": capErr.Error(), "remaining": capErr.Remaining})
		return
	}
	var qtyErr *common.QuantityError
	if errors.As(err, &qtyErr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": qtyErr.Error()})
		return
	}
	switch {
	case errors.Is(err, common.ErrUnitNotFound),
		errors.Is(err, common.ErrTicketTypeNotFound),
		errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrTicketNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrAlreadyCancelled),
		errors.Is(err, common.ErrAlreadyUsed):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrMismatchedUnit),
		errors.Is(err, common.ErrPastDated),
		errors.Is(err, common.ErrEmptyItems),
		errors.Is(err, common.ErrBadSignature):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	}
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			requestId := uuid.NewString()
			userId := ctx.GetUint("id")
			params := common.CreateBookingParams{
				UnitID:        body.UnitID,
				Items:         body.Items,
				PaymentMethod: types.PaymentMethod(body.PaymentMethod),
				GuestEmail:    body.GuestEmail,
				GuestName:     body.GuestName,
				Notes:         body.Notes,
			}
			if userId > 0 {
				params.UserID = &userId
			}
			booking, err := common.CreateBooking(&params)
			if err != nil {
				log.Printf("[%s] Error creating booking: %s\n", requestId, err.Error())
				domainErrorResponse(ctx, err)
				return
			}
			log.Printf("[%s] Created booking %s\n", requestId, booking.Reference)
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			var query types.PaginationQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			page := query.Page
			if page < 1 {
				page = 1
			}
			limit := query.Limit
			if limit < 1 {
				limit = 10
			}
			bookings, count, err := common.ListBookings(userId, page, limit)
			if err != nil {
				log.Printf("Error listing bookings for user [%d]: %s\n", userId, err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": count, "page": page, "limit": limit})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			booking, err := common.GetBooking(params.ID, ctx.GetUint("id"), ctx.GetString("role"))
			if err != nil {
				domainErrorResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/reference/:ref", func(ctx *gin.Context) {
			var params types.ReferenceRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			booking, err := common.GetBookingByReference(params.Reference, ctx.GetUint("id"), ctx.GetString("role"))
			if err != nil {
				domainErrorResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := common.CancelBooking(params.ID, ctx.GetUint("id"), ctx.GetString("role"))
			if err != nil {
				log.Printf("Error cancelling booking [%d]: %s\n", params.ID, err.Error())
				domainErrorResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/:id/tickets", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			tickets, err := common.ListBookingTickets(params.ID, ctx.GetUint("id"), ctx.GetString("role"))
			if err != nil {
				domainErrorResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets, "count": len(tickets)})
		})
	return g
}
