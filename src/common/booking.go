package common

import (
	"apts/src/db"
	"apts/src/lib"
	"apts/src/models"
	"apts/src/types"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateBookingParams struct {
	UserID        *uint
	GuestEmail    *string
	GuestName     *string
	UnitID        uint
	Items         []types.BookingLineRequest
	PaymentMethod types.PaymentMethod
	Notes         string
}

// CreateBooking runs the whole purchase in one transaction: load unit,
// resolve prices, reserve capacity, insert header and lines, issue tickets.
// Any failed step leaves the ledger untouched.
func CreateBooking(params *CreateBookingParams) (*models.Booking, error) {
	if len(params.Items) == 0 {
		return nil, ErrEmptyItems
	}
	var booking models.Booking
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var unit models.Unit
		err := tx.
			Where(&models.Unit{ID: params.UnitID, IsActive: true}).
			First(&unit).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnitNotFound
			}
			return err
		}
		if unit.StartsAt != nil && unit.StartsAt.Before(time.Now()) {
			return ErrPastDated
		}

		lines, totalQty, totalCents, err := ResolveLines(tx, unit.ID, params.Items)
		if err != nil {
			return err
		}
		if err := ReserveCapacity(tx, unit.ID, totalQty); err != nil {
			return err
		}

		reference, err := NewBookingReference()
		if err != nil {
			return err
		}
		status := types.BOOKING_CONFIRMED
		if params.PaymentMethod == types.PAY_CASH {
			status = types.BOOKING_PENDING
		}
		booking = models.Booking{
			Reference:     reference,
			UserID:        params.UserID,
			GuestEmail:    params.GuestEmail,
			GuestName:     params.GuestName,
			UnitID:        unit.ID,
			TotalCents:    totalCents,
			Status:        status,
			PaymentStatus: types.PAYMENT_PENDING,
			PaymentMethod: params.PaymentMethod,
			Notes:         params.Notes,
			BookedAt:      time.Now(),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		for _, line := range lines {
			item := models.BookingItem{
				BookingID:      booking.ID,
				TicketTypeID:   line.TicketType.ID,
				Qty:            line.Qty,
				UnitPriceCents: line.UnitPriceCents,
				SubtotalCents:  line.SubtotalCents,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			for n := int64(0); n < line.Qty; n++ {
				code, payload, err := IssueTicket(booking.Reference, unit.StartsAt)
				if err != nil {
					return err
				}
				ticket := models.Ticket{
					BookingItemID: item.ID,
					Code:          code,
					QRPayload:     payload,
				}
				if err := tx.Create(&ticket).Error; err != nil {
					return err
				}
				item.Tickets = append(item.Tickets, ticket)
			}
			booking.Items = append(booking.Items, item)
		}
		booking.Unit = &unit
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidateAvailability(booking.UnitID)
	go sendBookingConfirmation(&booking)
	return &booking, nil
}

func sendBookingConfirmation(booking *models.Booking) {
	to := booking.GuestEmail
	if to == nil && booking.UserID != nil {
		var user models.User
		if err := db.GetDb().Where(&models.User{ID: *booking.UserID}).First(&user).Error; err != nil {
			log.Printf("Error loading user for booking confirmation: %s\n", err.Error())
			return
		}
		to = &user.Email
	}
	if to == nil || *to == "" {
		return
	}
	unitName := ""
	if booking.Unit != nil {
		unitName = booking.Unit.Name
	}
	body := fmt.Sprintf("Your booking %s for %s is %s. Total: %d.%02d", booking.Reference, unitName, booking.Status, booking.TotalCents/100, booking.TotalCents%100)
	err := lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "Park Tickets",
		To:       []string{*to},
		Subject:  fmt.Sprintf("Booking confirmation %s", booking.Reference),
		Body:     body,
	})
	if err != nil {
		log.Printf("Error sending booking confirmation for %s: %s\n", booking.Reference, err.Error())
	}
}

func canAccess(booking *models.Booking, requesterID uint, role string) bool {
	if role == string(types.ROLE_ADMIN) {
		return true
	}
	return booking.UserID != nil && *booking.UserID == requesterID
}

func GetBooking(id uint, requesterID uint, role string) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetDb().
		Where(&models.Booking{ID: id}).
		Preload("Unit").
		Preload("Items").
		Preload("Items.Tickets").
		First(&booking).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canAccess(&booking, requesterID, role) {
		return nil, ErrForbidden
	}
	return &booking, nil
}

func GetBookingByReference(ref string, requesterID uint, role string) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetDb().
		Where(&models.Booking{Reference: ref}).
		Preload("Unit").
		Preload("Items").
		Preload("Items.Tickets").
		First(&booking).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canAccess(&booking, requesterID, role) {
		return nil, ErrForbidden
	}
	return &booking, nil
}

func ListBookings(userID uint, page, limit int) ([]models.Booking, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	var bookings []models.Booking
	var count int64
	conn := db.GetDb()
	err := conn.
		Model(&models.Booking{}).
		Where(&models.Booking{UserID: &userID}).
		Count(&count).
		Error
	if err != nil {
		return nil, 0, err
	}
	err = conn.
		Where(&models.Booking{UserID: &userID}).
		Preload("Unit").
		Order("booked_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).
		Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

// CancelBooking flips status only. Sold counts stay as history, capacity
// is not handed back.
func CancelBooking(id uint, requesterID uint, role string) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Booking{ID: id}).
			Preload("Unit").
			First(&booking).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !canAccess(&booking, requesterID, role) {
			return ErrForbidden
		}
		if booking.Status == types.BOOKING_CANCELLED {
			return ErrAlreadyCancelled
		}
		if booking.Unit != nil && booking.Unit.StartsAt != nil && booking.Unit.StartsAt.Before(time.Now()) {
			return ErrPastDated
		}
		now := time.Now()
		err = tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID}).
			Updates(map[string]any{
				"status":       types.BOOKING_CANCELLED,
				"cancelled_at": &now,
			}).
			Error
		if err != nil {
			return err
		}
		booking.Status = types.BOOKING_CANCELLED
		booking.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookingTickets returns every ticket on the booking, owner or admin only.
func ListBookingTickets(id uint, requesterID uint, role string) ([]models.Ticket, error) {
	booking, err := GetBooking(id, requesterID, role)
	if err != nil {
		return nil, err
	}
	tickets := make([]models.Ticket, 0)
	for _, item := range booking.Items {
		tickets = append(tickets, item.Tickets...)
	}
	return tickets, nil
}
