package common

import (
	"apts/src/models"
	"apts/src/types"
	"errors"

	"gorm.io/gorm"
)

// ResolvedLine carries catalog prices for one requested line. Prices are
// integer cents and always come from the catalog row, never the request.
type ResolvedLine struct {
	TicketType     models.TicketType
	Qty            int64
	UnitPriceCents int64
	SubtotalCents  int64
}

func ResolveLines(tx *gorm.DB, unitID uint, items []types.BookingLineRequest) ([]ResolvedLine, int64, int64, error) {
	lines := make([]ResolvedLine, 0, len(items))
	var totalQty, totalCents int64
	for _, item := range items {
		var tt models.TicketType
		err := tx.
			Where(&models.TicketType{ID: item.TicketTypeID, IsActive: true}).
			First(&tt).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, 0, ErrTicketTypeNotFound
			}
			return nil, 0, 0, err
		}
		if tt.UnitID != unitID {
			return nil, 0, 0, ErrMismatchedUnit
		}
		if tt.MaxPerBooking > 0 && item.Qty > tt.MaxPerBooking {
			return nil, 0, 0, &QuantityError{TicketTypeID: tt.ID, Requested: item.Qty, Max: tt.MaxPerBooking}
		}
		subtotal := item.Qty * tt.PriceCents
		lines = append(lines, ResolvedLine{
			TicketType:     tt,
			Qty:            item.Qty,
			UnitPriceCents: tt.PriceCents,
			SubtotalCents:  subtotal,
		})
		totalQty += item.Qty
		totalCents += subtotal
	}
	return lines, totalQty, totalCents, nil
}
