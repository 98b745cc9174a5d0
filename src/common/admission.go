package common

import (
	"apts/src/db"
	"apts/src/models"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdmitTicket validates a scanned payload and burns the ticket. The row
// lock keeps two gates from admitting the same code at once.
func AdmitTicket(payload string) (*models.Ticket, error) {
	claims, err := VerifyPayload(payload)
	if err != nil {
		return nil, err
	}
	var ticket models.Ticket
	err = db.GetDb().Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Ticket{Code: claims.TicketCode}).
			First(&ticket).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		if ticket.IsUsed {
			return ErrAlreadyUsed
		}
		now := time.Now()
		err = tx.
			Model(&models.Ticket{}).
			Where(&models.Ticket{ID: ticket.ID}).
			Updates(map[string]any{
				"is_used": true,
				"used_at": &now,
			}).
			Error
		if err != nil {
			return err
		}
		ticket.IsUsed = true
		ticket.UsedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
