package models

import "apts/src/types"

type TicketType struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	UnitID        uint                 `json:"unit_id,omitempty"`
	Name          string               `json:"name,omitempty"`
	Category      types.TicketCategory `gorm:"default:'standard'" json:"category,omitempty"`
	PriceCents    int64                `json:"price_cents"`
	MaxPerBooking int64                `gorm:"default:10" json:"max_per_booking,omitempty"`
	IsActive      bool                 `gorm:"default:true" json:"is_active"`

	Unit Unit `gorm:"foreignKey:unit_id" json:"-"`

	types.Timestamps
}
