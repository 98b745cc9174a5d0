package models

import (
	"apts/src/types"
	"time"
)

type Booking struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	Reference     string              `gorm:"uniqueIndex" json:"reference,omitempty"`
	UserID        *uint               `json:"user_id,omitempty"`
	GuestEmail    *string             `json:"guest_email,omitempty"`
	GuestName     *string             `json:"guest_name,omitempty"`
	UnitID        uint                `json:"unit_id,omitempty"`
	TotalCents    int64               `json:"total_cents"`
	Status        types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	PaymentMethod types.PaymentMethod `json:"payment_method,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	BookedAt      time.Time           `json:"booked_at,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`

	Unit  *Unit         `gorm:"foreignKey:unit_id" json:"unit,omitempty"`
	User  *User         `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Items []BookingItem `gorm:"foreignKey:booking_id" json:"items,omitempty"`

	types.Timestamps
}

type BookingItem struct {
	ID             uint  `gorm:"primarykey" json:"id"`
	BookingID      uint  `json:"booking_id,omitempty"`
	TicketTypeID   uint  `json:"ticket_type_id,omitempty"`
	Qty            int64 `json:"qty"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	SubtotalCents  int64 `json:"subtotal_cents"`

	TicketType *TicketType `gorm:"foreignKey:ticket_type_id" json:"ticket_type,omitempty"`
	Tickets    []Ticket    `gorm:"foreignKey:booking_item_id" json:"tickets,omitempty"`

	types.Timestamps
}
