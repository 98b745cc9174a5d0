package models

import (
	"apts/src/types"
	"time"
)

// Ticket is a single admission credential. Code is printed on the stub,
// QRPayload carries the signed record scanned at the gate.
type Ticket struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	BookingItemID uint       `json:"booking_item_id,omitempty"`
	Code          string     `gorm:"uniqueIndex" json:"code,omitempty"`
	QRPayload     string     `json:"qr_payload,omitempty"`
	IsUsed        bool       `gorm:"default:false" json:"is_used"`
	UsedAt        *time.Time `json:"used_at,omitempty"`

	BookingItem *BookingItem `gorm:"foreignKey:booking_item_id" json:"-"`

	types.Timestamps
}
