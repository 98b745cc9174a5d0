package models

import (
	"apts/src/types"
	"time"
)

// Unit is anything bookable in the park. Events carry a start date,
// games run all day; Capacity nil means unbounded.
type Unit struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Kind        types.UnitKind `gorm:"default:'event'" json:"kind,omitempty"`
	Name        string         `json:"name,omitempty"`
	Slug        string         `gorm:"uniqueIndex" json:"slug,omitempty"`
	About       *string        `json:"about,omitempty"`
	StartsAt    *time.Time     `json:"starts_at,omitempty"`
	Capacity    *int64         `json:"capacity,omitempty"`
	TicketsSold int64          `gorm:"default:0" json:"tickets_sold"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedBy   uint           `json:"created_by,omitempty"`
	Metadata    *types.JSONB   `gorm:"type:jsonb" json:"metadata,omitempty"`

	TicketTypes []TicketType `gorm:"foreignKey:unit_id" json:"ticket_types,omitempty"`

	types.Timestamps
}
