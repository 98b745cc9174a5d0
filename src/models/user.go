package models

import "apts/src/types"

type User struct {
	ID    uint           `gorm:"primarykey" json:"id"`
	Name  string         `json:"name,omitempty"`
	Email string         `gorm:"uniqueIndex" json:"email,omitempty"`
	Role  types.UserRole `gorm:"default:'member'" json:"role,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}
