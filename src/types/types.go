package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Model struct {
	Timestamps

	ID uint `gorm:"id,primaryKey"`
}

type UnitKind string

const (
	UNIT_EVENT UnitKind = "event"
	UNIT_GAME  UnitKind = "game"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
	BOOKING_REFUNDED  BookingStatus = "refunded"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
	PAYMENT_REFUNDED  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PAY_CASH   PaymentMethod = "cash"
	PAY_CARD   PaymentMethod = "card"
	PAY_ONLINE PaymentMethod = "online"
)

type TicketCategory string

const (
	CATEGORY_ADULT    TicketCategory = "adult"
	CATEGORY_CHILD    TicketCategory = "child"
	CATEGORY_SENIOR   TicketCategory = "senior"
	CATEGORY_STUDENT  TicketCategory = "student"
	CATEGORY_GROUP    TicketCategory = "group"
	CATEGORY_STANDARD TicketCategory = "standard"
	CATEGORY_PREMIUM  TicketCategory = "premium"
)

type UserRole string

const (
	ROLE_GUEST  UserRole = "guest"
	ROLE_MEMBER UserRole = "member"
	ROLE_ADMIN  UserRole = "admin"
)

type UnitQueryFilters struct {
	Kind string `form:"kind,omitempty" binding:"omitempty,oneof=event game"`
}

type AvailabilityQuery struct {
	Qty int64 `form:"qty,omitempty" binding:"omitempty,min=1"`
}

type CreateUnitRequestBody struct {
	Name     string  `json:"name" binding:"required"`
	Kind     string  `json:"kind" binding:"required,oneof=event game"`
	About    string  `json:"about,omitempty"`
	StartsAt *string `json:"starts_at,omitempty" binding:"omitempty,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	Capacity *int64  `json:"capacity,omitempty" binding:"omitempty,min=0"`
	Metadata *JSONB  `json:"metadata,omitempty"`
	Publish  bool    `json:"publish,omitempty"`
}

type CreateTicketTypeRequestBody struct {
	UnitID        uint   `json:"unit" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Category      string `json:"category" binding:"required,oneof=adult child senior student group standard premium"`
	PriceCents    int64  `json:"price_cents" binding:"min=0"`
	MaxPerBooking int64  `json:"max_per_booking,omitempty" binding:"omitempty,min=1"`
}

type BookingLineRequest struct {
	TicketTypeID uint  `json:"ticket_type" binding:"required"`
	Qty          int64 `json:"qty" binding:"required,min=1"`
}

type CreateBookingRequestBody struct {
	UnitID        uint                 `json:"unit" binding:"required"`
	Items         []BookingLineRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string               `json:"payment_method" binding:"required,oneof=cash card online"`
	GuestEmail    *string              `json:"guest_email,omitempty" binding:"omitempty,email"`
	GuestName     *string              `json:"guest_name,omitempty"`
	Notes         string               `json:"notes,omitempty"`
}

type CreateAdmissionRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type ReferenceRequestParams struct {
	Reference string `uri:"ref" binding:"required"`
}

type PaginationQuery struct {
	Page  int `form:"page,omitempty" binding:"omitempty,min=1"`
	Limit int `form:"limit,omitempty" binding:"omitempty,min=1,max=100"`
}
