package common

import (
	"apts/src/db"
	"apts/src/lib"
	"apts/src/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const availabilityCacheTTL = 30 * time.Second

func availabilityCacheKey(unitID uint) string {
	return fmt.Sprintf("unit:%d:availability", unitID)
}

type Availability struct {
	UnitID    uint   `json:"unit_id"`
	Unbounded bool   `json:"unbounded"`
	Remaining *int64 `json:"remaining,omitempty"`
}

// CheckAvailability is advisory only. The booking transaction is the
// enforcement point; this answers browse-time queries, cached in redis.
func CheckAvailability(unitID uint, qty int64) (bool, *Availability, error) {
	rdb := lib.GetRedisClient()
	key := availabilityCacheKey(unitID)
	if rdb != nil {
		cached, err := rdb.Get(context.Background(), key).Result()
		if err == nil {
			var avail Availability
			if err := json.Unmarshal([]byte(cached), &avail); err == nil {
				return availableFor(&avail, qty), &avail, nil
			}
		}
	}

	var unit models.Unit
	err := db.GetDb().
		Where(&models.Unit{ID: unitID, IsActive: true}).
		First(&unit).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, ErrUnitNotFound
		}
		return false, nil, err
	}

	avail := Availability{UnitID: unit.ID, Unbounded: unit.Capacity == nil}
	if unit.Capacity != nil {
		remaining := *unit.Capacity - unit.TicketsSold
		if remaining < 0 {
			remaining = 0
		}
		avail.Remaining = &remaining
	}
	if rdb != nil {
		if raw, err := json.Marshal(&avail); err == nil {
			if err := rdb.Set(context.Background(), key, string(raw), availabilityCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache availability for unit %d: %s\n", unitID, err.Error())
			}
		}
	}
	return availableFor(&avail, qty), &avail, nil
}

func availableFor(avail *Availability, qty int64) bool {
	if avail.Unbounded {
		return true
	}
	return *avail.Remaining >= qty
}

// ReserveCapacity increments tickets_sold only when the full quantity
// still fits. Zero rows affected means someone else got there first.
// Must run inside the booking transaction so a later failure rolls it back.
func ReserveCapacity(tx *gorm.DB, unitID uint, qty int64) error {
	res := tx.
		Model(&models.Unit{}).
		Where("id = ? AND (capacity IS NULL OR tickets_sold + ? <= capacity)", unitID, qty).
		Update("tickets_sold", gorm.Expr("tickets_sold + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var unit models.Unit
		if err := tx.Where(&models.Unit{ID: unitID}).First(&unit).Error; err != nil {
			return ErrUnitNotFound
		}
		remaining := int64(0)
		if unit.Capacity != nil {
			remaining = *unit.Capacity - unit.TicketsSold
			if remaining < 0 {
				remaining = 0
			}
		}
		return &CapacityError{UnitID: unitID, Requested: qty, Remaining: remaining}
	}
	return nil
}

// InvalidateAvailability drops the cached count after a committed booking.
func InvalidateAvailability(unitID uint) {
	lib.CacheDel(context.Background(), availabilityCacheKey(unitID))
}
