package utils

import (
	"apts/src/config"
	"apts/src/db"
	"apts/src/lib"
	"apts/src/models"
	"apts/src/types"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CreateNewUnit inserts a catalog unit and, for dated events, schedules
// its deactivation at start time.
func CreateNewUnit(params *types.CreateUnitRequestBody, creatorId uint) (*models.Unit, error) {
	var startsAt *time.Time
	if params.StartsAt != nil {
		parsed, err := time.Parse(config.TIME_PARSE_FORMAT, *params.StartsAt)
		if err != nil {
			log.Printf("Error parsing starts_at: %s\n", err.Error())
			return nil, err
		}
		parsed = time.Date(
			parsed.Year(),
			parsed.Month(),
			parsed.Day(),
			parsed.Hour(),
			parsed.Minute(),
			0,
			0,
			parsed.Location(),
		)
		startsAt = &parsed
	}
	unit := models.Unit{
		Kind:      types.UnitKind(params.Kind),
		Name:      params.Name,
		Slug:      slug.Make(params.Name),
		About:     &params.About,
		StartsAt:  startsAt,
		Capacity:  params.Capacity,
		Metadata:  params.Metadata,
		IsActive:  params.Publish,
		CreatedBy: creatorId,
	}
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&unit).Error
	})
	if err != nil {
		return nil, err
	}

	if unit.Kind == types.UNIT_EVENT && startsAt != nil && startsAt.After(time.Now()) {
		go func(id uint, runsAt time.Time) {
			jobId, err := lib.CreateOneTimeCronJob(
				gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(runsAt)),
				gocron.NewTask(func(unitId uint) {
					DeactivateUnit(unitId)
				}, id),
			)
			if err != nil {
				log.Printf("Error scheduling deactivation for unit %d: %s\n", id, err.Error())
				return
			}
			log.Printf("Scheduled deactivation for unit %d: job=%s\n", id, *jobId)
		}(unit.ID, *startsAt)
	}
	return &unit, nil
}

// DeactivateUnit flips a unit inactive once its date has passed.
func DeactivateUnit(unitId uint) {
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Unit{}).
			Where("id = ? AND starts_at IS NOT NULL AND starts_at < ?", unitId, time.Now()).
			Update("is_active", false).
			Error
	})
	if err != nil {
		log.Printf("Error deactivating unit %d: %s\n", unitId, err.Error())
		return
	}
	log.Printf("Unit %d deactivated\n", unitId)
}

// DeactivatePastUnits is the sweep the scheduler runs on an interval,
// catching events whose one-time job was lost across restarts.
func DeactivatePastUnits() {
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Unit{}).
			Where("kind = ? AND is_active = ? AND starts_at IS NOT NULL AND starts_at < ?", types.UNIT_EVENT, true, time.Now()).
			Update("is_active", false).
			Error
	})
	if err != nil {
		log.Printf("Error deactivating past units: %s\n", err.Error())
	}
}

func CreateNewTicketType(params *types.CreateTicketTypeRequestBody) (*models.TicketType, error) {
	tt := models.TicketType{
		UnitID:        params.UnitID,
		Name:          params.Name,
		Category:      types.TicketCategory(params.Category),
		PriceCents:    params.PriceCents,
		MaxPerBooking: params.MaxPerBooking,
		IsActive:      true,
	}
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var unit models.Unit
		if err := tx.Where(&models.Unit{ID: params.UnitID}).First(&unit).Error; err != nil {
			return err
		}
		return tx.Create(&tt).Error
	})
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

// GenerateToken mints a signed JWT for the user, used by tests and local
// tooling. Real identity lives behind the gateway.
func GenerateToken(user *models.User) (string, error) {
	claims := types.Claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
