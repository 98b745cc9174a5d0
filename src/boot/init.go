package boot

import (
	"apts/src/common"
	"apts/src/db"
	"apts/src/lib"
	"apts/src/models"
	"apts/src/utils"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Unit{},
		&models.TicketType{},
		&models.Booking{},
		&models.BookingItem{},
		&models.Ticket{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitIssuer() {
	common.InitIssuer()
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	jobId, err := lib.CreateCronJob(func() {
		utils.DeactivatePastUnits()
	}, 10*time.Minute)
	if err != nil {
		log.Printf("Error scheduling unit sweep: %s\n", err.Error())
		return
	}
	log.Printf("Scheduled unit sweep: job=%s\n", *jobId)
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}
