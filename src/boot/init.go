package boot

import (
	"log"
	"strconv"
	"time"

	"eventsphere/src/common"
	"eventsphere/src/db"
	"eventsphere/src/lib"
	"eventsphere/src/models"
	"eventsphere/src/utils"

	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	conn := db.GetDb()

	err := conn.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventReview{},
		&models.TicketType{},
		&models.InventoryHold{},
		&models.Booking{},
		&models.JobTask{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return conn
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	// The hold sweep backs up user-driven expiry so abandoned carts never
	// pin inventory for more than a minute past their window.
	if _, err := lib.CreateCronJob(common.ExpireStaleHolds, time.Minute); err != nil {
		log.Printf("Error scheduling hold sweep: %s\n", err.Error())
	}
	go RecoverQueuedJobs()
	go UpdateExpiredJobs()
	sched.Start()
}

func InitBroker() {
	go lib.KafkaCreateTopics(lib.TOPIC_BOOKINGS_CONFIRMED, lib.TOPIC_BOOKINGS_CANCELED, lib.TOPIC_EVENTS_REVIEWED)
	go lib.KafkaConsumeTopics(utils.WithSuffix("notifications"), NotifyOnMessage,
		lib.TOPIC_BOOKINGS_CONFIRMED, lib.TOPIC_BOOKINGS_CANCELED, lib.TOPIC_EVENTS_REVIEWED)
}

// NotifyOnMessage fans broker events out to email. Failures only log;
// notifications are best effort.
func NotifyOnMessage(topic string, body string) {
	conn := db.GetDb()
	switch topic {
	case lib.TOPIC_BOOKINGS_CONFIRMED, lib.TOPIC_BOOKINGS_CANCELED:
		userId := gjson.Get(body, "user").Uint()
		var user models.User
		if err := conn.First(&user, userId).Error; err != nil {
			log.Printf("[notify] unknown user %d: %s\n", userId, err.Error())
			return
		}
		subject := "Your booking is confirmed"
		text := "Your booking has been confirmed. Your ticket code is attached to your account."
		if topic == lib.TOPIC_BOOKINGS_CANCELED {
			subject = "Your booking was canceled"
			text = "Your booking has been canceled."
			if gjson.Get(body, "reason").String() == "event_canceled" {
				text = "The event you booked has been canceled by the organizer."
			}
		}
		sendNotification(user.Email, subject, text)
	case lib.TOPIC_EVENTS_REVIEWED:
		organizerId := gjson.Get(body, "organizer").Uint()
		var organizer models.User
		if err := conn.First(&organizer, organizerId).Error; err != nil {
			log.Printf("[notify] unknown organizer %d: %s\n", organizerId, err.Error())
			return
		}
		decision := gjson.Get(body, "decision").String()
		comment := gjson.Get(body, "comment").String()
		sendNotification(organizer.Email, "Your event was reviewed",
			"Decision: "+decision+"\n\n"+comment)
	default:
		log.Printf("[notify] no handler for topic %s\n", topic)
	}
}

func sendNotification(to string, subject string, body string) {
	err := lib.SendMail(&lib.SendMailInput{
		From:     "no-reply@eventsphere.app",
		FromName: "EventSphere",
		To:       []string{to},
		Subject:  subject,
		Body:     body,
	})
	if err != nil {
		log.Printf("[notify] Error sending mail to %s: %s\n", to, err.Error())
	}
}

// RecoverQueuedJobs re-queues pending completion jobs after a restart.
func RecoverQueuedJobs() error {
	conn := db.GetDb()
	var jobTasks []models.JobTask
	err := conn.
		Model(&models.JobTask{}).
		Where(&models.JobTask{Status: "pending", JobType: "event_completion"}).
		Where("runs_at > ?", time.Now()).
		Order("runs_at asc").
		Limit(100).
		Find(&jobTasks).
		Error
	if err != nil {
		log.Printf("Error retrieving jobs: %s\n", err.Error())
		return err
	}
	log.Printf("Found %d pending jobs", len(jobTasks))
	for _, jobTask := range jobTasks {
		eventId, err := strconv.Atoi(jobTask.PayloadID)
		if err != nil {
			log.Printf("Skipping job %s: bad payload id %q\n", jobTask.ID.String(), jobTask.PayloadID)
			continue
		}
		taskId := jobTask.ID
		_, err = lib.CreateOneTimeJob(jobTask.RunsAt, func(id uint) {
			if err := common.CompleteEvent(id); err != nil {
				log.Printf("Completion job failed for event %d: %s\n", id, err.Error())
			}
			conn := db.GetDb()
			conn.Model(&models.JobTask{}).Where("id = ?", taskId).Update("status", "done")
		}, uint(eventId))
		if err != nil {
			log.Printf("Failed to schedule job [%s]. Skipping: %s\n", jobTask.ID.String(), err.Error())
			continue
		}
		log.Printf("Queued job: name=%s id=%s\n", jobTask.Name, jobTask.ID.String())
	}
	return nil
}

// UpdateExpiredJobs runs completion jobs whose time passed while the
// service was down, then retires the task rows.
func UpdateExpiredJobs() {
	conn := db.GetDb()
	var overdue []models.JobTask
	err := conn.
		Where(&models.JobTask{Status: "pending", JobType: "event_completion"}).
		Where("runs_at < ?", time.Now()).
		Find(&overdue).
		Error
	if err != nil {
		log.Printf("Error while processing expired jobs: %s\n", err.Error())
		return
	}
	for _, jobTask := range overdue {
		eventId, err := strconv.Atoi(jobTask.PayloadID)
		if err == nil {
			if err := common.CompleteEvent(uint(eventId)); err != nil {
				log.Printf("Completion failed for event %d: %s\n", eventId, err.Error())
				continue
			}
		}
		conn.Model(&models.JobTask{}).Where("id = ?", jobTask.ID).Update("status", "expired")
	}
}
