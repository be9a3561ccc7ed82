// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"instalapro-backend/models"
	"instalapro-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// ReminderService sends every installer a summary of the next day's
// commitments: SMS when a phone is on file, email otherwise.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	dialer *gomail.Dialer
}

func NewReminderService(db *gorm.DB, dialer *gomail.Dialer) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		dialer: dialer,
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 7 AM
	c.AddFunc("0 7 * * *", s.SendDailyAgenda)

	c.Start()
	log.Println("Agenda reminder scheduler started")
}

// SendDailyAgenda gathers tomorrow's schedule entries grouped by
// effective installer and sends each installer one message.
func (s *ReminderService) SendDailyAgenda() {
	log.Println("Starting daily agenda processing...")

	start := utils.BeginningOfDay(time.Now().AddDate(0, 0, 1))
	end := start.AddDate(0, 0, 1)

	var entries []models.ScheduleEntry
	err := s.db.Preload("Service").
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time").
		Find(&entries).Error
	if err != nil {
		log.Printf("Failed to fetch tomorrow's schedule: %v", err)
		return
	}

	agenda := map[uuid.UUID][]models.ScheduleEntry{}
	for _, entry := range entries {
		switch {
		case entry.InstallerID != nil:
			agenda[*entry.InstallerID] = append(agenda[*entry.InstallerID], entry)
		case entry.Service != nil:
			agenda[entry.Service.InstallerID] = append(agenda[entry.Service.InstallerID], entry)
		}
	}

	for installerID, installerEntries := range agenda {
		var installer models.Installer
		if err := s.db.First(&installer, "id = ? AND deleted = ?", installerID, false).Error; err != nil {
			log.Printf("Installer %s: not found for agenda reminder: %v", installerID, err)
			continue
		}
		s.sendAgenda(installer, installerEntries)
	}

	log.Println("Daily agenda processing completed")
}

func (s *ReminderService) sendAgenda(installer models.Installer, entries []models.ScheduleEntry) {
	var lines []string
	for _, entry := range entries {
		window := fmt.Sprintf("%s-%s", entry.StartTime.Format("15:04"), entry.EndTime.Format("15:04"))
		if entry.Service != nil {
			lines = append(lines, fmt.Sprintf("%s folio %d at %s", window, entry.Service.Folio, entry.Service.Address))
		} else {
			lines = append(lines, fmt.Sprintf("%s blocked (%s)", window, entry.Description))
		}
	}
	message := fmt.Sprintf("Hi %s, your schedule for tomorrow:\n%s", installer.Name, strings.Join(lines, "\n"))

	if installer.Phone != "" && utils.ValidatePhone(installer.Phone) {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(installer.Phone)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
		params.SetBody(message)

		if _, err := s.client.Api.CreateMessage(params); err != nil {
			log.Printf("Failed to send agenda SMS to %s: %v", installer.Phone, err)
		}
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(os.Getenv("SMTP_USER"), "Special Services Area"))
	msg.SetHeader("To", installer.Email)
	msg.SetHeader("Subject", "Tomorrow's installation schedule")
	msg.SetBody("text/plain", message)

	if err := s.dialer.DialAndSend(msg); err != nil {
		log.Printf("Failed to send agenda email to %s: %v", installer.Email, err)
	}
}
